package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

/*
*
ListTasks handles GET /api/tasks
Optional query params: view (default inbox) and project for the project view.
*/
func (h *Handler) ListTasks(c *gin.Context) {
	v, project, err := currentView(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := h.tasks.ListView(c.Request.Context(), v, project)
	if err != nil {
		h.jsonError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":   tasks,
		"count":   len(tasks),
		"view":    v,
		"project": project,
	})
}

// GetTask handles GET /api/tasks/:id
func (h *Handler) GetTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

/*
*
CreateTask handles POST /api/tasks
A schedule keyword decides the due date and state; due_date is used only without one.
*/
func (h *Handler) CreateTask(c *gin.Context) {
	var req taskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	edit, err := req.edit()
	if err != nil {
		h.jsonError(c, err)
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), edit)
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PATCH /api/tasks/:id
// Only the fields present in the body change; "due_date": "" clears the date.
func (h *Handler) UpdateTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req taskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	edit, err := req.edit()
	if err != nil {
		h.jsonError(c, err)
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), id, edit)
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ToggleTaskJSON handles POST /api/tasks/:id/toggle
func (h *Handler) ToggleTaskJSON(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.ToggleComplete(c.Request.Context(), id)
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), id); err != nil {
		h.jsonError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      id,
	})
}

// GetCounts handles GET /api/counts
func (h *Handler) GetCounts(c *gin.Context) {
	counts, err := h.tasks.Counts(c.Request.Context())
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
