package handlers

import (
	"net/http"
	"strings"

	"gtd-web/internal/middleware"
	"gtd-web/internal/service"
	"gtd-web/internal/views"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// sidebarStale asks the sidebar to refresh its counts after a local change.
const sidebarStale = "sidebar-stale"

func (h *Handler) list(c *gin.Context, v service.View, project string) (views.List, error) {
	tasks, err := h.tasks.ListView(c.Request.Context(), v, project)
	if err != nil {
		return views.List{}, err
	}
	return views.List{
		Title:   v.Title(project),
		View:    v,
		Project: project,
		Today:   h.tasks.Today(),
		Tasks:   tasks,
	}, nil
}

// Index handles GET /
func (h *Handler) Index(c *gin.Context) {
	v, project, err := currentView(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	ctx := c.Request.Context()

	list, err := h.list(c, v, project)
	if err != nil {
		h.log.Error("Failed to load task list", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load tasks")
		return
	}
	counts, err := h.tasks.Counts(ctx)
	if err != nil {
		h.log.Error("Failed to load counts", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load tasks")
		return
	}
	projects, err := h.tasks.Projects(ctx)
	if err != nil {
		h.log.Error("Failed to load projects", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load tasks")
		return
	}

	c.HTML(http.StatusOK, views.PageIndex, views.Page{
		List:        list,
		Sidebar:     views.Sidebar{Counts: counts, View: v, Project: project},
		Options:     views.Options{Projects: projects},
		AuthEnabled: h.AuthEnabled(),
		Username:    middleware.Username(c),
	})
}

// TaskList handles GET /tasks?view=&project=
func (h *Handler) TaskList(c *gin.Context) {
	v, project, err := currentView(c)
	if err != nil {
		h.htmlError(c, err)
		return
	}
	h.renderList(c, v, project)
}

func (h *Handler) renderList(c *gin.Context, v service.View, project string) {
	list, err := h.list(c, v, project)
	if err != nil {
		h.htmlError(c, err)
		return
	}
	c.HTML(http.StatusOK, views.FragmentList, list)
}

// Sidebar handles GET /sidebar
func (h *Handler) Sidebar(c *gin.Context) {
	v, project, err := currentView(c)
	if err != nil {
		h.htmlError(c, err)
		return
	}
	counts, err := h.tasks.Counts(c.Request.Context())
	if err != nil {
		h.htmlError(c, err)
		return
	}
	c.HTML(http.StatusOK, views.FragmentSidebar, views.Sidebar{Counts: counts, View: v, Project: project})
}

// CreateTaskForm handles POST /tasks and answers with the refreshed list.
func (h *Handler) CreateTaskForm(c *gin.Context) {
	v, project, err := currentView(c)
	if err != nil {
		h.htmlError(c, err)
		return
	}

	var in taskInput
	if err := c.ShouldBindWith(&in, binding.FormPost); err != nil {
		h.htmlError(c, inputError{err})
		return
	}
	edit, err := in.edit()
	if err != nil {
		h.htmlError(c, err)
		return
	}
	// filing a task from a project view puts it in that project
	if v == service.ViewProject && (edit.Project == nil || strings.TrimSpace(*edit.Project) == "") {
		edit.Project = &project
	}

	if _, err := h.tasks.CreateTask(c.Request.Context(), edit); err != nil {
		h.htmlError(c, err)
		return
	}
	c.Header("HX-Trigger", sidebarStale)
	h.renderList(c, v, project)
}

// EditTaskForm handles GET /tasks/:id/edit
func (h *Handler) EditTaskForm(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.htmlError(c, err)
		return
	}
	v, project, err := currentView(c)
	if err != nil {
		h.htmlError(c, err)
		return
	}
	task, err := h.tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		h.htmlError(c, err)
		return
	}
	c.HTML(http.StatusOK, views.FragmentEdit, views.EditForm{Task: task, View: v, Project: project})
}

// UpdateTaskForm handles PUT /tasks/:id and answers with the updated row.
func (h *Handler) UpdateTaskForm(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.htmlError(c, err)
		return
	}
	v, project, err := currentView(c)
	if err != nil {
		h.htmlError(c, err)
		return
	}

	var in taskInput
	if err := c.ShouldBindWith(&in, binding.FormPost); err != nil {
		h.htmlError(c, inputError{err})
		return
	}
	edit, err := in.edit()
	if err != nil {
		h.htmlError(c, err)
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), id, edit)
	if err != nil {
		h.htmlError(c, err)
		return
	}
	c.Header("HX-Trigger", sidebarStale)
	c.HTML(http.StatusOK, views.FragmentItem, views.Item{
		Task:    task,
		Today:   h.tasks.Today(),
		View:    v,
		Project: project,
	})
}

// ToggleTask handles POST /tasks/:id/toggle and answers with the list it was clicked in.
func (h *Handler) ToggleTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.htmlError(c, err)
		return
	}
	v, project, err := currentView(c)
	if err != nil {
		h.htmlError(c, err)
		return
	}
	if _, err := h.tasks.ToggleComplete(c.Request.Context(), id); err != nil {
		h.htmlError(c, err)
		return
	}
	c.Header("HX-Trigger", sidebarStale)
	h.renderList(c, v, project)
}

// DeleteTaskForm handles DELETE /tasks/:id; the empty body removes the row.
func (h *Handler) DeleteTaskForm(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.htmlError(c, err)
		return
	}
	if err := h.tasks.DeleteTask(c.Request.Context(), id); err != nil {
		h.htmlError(c, err)
		return
	}
	c.Header("HX-Trigger", sidebarStale)
	c.Status(http.StatusOK)
}

// SuggestProjects handles GET /projects/suggest?q=
// The project input sends its own value as "project" when q is absent.
func (h *Handler) SuggestProjects(c *gin.Context) {
	prefix := c.Query("q")
	if prefix == "" {
		prefix = c.Query("project")
	}
	projects, err := h.tasks.SuggestProjects(c.Request.Context(), prefix)
	if err != nil {
		h.htmlError(c, err)
		return
	}
	if projects == nil {
		projects = []string{}
	}
	c.HTML(http.StatusOK, views.FragmentOptions, views.Options{Projects: projects})
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	if err := h.tasks.HealthCheck(c.Request.Context()); err != nil {
		h.log.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
