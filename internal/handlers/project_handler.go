package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetProjects returns the named projects in use
// GET /api/projects
func (h *Handler) GetProjects(c *gin.Context) {
	projects, err := h.tasks.Projects(c.Request.Context())
	if err != nil {
		h.jsonError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"count":    len(projects),
	})
}
