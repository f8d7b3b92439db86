package routes

import (
	"net/http"

	"gtd-web/internal/auth"
	"gtd-web/internal/handlers"
	"gtd-web/internal/middleware"
	"gtd-web/internal/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRoutes builds the engine. A nil tokens leaves every route open.
func SetupRoutes(h *handlers.Handler, tokens *auth.Tokens, log *zap.Logger) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery(), middleware.RequestID(), middleware.Logging(log))
	ginRouter.SetHTMLTemplate(views.MustLoad())

	// Public routes (no authentication required)
	ginRouter.GET("/health", h.Health)
	ginRouter.GET("/login", h.LoginPage)
	ginRouter.POST("/login", h.Login)
	ginRouter.POST("/logout", h.Logout)

	// Protected routes (authentication required when a login is configured)
	pages := ginRouter.Group("")
	pages.Use(middleware.SessionAuth(tokens))
	{
		pages.GET("/", h.Index)
		pages.GET("/sidebar", h.Sidebar)
		pages.GET("/tasks", h.TaskList)
		pages.POST("/tasks", h.CreateTaskForm)
		pages.GET("/tasks/:id/edit", h.EditTaskForm)
		pages.PUT("/tasks/:id", h.UpdateTaskForm)
		pages.POST("/tasks/:id/toggle", h.ToggleTask)
		pages.DELETE("/tasks/:id", h.DeleteTaskForm)
		pages.GET("/projects/suggest", h.SuggestProjects)
		pages.GET("/ws", h.WebSocket)
	}

	api := ginRouter.Group("/api")
	api.Use(middleware.CORS())
	{
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		api.POST("/login", h.Login)
	}

	protectedAPI := api.Group("")
	protectedAPI.Use(middleware.SessionAuth(tokens))
	{
		protectedAPI.GET("/tasks", h.ListTasks)
		protectedAPI.GET("/tasks/:id", h.GetTask)
		protectedAPI.POST("/tasks", h.CreateTask)
		protectedAPI.PATCH("/tasks/:id", h.UpdateTask)
		protectedAPI.POST("/tasks/:id/toggle", h.ToggleTaskJSON)
		protectedAPI.DELETE("/tasks/:id", h.DeleteTask)
		protectedAPI.GET("/projects", h.GetProjects)
		protectedAPI.GET("/counts", h.GetCounts)
	}

	ginRouter.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return ginRouter
}
