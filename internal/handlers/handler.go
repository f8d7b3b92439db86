package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gtd-web/internal/auth"
	"gtd-web/internal/realtime"
	"gtd-web/internal/schedule"
	"gtd-web/internal/service"
	"gtd-web/internal/store"
	"gtd-web/internal/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the htmx pages, the JSON API and the change feed.
type Handler struct {
	tasks  *service.TaskService
	hub    *realtime.Hub
	log    *zap.Logger
	tokens *auth.Tokens
	creds  auth.Credentials
}

type Options struct {
	Tasks *service.TaskService
	Hub   *realtime.Hub
	Log   *zap.Logger
	// Tokens is nil when login is disabled.
	Tokens      *auth.Tokens
	Credentials auth.Credentials
}

func New(opts Options) *Handler {
	h := &Handler{
		tasks:  opts.Tasks,
		hub:    opts.Hub,
		log:    opts.Log,
		tokens: opts.Tokens,
		creds:  opts.Credentials,
	}
	if h.hub == nil {
		h.hub = realtime.NewHub()
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	return h
}

// AuthEnabled reports whether a login is required.
func (h *Handler) AuthEnabled() bool {
	return h.tokens != nil
}

// inputError is a request value that could not be parsed.
type inputError struct {
	err error
}

func (e inputError) Error() string { return e.err.Error() }
func (e inputError) Unwrap() error { return e.err }

// taskInput is the create/update payload of both the forms and the JSON API.
// Absent fields are nil; an empty due_date clears the date.
type taskInput struct {
	Title       *string `form:"title" json:"title"`
	Description *string `form:"description" json:"description"`
	Project     *string `form:"project" json:"project"`
	Schedule    *string `form:"schedule" json:"schedule"`
	DueDate     *string `form:"due_date" json:"due_date"`
}

func (in taskInput) edit() (service.Edit, error) {
	edit := service.Edit{
		Title:       in.Title,
		Description: in.Description,
		Project:     in.Project,
	}
	if in.Schedule != nil && strings.TrimSpace(*in.Schedule) != "" {
		s, err := schedule.ParseSchedule(*in.Schedule)
		if err != nil {
			return service.Edit{}, inputError{err}
		}
		edit.Schedule = &s
	}
	if in.DueDate != nil {
		due, err := schedule.ParseDate(*in.DueDate)
		if err != nil {
			return service.Edit{}, inputError{err}
		}
		edit.DueDate.Set = true
		edit.DueDate.Value = due
	}
	return edit, nil
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, inputError{errors.New("invalid task id")}
	}
	return id, nil
}

// currentView reads the view and project query parameters the list was rendered with.
func currentView(c *gin.Context) (service.View, string, error) {
	v, err := service.ParseView(c.Query("view"))
	if err != nil {
		return "", "", inputError{err}
	}
	project := strings.TrimSpace(c.Query("project"))
	if v == service.ViewProject && project == "" {
		v = service.ViewInbox
	}
	return v, project, nil
}

// statusFor maps a service or store error onto an HTTP status.
func statusFor(err error) int {
	var validation *store.ValidationError
	var input inputError
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &input):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// jsonError writes {"error": ...}; unexpected errors are logged and hidden from the client.
func (h *Handler) jsonError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Error("Request failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path))
		msg = "Internal server error"
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}

// htmlError swaps an inline error message into #flash instead of the request's target.
func (h *Handler) htmlError(c *gin.Context, err error) {
	msg := err.Error()
	switch statusFor(err) {
	case http.StatusNotFound:
		msg = "That task no longer exists."
	case http.StatusInternalServerError:
		h.log.Error("Request failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path))
		msg = "Something went wrong, please try again."
	}
	_ = c.Error(err)
	c.Header("HX-Retarget", "#flash")
	c.Header("HX-Reswap", "outerHTML")
	c.HTML(http.StatusOK, views.FragmentError, views.Flash{Message: msg})
}
