// Package service holds the request-side rules of the tracker: schedule derivation on
// every write, completion toggling, per-view task subsets and sidebar counts.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gtd-web/internal/cache"
	"gtd-web/internal/models"
	"gtd-web/internal/realtime"
	"gtd-web/internal/schedule"
	"gtd-web/internal/store"

	"go.uber.org/zap"
)

// ErrNotFound is returned when an operation addresses a task that doesn't exist.
var ErrNotFound = errors.New("task not found")

const projectsKey = "projects"

// Publisher receives an event after every successful mutation.
type Publisher interface {
	Publish(evt realtime.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(realtime.Event) {}

// Edit is a create or update request coming from a form or the JSON API.
// nil fields are left alone on update.
type Edit struct {
	Title       *string
	Description *string // empty clears
	Project     *string // empty files the task under "default"
	// Schedule, when set, decides the due date and state.
	Schedule *models.Schedule
	// DueDate is applied only when Schedule is nil.
	DueDate models.Nullable[time.Time]
}

type TaskService struct {
	store    store.Store
	events   Publisher
	projects *cache.TTL[string, []string]
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*TaskService)

func WithPublisher(p Publisher) Option {
	return func(s *TaskService) { s.events = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *TaskService) { s.log = l }
}

// WithClock replaces time.Now, which decides "today" for derivation and views.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

func WithProjectsTTL(ttl time.Duration) Option {
	return func(s *TaskService) { s.projects = cache.New[string, []string](ttl) }
}

func NewTaskService(st store.Store, opts ...Option) *TaskService {
	s := &TaskService{
		store:    st,
		events:   nopPublisher{},
		projects: cache.New[string, []string](30 * time.Second),
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the reference day used for derivation and date labels.
func (s *TaskService) Today() time.Time {
	return models.DateOf(s.now())
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.store.HealthCheck(ctx); err != nil {
		return fmt.Errorf("store health check: %w", err)
	}
	return nil
}

func (s *TaskService) GetTask(ctx context.Context, id int64) (models.Task, error) {
	task, ok, err := s.store.GetTaskByID(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if !ok {
		return models.Task{}, ErrNotFound
	}
	return task, nil
}

func (s *TaskService) CreateTask(ctx context.Context, edit Edit) (models.Task, error) {
	data := models.NewTask{}
	if edit.Title != nil {
		data.Title = strings.TrimSpace(*edit.Title)
	}
	if edit.Description != nil {
		if d := strings.TrimSpace(*edit.Description); d != "" {
			data.Description = &d
		}
	}
	if edit.Project != nil {
		data.Project = strings.TrimSpace(*edit.Project)
	}

	if edit.Schedule != nil {
		plan := schedule.Derive(edit.Schedule, s.now())
		data.Schedule = edit.Schedule
		data.State = plan.State
		data.DueDate = plan.DueDate
	} else if edit.DueDate.Set {
		data.DueDate = edit.DueDate.Value
	}

	task, err := s.store.AddTask(ctx, data)
	if err != nil {
		return models.Task{}, err
	}

	s.changed(realtime.EventTaskCreated, task.ID)
	s.log.Debug("Task created", zap.Int64("task_id", task.ID), zap.String("state", string(task.State)))
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id int64, edit Edit) (models.Task, error) {
	var patch models.TaskPatch
	if edit.Title != nil {
		title := strings.TrimSpace(*edit.Title)
		if title == "" {
			title = models.DefaultTitle
		}
		patch.Title = &title
	}
	if edit.Description != nil {
		if d := strings.TrimSpace(*edit.Description); d != "" {
			patch.Description = models.SetTo(d)
		} else {
			patch.Description = models.Clear[string]()
		}
	}
	if edit.Project != nil {
		patch.Project = models.Ptr(strings.TrimSpace(*edit.Project))
	}

	if edit.Schedule != nil {
		plan := schedule.Derive(edit.Schedule, s.now())
		patch.Schedule = models.SetTo(*edit.Schedule)
		patch.State = &plan.State
		patch.DueDate = models.Nullable[time.Time]{Set: true, Value: plan.DueDate}
		// derived states are never "completed"
		patch.CompletedAt = models.Clear[time.Time]()
	} else if edit.DueDate.Set {
		patch.DueDate = edit.DueDate
	}

	return s.update(ctx, id, patch)
}

// ToggleComplete flips a task between completed and inbox.
func (s *TaskService) ToggleComplete(ctx context.Context, id int64) (models.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	var patch models.TaskPatch
	if task.Completed() {
		patch.State = models.Ptr(models.StateInbox)
		patch.CompletedAt = models.Clear[time.Time]()
	} else {
		patch.State = models.Ptr(models.StateCompleted)
		patch.CompletedAt = models.SetTo(s.now())
	}
	return s.update(ctx, id, patch)
}

func (s *TaskService) update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	task, ok, err := s.store.UpdateTask(ctx, id, patch)
	if err != nil {
		return models.Task{}, err
	}
	if !ok {
		return models.Task{}, ErrNotFound
	}

	s.changed(realtime.EventTaskUpdated, id)
	s.log.Debug("Task updated", zap.Int64("task_id", id), zap.String("state", string(task.State)))
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.changed(realtime.EventTaskDeleted, id)
	s.log.Debug("Task deleted", zap.Int64("task_id", id))
	return nil
}

// changed drops cached derived data and tells connected pages to refresh.
func (s *TaskService) changed(eventType string, id int64) {
	s.projects.Invalidate(projectsKey)
	s.events.Publish(realtime.Event{Type: eventType, TaskID: id})
}

// Projects returns the named projects in use, served from cache between mutations.
func (s *TaskService) Projects(ctx context.Context) ([]string, error) {
	return s.projects.GetOrLoad(projectsKey, func() ([]string, error) {
		return s.store.GetProjects(ctx)
	})
}

// SuggestProjects returns the projects starting with prefix, ignoring case.
func (s *TaskService) SuggestProjects(ctx context.Context, prefix string) ([]string, error) {
	projects, err := s.Projects(ctx)
	if err != nil {
		return nil, err
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		if strings.HasPrefix(strings.ToLower(p), prefix) {
			out = append(out, p)
		}
	}
	return out, nil
}
