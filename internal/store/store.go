// Package store owns task records. Two backends satisfy the same Store contract:
// a volatile in-memory map and a durable SQLite table.
package store

import (
	"context"
	"fmt"
	"time"

	"gtd-web/internal/models"
)

// Store is the task persistence contract shared by every backend.
type Store interface {
	// GetTasks returns every task matching the filter, ordered by id.
	GetTasks(ctx context.Context, filter models.Filter) ([]models.Task, error)
	// AddTask creates a task, filling unset fields with defaults.
	AddTask(ctx context.Context, data models.NewTask) (models.Task, error)
	// GetTaskByID returns false when no task has that id.
	GetTaskByID(ctx context.Context, id int64) (models.Task, bool, error)
	// UpdateTask overwrites the set fields of the patch and refreshes UpdatedAt.
	// It returns false when no task has that id.
	UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, bool, error)
	// DeleteTask reports whether a task existed to delete.
	DeleteTask(ctx context.Context, id int64) (bool, error)
	// GetProjects returns the sorted distinct project names in use, without "default".
	GetProjects(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	HealthCheck(ctx context.Context) error
}

// ValidationError reports a malformed field value on create or update.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// now is a small indirection to allow test stubbing.
var now = time.Now

// touch returns the next UpdatedAt for a record last updated at prev.
// The result is always strictly after prev, even on coarse clocks.
func touch(prev time.Time) time.Time {
	ts := now()
	if !ts.After(prev) {
		ts = prev.Add(time.Microsecond)
	}
	return ts
}

// newTask validates data and builds the record a backend will store.
func newTask(data models.NewTask) (models.Task, error) {
	t := models.Task{
		Title:       data.Title,
		Description: data.Description,
		State:       data.State,
		Schedule:    data.Schedule,
		DueDate:     data.DueDate,
		Project:     data.Project,
	}
	if t.State == "" {
		t.State = models.StateInbox
	}
	if err := normalize(&t); err != nil {
		return models.Task{}, err
	}

	ts := now()
	t.CreatedAt = ts
	t.UpdatedAt = ts
	return t, nil
}

// applyPatch merges patch into t and validates the result.
func applyPatch(t *models.Task, patch models.TaskPatch) error {
	patch.Apply(t)
	if err := normalize(t); err != nil {
		return err
	}
	t.UpdatedAt = touch(t.UpdatedAt)
	return nil
}

func normalize(t *models.Task) error {
	if t.Title == "" {
		t.Title = models.DefaultTitle
	}
	if !t.State.Valid() {
		return &ValidationError{Field: "state", Value: string(t.State)}
	}
	if t.Schedule != nil {
		if !t.Schedule.Valid() {
			return &ValidationError{Field: "schedule", Value: string(*t.Schedule)}
		}
		if *t.Schedule == models.ScheduleNone {
			t.Schedule = nil
		}
	}
	if t.Project == "" {
		t.Project = models.DefaultProject
	}
	if t.DueDate != nil {
		d := models.DateOf(*t.DueDate)
		t.DueDate = &d
	}
	return nil
}
