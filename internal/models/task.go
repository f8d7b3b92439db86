package models

import (
	"time"
)

// State is the GTD lifecycle state of a task
type State string

const (
	StateInbox     State = "inbox"
	StateActive    State = "active"
	StateMaybe     State = "maybe"
	StateCompleted State = "completed"
)

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	switch s {
	case StateInbox, StateActive, StateMaybe, StateCompleted:
		return true
	}
	return false
}

// Schedule is the planning keyword a due date is derived from
type Schedule string

const (
	ScheduleNone  Schedule = "none"
	ScheduleToday Schedule = "today"
	ScheduleWeek  Schedule = "week"
	ScheduleMonth Schedule = "month"
	ScheduleMaybe Schedule = "maybe"
)

// Valid reports whether s is one of the known schedule keywords.
func (s Schedule) Valid() bool {
	switch s {
	case ScheduleNone, ScheduleToday, ScheduleWeek, ScheduleMonth, ScheduleMaybe:
		return true
	}
	return false
}

const (
	// DefaultProject groups tasks that were not filed under a named project.
	DefaultProject = "default"
	// DefaultTitle is used when a task is created without a title.
	DefaultTitle = "Untitled Task"
)

// Task represents a task in the system
type Task struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description"`
	State       State      `json:"state" gorm:"not null;default:'inbox'"`
	Schedule    *Schedule  `json:"schedule"`
	DueDate     *time.Time `json:"due_date" gorm:"column:due_date"`
	Project     string     `json:"project" gorm:"not null;default:'default'"`
	CompletedAt *time.Time `json:"completed_at" gorm:"column:completed_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime:false"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// Completed reports whether the task is done.
func (t Task) Completed() bool {
	return t.State == StateCompleted
}

// HasProject reports whether the task is filed under a named project.
func (t Task) HasProject() bool {
	return t.Project != "" && t.Project != DefaultProject
}

// NewTask is the input for creating a task. Zero fields take the store defaults.
type NewTask struct {
	Title       string
	Description *string
	State       State
	Schedule    *Schedule
	DueDate     *time.Time
	Project     string
}

// Nullable is a patch value for a column that can be cleared.
// The zero value leaves the column untouched.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// SetTo returns a Nullable that writes v.
func SetTo[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Clear returns a Nullable that writes NULL.
func Clear[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// TaskPatch represents a partial update.
// nil pointer or unset Nullable => "no change"
type TaskPatch struct {
	Title       *string
	Description Nullable[string]
	State       *State
	Schedule    Nullable[Schedule]
	DueDate     Nullable[time.Time]
	Project     *string
	CompletedAt Nullable[time.Time]
}

// Apply copies every set field of p onto t. It does not touch ID, CreatedAt or UpdatedAt.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description.Set {
		t.Description = p.Description.Value
	}
	if p.State != nil {
		t.State = *p.State
	}
	if p.Schedule.Set {
		t.Schedule = p.Schedule.Value
	}
	if p.DueDate.Set {
		t.DueDate = p.DueDate.Value
	}
	if p.Project != nil {
		t.Project = *p.Project
	}
	if p.CompletedAt.Set {
		t.CompletedAt = p.CompletedAt.Value
	}
}

// Filter selects tasks. Every set field must match (AND); the zero Filter matches all tasks.
type Filter struct {
	State      *State
	StateNot   *State
	Project    *string
	ProjectNot *string
	Schedule   *Schedule
	// DueDate matches tasks due on exactly that calendar day.
	DueDate *time.Time
	// DueOnOrBefore matches tasks with a due date no later than that day.
	DueOnOrBefore *time.Time
	HasDueDate    *bool
}

// Matches evaluates the filter against a single task.
func (f Filter) Matches(t Task) bool {
	if f.State != nil && t.State != *f.State {
		return false
	}
	if f.StateNot != nil && t.State == *f.StateNot {
		return false
	}
	if f.Project != nil && t.Project != *f.Project {
		return false
	}
	if f.ProjectNot != nil && t.Project == *f.ProjectNot {
		return false
	}
	if f.Schedule != nil && (t.Schedule == nil || *t.Schedule != *f.Schedule) {
		return false
	}
	if f.DueDate != nil && (t.DueDate == nil || !t.DueDate.Equal(DateOf(*f.DueDate))) {
		return false
	}
	if f.DueOnOrBefore != nil && (t.DueDate == nil || t.DueDate.After(DateOf(*f.DueOnOrBefore))) {
		return false
	}
	if f.HasDueDate != nil && (t.DueDate != nil) != *f.HasDueDate {
		return false
	}
	return true
}

// Ptr returns a pointer to v. Handy for building filters and patches.
func Ptr[T any](v T) *T {
	return &v
}

// DateOf drops the clock part of t, keeping its calendar day as midnight UTC.
// Due dates are stored in this form so equality and ordering work in both backends.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
