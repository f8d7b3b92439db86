package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gtd-web/internal/models"
	"gtd-web/internal/schedule"
)

// View is a named subset of tasks shown in the main list.
type View string

const (
	ViewAll       View = "all"
	ViewInbox     View = "inbox"
	ViewToday     View = "today"
	ViewWeek      View = "week"
	ViewMonth     View = "month"
	ViewMaybe     View = "maybe"
	ViewCompleted View = "completed"
	ViewProject   View = "project"
)

// ParseView reads a view name; empty means inbox.
func ParseView(s string) (View, error) {
	if s == "" {
		return ViewInbox, nil
	}
	switch v := View(s); v {
	case ViewAll, ViewInbox, ViewToday, ViewWeek, ViewMonth, ViewMaybe, ViewCompleted, ViewProject:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Title is the heading shown above the list.
func (v View) Title(project string) string {
	switch v {
	case ViewAll:
		return "All tasks"
	case ViewToday:
		return "Today"
	case ViewWeek:
		return "This week"
	case ViewMonth:
		return "This month"
	case ViewMaybe:
		return "Maybe"
	case ViewCompleted:
		return "Completed"
	case ViewProject:
		return "#" + project
	default:
		return "Inbox"
	}
}

// viewFilter maps a view onto the store's filter. Dated views show open tasks due on or
// before the end of their bucket, so overdue work stays visible.
func viewFilter(v View, project string, today time.Time) models.Filter {
	open := models.Ptr(models.StateCompleted)
	switch v {
	case ViewInbox:
		return models.Filter{State: models.Ptr(models.StateInbox)}
	case ViewToday:
		return models.Filter{StateNot: open, DueOnOrBefore: &today}
	case ViewWeek:
		return models.Filter{StateNot: open, DueOnOrBefore: models.Ptr(schedule.Friday(today))}
	case ViewMonth:
		return models.Filter{StateNot: open, DueOnOrBefore: models.Ptr(schedule.EndOfMonth(today))}
	case ViewMaybe:
		return models.Filter{State: models.Ptr(models.StateMaybe)}
	case ViewCompleted:
		return models.Filter{State: models.Ptr(models.StateCompleted)}
	case ViewProject:
		return models.Filter{StateNot: open, Project: &project}
	default:
		return models.Filter{}
	}
}

// ListView returns the tasks of a view, soonest due first; tasks without a due date
// come last. Completed tasks are listed most recently completed first.
func (s *TaskService) ListView(ctx context.Context, v View, project string) ([]models.Task, error) {
	if v == ViewProject && project == "" {
		return nil, fmt.Errorf("project view needs a project name")
	}
	tasks, err := s.store.GetTasks(ctx, viewFilter(v, project, s.Today()))
	if err != nil {
		return nil, err
	}
	if v == ViewCompleted {
		sortByCompletion(tasks)
	} else {
		sortByDueDate(tasks)
	}
	return tasks, nil
}

func sortByDueDate(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].DueDate, tasks[j].DueDate
		switch {
		case a == nil && b == nil:
			return tasks[i].ID < tasks[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		default:
			return tasks[i].ID < tasks[j].ID
		}
	})
}

func sortByCompletion(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].CompletedAt, tasks[j].CompletedAt
		if a == nil || b == nil || a.Equal(*b) {
			return tasks[i].ID > tasks[j].ID
		}
		return a.After(*b)
	})
}

// ProjectCount is a project with the number of its open tasks.
type ProjectCount struct {
	Name string `json:"name"`
	Open int    `json:"open"`
}

// Counts feeds the sidebar badges.
type Counts struct {
	All       int            `json:"all"`
	Inbox     int            `json:"inbox"`
	Today     int            `json:"today"`
	Week      int            `json:"week"`
	Month     int            `json:"month"`
	Maybe     int            `json:"maybe"`
	Completed int            `json:"completed"`
	Projects  []ProjectCount `json:"projects"`
}

// Counts computes every sidebar badge from one scan of the store.
func (s *TaskService) Counts(ctx context.Context) (Counts, error) {
	tasks, err := s.store.GetTasks(ctx, models.Filter{})
	if err != nil {
		return Counts{}, err
	}
	projects, err := s.Projects(ctx)
	if err != nil {
		return Counts{}, err
	}

	today := s.Today()
	count := func(v View) int {
		f := viewFilter(v, "", today)
		n := 0
		for _, t := range tasks {
			if f.Matches(t) {
				n++
			}
		}
		return n
	}

	open := make(map[string]int, len(projects))
	for _, t := range tasks {
		if !t.Completed() {
			open[t.Project]++
		}
	}

	c := Counts{
		All:       len(tasks),
		Inbox:     count(ViewInbox),
		Today:     count(ViewToday),
		Week:      count(ViewWeek),
		Month:     count(ViewMonth),
		Maybe:     count(ViewMaybe),
		Completed: count(ViewCompleted),
		Projects:  make([]ProjectCount, 0, len(projects)),
	}
	for _, p := range projects {
		c.Projects = append(c.Projects, ProjectCount{Name: p, Open: open[p]})
	}
	return c, nil
}
