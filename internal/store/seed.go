package store

import (
	"context"
	"fmt"
	"time"

	"gtd-web/internal/models"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// SeedTasks is the demo data loaded into an empty store.
func SeedTasks() []models.NewTask {
	return []models.NewTask{
		{Title: "create datasets management webapp", DueDate: day(2025, time.July, 7), Project: "maybe", Schedule: models.Ptr(models.ScheduleToday), State: models.StateInbox},
		{Title: "create local docker repository", Project: "maybe", State: models.StateInbox},
		{Title: "basketball player tracking: get detections without NMS", Project: "maybe", State: models.StateInbox},
		{Title: "generic framework for resuming processes after power fail/restart", DueDate: day(2025, time.July, 11), Project: "next", Schedule: models.Ptr(models.ScheduleWeek), State: models.StateActive},
		{Title: "joint ball and carrier detection", State: models.StateInbox},
		{Title: "Vollyball total match count", DueDate: day(2025, time.September, 15), Project: "maybe", State: models.StateInbox},
		{Title: "Ball carrier filter", DueDate: day(2025, time.September, 22), Project: "next", State: models.StateInbox},
	}
}

// Seed adds tasks only when the store is empty, so restarts never duplicate them.
// It returns the number of tasks added.
func Seed(ctx context.Context, s Store, tasks []models.NewTask) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for i, t := range tasks {
		if _, err := s.AddTask(ctx, t); err != nil {
			return i, fmt.Errorf("seed task %q: %w", t.Title, err)
		}
	}
	return len(tasks), nil
}
