package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"gtd-web/internal/database"
	"gtd-web/internal/models"
	"gtd-web/internal/testutil"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ContractSuite runs the Store contract against one backend.
type ContractSuite struct {
	suite.Suite
	open  func(t *testing.T) Store
	store Store
	ctx   context.Context
}

func (s *ContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.open(s.T())
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &ContractSuite{open: func(*testing.T) Store {
		return NewMemoryStore()
	}})
}

func TestSQLStore(t *testing.T) {
	suite.Run(t, &ContractSuite{open: func(t *testing.T) Store {
		db, err := testutil.NewInMemoryDB()
		require.NoError(t, err)
		t.Cleanup(func() { _ = database.Close(db) })
		return NewSQLStore(db)
	}})
}

func (s *ContractSuite) add(data models.NewTask) models.Task {
	task, err := s.store.AddTask(s.ctx, data)
	s.Require().NoError(err)
	return task
}

func (s *ContractSuite) ids(tasks []models.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

// sameTask compares field by field; SQLite round trips drop the monotonic clock and location.
func (s *ContractSuite) sameTask(want, got models.Task) {
	r := s.Require()
	r.Equal(want.ID, got.ID)
	r.Equal(want.Title, got.Title)
	r.Equal(want.Description, got.Description)
	r.Equal(want.State, got.State)
	r.Equal(want.Schedule, got.Schedule)
	r.Equal(want.Project, got.Project)
	sameTime(s.T(), want.DueDate, got.DueDate)
	sameTime(s.T(), want.CompletedAt, got.CompletedAt)
	r.True(want.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", want.CreatedAt, got.CreatedAt)
	r.True(want.UpdatedAt.Equal(got.UpdatedAt), "updated_at %v != %v", want.UpdatedAt, got.UpdatedAt)
}

func sameTime(t *testing.T, want, got *time.Time) {
	t.Helper()
	if want == nil {
		require.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	require.True(t, want.Equal(*got), "%v != %v", *want, *got)
}

func (s *ContractSuite) TestAddTask_Defaults() {
	task := s.add(models.NewTask{Title: "X"})

	s.Positive(task.ID)
	s.Equal("X", task.Title)
	s.Equal(models.StateInbox, task.State)
	s.Equal(models.DefaultProject, task.Project)
	s.Nil(task.Schedule)
	s.Nil(task.DueDate)
	s.Nil(task.CompletedAt)
	s.Nil(task.Description)
	s.False(task.CreatedAt.IsZero())
	s.True(task.CreatedAt.Equal(task.UpdatedAt))
}

func (s *ContractSuite) TestAddTask_EmptyTitleGetsPlaceholder() {
	task := s.add(models.NewTask{})
	s.Equal(models.DefaultTitle, task.Title)
}

func (s *ContractSuite) TestAddTask_NormalizesInput() {
	task := s.add(models.NewTask{
		Title:    "normalize",
		Schedule: models.Ptr(models.ScheduleNone),
		DueDate:  models.Ptr(time.Date(2025, 7, 9, 17, 30, 0, 0, time.UTC)),
	})

	s.Nil(task.Schedule)
	s.Require().NotNil(task.DueDate)
	s.True(task.DueDate.Equal(time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC)))
}

func (s *ContractSuite) TestAddTask_RejectsUnknownEnums() {
	_, err := s.store.AddTask(s.ctx, models.NewTask{Title: "bad", State: "someday"})
	var verr *ValidationError
	s.Require().True(errors.As(err, &verr))
	s.Equal("state", verr.Field)

	_, err = s.store.AddTask(s.ctx, models.NewTask{Title: "bad", Schedule: models.Ptr(models.Schedule("year"))})
	s.Require().True(errors.As(err, &verr))
	s.Equal("schedule", verr.Field)

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *ContractSuite) TestGetTaskByID_RoundTrip() {
	created := s.add(models.NewTask{
		Title:       "round trip",
		Description: models.Ptr("details"),
		State:       models.StateActive,
		Schedule:    models.Ptr(models.ScheduleWeek),
		DueDate:     models.Ptr(time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)),
		Project:     "work",
	})

	got, ok, err := s.store.GetTaskByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.sameTask(created, got)
}

func (s *ContractSuite) TestGetTaskByID_NotFound() {
	_, ok, err := s.store.GetTaskByID(s.ctx, 404)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ContractSuite) TestIDsAreNeverReused() {
	first := s.add(models.NewTask{Title: "one"})
	second := s.add(models.NewTask{Title: "two"})
	s.NotEqual(first.ID, second.ID)

	deleted, err := s.store.DeleteTask(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Require().True(deleted)

	third := s.add(models.NewTask{Title: "three"})
	s.Greater(third.ID, second.ID)
}

func (s *ContractSuite) TestUpdateTask_EmptyPatchOnlyTouchesUpdatedAt() {
	fixed := time.Date(2025, 7, 9, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	s.T().Cleanup(func() { now = time.Now })

	created := s.add(models.NewTask{Title: "same", Project: "home"})

	updated, ok, err := s.store.UpdateTask(s.ctx, created.ID, models.TaskPatch{})
	s.Require().NoError(err)
	s.Require().True(ok)
	s.True(updated.UpdatedAt.After(created.UpdatedAt))

	want := created
	want.UpdatedAt = updated.UpdatedAt
	s.sameTask(want, updated)

	stored, _, err := s.store.GetTaskByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.sameTask(updated, stored)
}

func (s *ContractSuite) TestUpdateTask_EmptyTitleFallsBackToDefault() {
	created := s.add(models.NewTask{Title: "named"})

	updated, ok, err := s.store.UpdateTask(s.ctx, created.ID, models.TaskPatch{Title: models.Ptr("")})
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(models.DefaultTitle, updated.Title)

	stored, _, err := s.store.GetTaskByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(models.DefaultTitle, stored.Title)
}

func (s *ContractSuite) TestUpdateTask_OverwritesAndClears() {
	created := s.add(models.NewTask{
		Title:       "before",
		Description: models.Ptr("old"),
		Schedule:    models.Ptr(models.ScheduleToday),
		DueDate:     models.Ptr(time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC)),
		State:       models.StateActive,
	})
	completedAt := time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)

	updated, ok, err := s.store.UpdateTask(s.ctx, created.ID, models.TaskPatch{
		Title:       models.Ptr("after"),
		Description: models.Clear[string](),
		Schedule:    models.Clear[models.Schedule](),
		DueDate:     models.Clear[time.Time](),
		State:       models.Ptr(models.StateCompleted),
		CompletedAt: models.SetTo(completedAt),
		Project:     models.Ptr("work"),
	})
	s.Require().NoError(err)
	s.Require().True(ok)

	s.Equal(created.ID, updated.ID)
	s.True(created.CreatedAt.Equal(updated.CreatedAt))
	s.Equal("after", updated.Title)
	s.Nil(updated.Description)
	s.Nil(updated.Schedule)
	s.Nil(updated.DueDate)
	s.Equal(models.StateCompleted, updated.State)
	s.Equal("work", updated.Project)
	sameTime(s.T(), &completedAt, updated.CompletedAt)

	stored, _, err := s.store.GetTaskByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.sameTask(updated, stored)
}

func (s *ContractSuite) TestUpdateTask_EmptyProjectFallsBackToDefault() {
	created := s.add(models.NewTask{Title: "filed", Project: "work"})

	updated, _, err := s.store.UpdateTask(s.ctx, created.ID, models.TaskPatch{Project: models.Ptr("")})
	s.Require().NoError(err)
	s.Equal(models.DefaultProject, updated.Project)
}

func (s *ContractSuite) TestUpdateTask_NotFound() {
	_, ok, err := s.store.UpdateTask(s.ctx, 404, models.TaskPatch{Title: models.Ptr("ghost")})
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ContractSuite) TestUpdateTask_RejectsUnknownState() {
	created := s.add(models.NewTask{Title: "valid"})

	_, _, err := s.store.UpdateTask(s.ctx, created.ID, models.TaskPatch{State: models.Ptr(models.State("later"))})
	var verr *ValidationError
	s.Require().True(errors.As(err, &verr))

	stored, _, err := s.store.GetTaskByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(models.StateInbox, stored.State)
}

func (s *ContractSuite) TestDeleteTask_Twice() {
	created := s.add(models.NewTask{Title: "doomed"})

	deleted, err := s.store.DeleteTask(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.store.DeleteTask(s.ctx, created.ID)
	s.Require().NoError(err)
	s.False(deleted)

	_, ok, err := s.store.GetTaskByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ContractSuite) TestGetProjects() {
	projects, err := s.store.GetProjects(s.ctx)
	s.Require().NoError(err)
	s.Empty(projects)

	s.add(models.NewTask{Title: "a", Project: "work"})
	s.add(models.NewTask{Title: "b", Project: "home"})
	s.add(models.NewTask{Title: "c", Project: "work"})
	s.add(models.NewTask{Title: "d"})
	last := s.add(models.NewTask{Title: "e", Project: "errands"})

	projects, err = s.store.GetProjects(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"errands", "home", "work"}, projects)

	_, err = s.store.DeleteTask(s.ctx, last.ID)
	s.Require().NoError(err)

	projects, err = s.store.GetProjects(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"home", "work"}, projects)
}

func (s *ContractSuite) TestGetTasks_Filters() {
	july9 := time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC)
	july11 := time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)

	inboxWork := s.add(models.NewTask{Title: "inbox work", Project: "work"})
	inboxHome := s.add(models.NewTask{Title: "inbox home", Project: "home"})
	activeWork := s.add(models.NewTask{Title: "active work", Project: "work", State: models.StateActive, Schedule: models.Ptr(models.ScheduleToday), DueDate: &july9})
	doneWork := s.add(models.NewTask{Title: "done work", Project: "work", State: models.StateCompleted, DueDate: &july11})

	all, err := s.store.GetTasks(s.ctx, models.Filter{})
	s.Require().NoError(err)
	s.Equal([]int64{inboxWork.ID, inboxHome.ID, activeWork.ID, doneWork.ID}, s.ids(all))

	tests := []struct {
		name   string
		filter models.Filter
		want   []int64
	}{
		{"state and project", models.Filter{State: models.Ptr(models.StateInbox), Project: models.Ptr("work")}, []int64{inboxWork.ID}},
		{"state not completed", models.Filter{StateNot: models.Ptr(models.StateCompleted)}, []int64{inboxWork.ID, inboxHome.ID, activeWork.ID}},
		{"project not work", models.Filter{ProjectNot: models.Ptr("work")}, []int64{inboxHome.ID}},
		{"schedule", models.Filter{Schedule: models.Ptr(models.ScheduleToday)}, []int64{activeWork.ID}},
		{"due date exact", models.Filter{DueDate: models.Ptr(july11.Add(15 * time.Hour))}, []int64{doneWork.ID}},
		{"due on or before", models.Filter{DueOnOrBefore: &july9}, []int64{activeWork.ID}},
		{"due on or before later day", models.Filter{DueOnOrBefore: &july11}, []int64{activeWork.ID, doneWork.ID}},
		{"has due date", models.Filter{HasDueDate: models.Ptr(true)}, []int64{activeWork.ID, doneWork.ID}},
		{"no due date", models.Filter{HasDueDate: models.Ptr(false)}, []int64{inboxWork.ID, inboxHome.ID}},
		{"nothing matches", models.Filter{State: models.Ptr(models.StateMaybe)}, []int64{}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, err := s.store.GetTasks(s.ctx, tt.filter)
			s.Require().NoError(err)
			s.Equal(tt.want, s.ids(got))
		})
	}
}

func (s *ContractSuite) TestCompletionScenario() {
	created := s.add(models.NewTask{Title: "X"})

	_, ok, err := s.store.UpdateTask(s.ctx, created.ID, models.TaskPatch{
		State:       models.Ptr(models.StateCompleted),
		CompletedAt: models.SetTo(time.Now()),
	})
	s.Require().NoError(err)
	s.Require().True(ok)

	completed, err := s.store.GetTasks(s.ctx, models.Filter{State: models.Ptr(models.StateCompleted)})
	s.Require().NoError(err)
	s.Contains(s.ids(completed), created.ID)

	inbox, err := s.store.GetTasks(s.ctx, models.Filter{State: models.Ptr(models.StateInbox)})
	s.Require().NoError(err)
	s.NotContains(s.ids(inbox), created.ID)
}

func (s *ContractSuite) TestSeed_OnlyWhenEmpty() {
	added, err := Seed(s.ctx, s.store, SeedTasks())
	s.Require().NoError(err)
	s.Equal(len(SeedTasks()), added)

	added, err = Seed(s.ctx, s.store, SeedTasks())
	s.Require().NoError(err)
	s.Zero(added)

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(len(SeedTasks())), n)

	projects, err := s.store.GetProjects(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"maybe", "next"}, projects)
}

func (s *ContractSuite) TestHealthCheck() {
	s.NoError(s.store.HealthCheck(s.ctx))
}
