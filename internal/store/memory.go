package store

import (
	"context"
	"sort"
	"sync"

	"gtd-web/internal/models"
)

// MemoryStore keeps tasks in a map for the life of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	tasks  map[int64]models.Task
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:  make(map[int64]models.Task),
		nextID: 1,
	}
}

func (s *MemoryStore) GetTasks(ctx context.Context, filter models.Filter) ([]models.Task, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.Matches(t) {
			out = append(out, clone(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) AddTask(ctx context.Context, data models.NewTask) (models.Task, error) {
	_ = ctx

	t, err := newTask(data)
	if err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextID
	s.nextID++
	s.tasks[t.ID] = t
	return clone(t), nil
}

func (s *MemoryStore) GetTaskByID(ctx context.Context, id int64) (models.Task, bool, error) {
	_ = ctx

	s.mu.RLock()
	t, ok := s.tasks[id]
	s.mu.RUnlock()

	if !ok {
		return models.Task{}, false, nil
	}
	return clone(t), true, nil
}

func (s *MemoryStore) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, bool, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, false, nil
	}
	t = clone(t)
	if err := applyPatch(&t, patch); err != nil {
		return models.Task{}, true, err
	}
	s.tasks[id] = t
	return clone(t), true, nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, id int64) (bool, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}

func (s *MemoryStore) GetProjects(ctx context.Context) ([]string, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, t := range s.tasks {
		if t.HasProject() {
			seen[t.Project] = struct{}{}
		}
	}
	projects := make([]string, 0, len(seen))
	for p := range seen {
		projects = append(projects, p)
	}
	sort.Strings(projects)
	return projects, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.tasks)), nil
}

func (s *MemoryStore) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

// clone copies the pointer fields so callers never share memory with the map.
func clone(t models.Task) models.Task {
	if t.Description != nil {
		t.Description = models.Ptr(*t.Description)
	}
	if t.Schedule != nil {
		t.Schedule = models.Ptr(*t.Schedule)
	}
	if t.DueDate != nil {
		t.DueDate = models.Ptr(*t.DueDate)
	}
	if t.CompletedAt != nil {
		t.CompletedAt = models.Ptr(*t.CompletedAt)
	}
	return t
}

var _ Store = (*MemoryStore)(nil)
