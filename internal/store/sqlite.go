package store

import (
	"context"
	"errors"
	"fmt"

	"gtd-web/internal/models"

	"gorm.io/gorm"
)

// SQLStore keeps tasks in a single SQLite table through gorm.
// Each call runs as its own short transaction; concurrent updates to one task race
// and the last write wins.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore wraps an open, migrated database.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) GetTasks(ctx context.Context, filter models.Filter) ([]models.Task, error) {
	query := s.db.WithContext(ctx).Model(&models.Task{})

	if filter.State != nil {
		query = query.Where("state = ?", *filter.State)
	}
	if filter.StateNot != nil {
		query = query.Where("state <> ?", *filter.StateNot)
	}
	if filter.Project != nil {
		query = query.Where("project = ?", *filter.Project)
	}
	if filter.ProjectNot != nil {
		query = query.Where("project <> ?", *filter.ProjectNot)
	}
	if filter.Schedule != nil {
		query = query.Where("schedule = ?", *filter.Schedule)
	}
	if filter.DueDate != nil {
		query = query.Where("due_date = ?", models.DateOf(*filter.DueDate))
	}
	if filter.DueOnOrBefore != nil {
		query = query.Where("due_date IS NOT NULL AND due_date <= ?", models.DateOf(*filter.DueOnOrBefore))
	}
	if filter.HasDueDate != nil {
		if *filter.HasDueDate {
			query = query.Where("due_date IS NOT NULL")
		} else {
			query = query.Where("due_date IS NULL")
		}
	}

	var tasks []models.Task
	if err := query.Order("id asc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	return tasks, nil
}

func (s *SQLStore) AddTask(ctx context.Context, data models.NewTask) (models.Task, error) {
	t, err := newTask(data)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

func (s *SQLStore) GetTaskByID(ctx context.Context, id int64) (models.Task, bool, error) {
	var t models.Task
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, false, nil
	}
	if err != nil {
		return models.Task{}, false, fmt.Errorf("fetch task %d: %w", id, err)
	}
	return t, true, nil
}

func (s *SQLStore) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, bool, error) {
	var (
		t     models.Task
		found bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", id).First(&t).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch task %d: %w", id, err)
		}
		found = true

		if err := applyPatch(&t, patch); err != nil {
			return err
		}
		// Save writes every column, so cleared pointers become NULL
		if err := tx.Save(&t).Error; err != nil {
			return fmt.Errorf("update task %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return models.Task{}, found, err
	}
	if !found {
		return models.Task{}, false, nil
	}
	return t, true, nil
}

func (s *SQLStore) DeleteTask(ctx context.Context, id int64) (bool, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return false, fmt.Errorf("delete task %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *SQLStore) GetProjects(ctx context.Context) ([]string, error) {
	var projects []string
	err := s.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("project <> ? AND project <> ''", models.DefaultProject).
		Distinct().
		Order("project asc").
		Pluck("project", &projects).Error
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	if projects == nil {
		projects = []string{}
	}
	return projects, nil
}

func (s *SQLStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Task{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (s *SQLStore) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

var _ Store = (*SQLStore)(nil)
