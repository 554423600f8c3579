package task

import (
	"context"

	domaintask "github.com/alanyang/taskboard/internal/domain/task"
)

//go:generate mockgen -destination=../../mocks/mock_task_repository.go -package=mocks -mock_names=Repository=MockTaskRepository . Repository

type Repository interface {
	// Create returns domaintask.ErrTitleTaken on a duplicate title and
	// domaintask.ErrProjectNotFound when the referenced project is gone.
	Create(ctx context.Context, t domaintask.Task) (domaintask.Task, error)
	FindByID(ctx context.Context, id int64) (domaintask.Task, error)
	FindByTitle(ctx context.Context, title string) (domaintask.Task, error)
	FindAll(ctx context.Context) ([]domaintask.Task, error)

	// FindByStatusOrPriorityOrProject matches tasks satisfying ANY non-nil filter field.
	// Empty filters yield an empty result without touching the store.
	FindByStatusOrPriorityOrProject(ctx context.Context, filters domaintask.ListFilters) ([]domaintask.Task, error)

	// Update persists every mutable column of t. Returns domaintask.ErrNotFound when the row is gone.
	Update(ctx context.Context, t domaintask.Task) error
	Delete(ctx context.Context, id int64) error
}
