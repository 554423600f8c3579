package project

import (
	"context"

	domainproject "github.com/alanyang/taskboard/internal/domain/project"
)

//go:generate mockgen -destination=../../mocks/mock_project_repository.go -package=mocks -mock_names=Repository=MockProjectRepository . Repository

// Repository manages project persistence.
// [DIP] service/project and service/task depend on this interface, not on a concrete storage.
type Repository interface {
	// Create inserts p and returns it with the store-assigned ID.
	// Returns domainproject.ErrNameTaken when the name violates the unique constraint.
	Create(ctx context.Context, p domainproject.Project) (domainproject.Project, error)
	// FindByID and FindByName return domainproject.ErrNotFound when nothing matches.
	FindByID(ctx context.Context, id int64) (domainproject.Project, error)
	FindByName(ctx context.Context, name string) (domainproject.Project, error)
	// FindAll returns every project ordered by id.
	FindAll(ctx context.Context) ([]domainproject.Project, error)
}
