package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alanyang/taskboard/internal/cerr"
	domainproject "github.com/alanyang/taskboard/internal/domain/project"
	portlocker "github.com/alanyang/taskboard/internal/port/locker"
	portproject "github.com/alanyang/taskboard/internal/port/project"
)

// Service creates and lists projects.
// [DIP] Depends on ports, never on adapters or transport.
type Service struct {
	repo   portproject.Repository
	locker portlocker.AdvisoryLocker
}

func NewService(repo portproject.Repository, locker portlocker.AdvisoryLocker) *Service {
	return &Service{repo: repo, locker: locker}
}

type CreateInput struct {
	Name        string
	Description string
	StartDate   domainproject.Date
	EndDate     domainproject.Date
}

// Create inserts a project whose name is not yet taken. The lookup and insert run under
// a per-name lock; the store's unique constraint still decides if another process wins.
func (s *Service) Create(ctx context.Context, in CreateInput) (domainproject.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domainproject.Project{}, cerr.NewError(cerr.InvalidArgument, "project name must not be blank", nil)
	}

	var created domainproject.Project
	err := s.locker.WithLock(ctx, portlocker.Key("project", in.Name), func(ctx context.Context) error {
		_, err := s.repo.FindByName(ctx, in.Name)
		switch {
		case err == nil:
			return nameTaken(in.Name)
		case !errors.Is(err, domainproject.ErrNotFound):
			return cerr.Internalf("find project by name: %w", err)
		}

		p := domainproject.New(in.Name, in.Description, in.StartDate, in.EndDate)
		created, err = s.repo.Create(ctx, p)
		if err != nil {
			if errors.Is(err, domainproject.ErrNameTaken) {
				return nameTaken(in.Name)
			}
			return cerr.Internalf("create project: %w", err)
		}
		return nil
	})
	if err != nil {
		return domainproject.Project{}, err
	}

	slog.InfoContext(ctx, "project created", "project_id", created.ID, "name", created.Name)
	return created, nil
}

// List returns every project. An empty store is reported as NotFound, not as an empty list.
func (s *Service) List(ctx context.Context) ([]domainproject.Project, error) {
	projects, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, cerr.Internalf("list projects: %w", err)
	}
	if len(projects) == 0 {
		return nil, cerr.NewError(cerr.NotFound, "no projects found", nil)
	}
	return projects, nil
}

func nameTaken(name string) error {
	return cerr.NewError(cerr.AlreadyExists, fmt.Sprintf("project with name %q already exists", name), nil)
}
