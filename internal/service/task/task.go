package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alanyang/taskboard/internal/cerr"
	domainproject "github.com/alanyang/taskboard/internal/domain/project"
	domaintask "github.com/alanyang/taskboard/internal/domain/task"
	portlocker "github.com/alanyang/taskboard/internal/port/locker"
	portproject "github.com/alanyang/taskboard/internal/port/project"
	porttask "github.com/alanyang/taskboard/internal/port/task"
)

// Service manages the task lifecycle.
// [DIP] Depends on ports, never on adapters or transport. The project repository is
// only used to resolve the task's project reference.
type Service struct {
	repo     porttask.Repository
	projects portproject.Repository
	locker   portlocker.AdvisoryLocker
}

func NewService(repo porttask.Repository, projects portproject.Repository, locker portlocker.AdvisoryLocker) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		locker:   locker,
	}
}

type CreateInput struct {
	Title     string
	Status    *domaintask.Status
	Priority  *domaintask.Priority
	ProjectID int64
}

// Create checks title uniqueness first and project existence second; nothing is
// constructed or written unless both pass.
func (s *Service) Create(ctx context.Context, in CreateInput) (domaintask.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domaintask.Task{}, cerr.NewError(cerr.InvalidArgument, "task title must not be blank", nil)
	}
	var status domaintask.Status
	if in.Status != nil {
		if !in.Status.Valid() {
			return domaintask.Task{}, invalidStatus(*in.Status)
		}
		status = *in.Status
	}
	var priority domaintask.Priority
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return domaintask.Task{}, cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid priority %q", *in.Priority), nil)
		}
		priority = *in.Priority
	}

	var created domaintask.Task
	err := s.locker.WithLock(ctx, portlocker.Key("task", in.Title), func(ctx context.Context) error {
		_, err := s.repo.FindByTitle(ctx, in.Title)
		switch {
		case err == nil:
			return titleTaken(in.Title)
		case !errors.Is(err, domaintask.ErrNotFound):
			return cerr.Internalf("find task by title: %w", err)
		}

		project, err := s.projects.FindByID(ctx, in.ProjectID)
		if err != nil {
			if errors.Is(err, domainproject.ErrNotFound) {
				return projectNotFound(in.ProjectID)
			}
			return cerr.Internalf("find project %d: %w", in.ProjectID, err)
		}

		t := domaintask.New(in.Title, status, priority, project.ID)
		created, err = s.repo.Create(ctx, t)
		switch {
		case errors.Is(err, domaintask.ErrTitleTaken):
			return titleTaken(in.Title)
		case errors.Is(err, domaintask.ErrProjectNotFound):
			return projectNotFound(in.ProjectID)
		case err != nil:
			return cerr.Internalf("create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return domaintask.Task{}, err
	}

	slog.InfoContext(ctx, "task created", "task_id", created.ID, "project_id", created.ProjectID)
	return created, nil
}

// ListFiltered returns the tasks matching ANY of the given criteria.
func (s *Service) ListFiltered(ctx context.Context, filters domaintask.ListFilters) ([]domaintask.Task, error) {
	tasks, err := s.repo.FindByStatusOrPriorityOrProject(ctx, filters)
	if err != nil {
		return nil, cerr.Internalf("list filtered tasks: %w", err)
	}
	return tasks, nil
}

func (s *Service) ListAll(ctx context.Context) ([]domaintask.Task, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, cerr.Internalf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateStatus sets the task's status. Every transition is legal, including a
// transition to the current status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domaintask.Status) (domaintask.Task, error) {
	if !status.Valid() {
		return domaintask.Task{}, invalidStatus(status)
	}

	t, err := s.find(ctx, id)
	if err != nil {
		return domaintask.Task{}, err
	}

	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, domaintask.ErrNotFound) {
			return domaintask.Task{}, taskNotFound(id)
		}
		return domaintask.Task{}, cerr.Internalf("update task status: %w", err)
	}
	return t, nil
}

// Delete removes the task permanently. The owning project is left untouched.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domaintask.ErrNotFound) {
			return taskNotFound(id)
		}
		return cerr.Internalf("delete task: %w", err)
	}

	slog.InfoContext(ctx, "task deleted", "task_id", id)
	return nil
}

func (s *Service) find(ctx context.Context, id int64) (domaintask.Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domaintask.ErrNotFound) {
			return domaintask.Task{}, taskNotFound(id)
		}
		return domaintask.Task{}, cerr.Internalf("get task %d: %w", id, err)
	}
	return t, nil
}

func titleTaken(title string) error {
	return cerr.NewError(cerr.AlreadyExists, fmt.Sprintf("task with title %q already exists", title), nil)
}

func projectNotFound(id int64) error {
	return cerr.NewError(cerr.NotFound, fmt.Sprintf("project with id %d not found", id), nil)
}

func taskNotFound(id int64) error {
	return cerr.NewError(cerr.NotFound, fmt.Sprintf("task with id %d not found", id), nil)
}

func invalidStatus(s domaintask.Status) error {
	return cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid status %q", s), nil)
}
