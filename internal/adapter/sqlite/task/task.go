package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alanyang/taskboard/internal/adapter/sqlite"
	domaintask "github.com/alanyang/taskboard/internal/domain/task"
	porttask "github.com/alanyang/taskboard/internal/port/task"
)

var _ porttask.Repository = (*Repository)(nil)

const taskColumns = `id, title, status, priority, project_id, created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, t domaintask.Task) (domaintask.Task, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (title, status, priority, project_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		t.Title, string(t.Status), string(t.Priority), t.ProjectID, t.CreatedAt, t.UpdatedAt,
	)
	switch {
	case sqlite.IsUniqueViolation(err):
		return domaintask.Task{}, fmt.Errorf("inserting task %q: %w", t.Title, domaintask.ErrTitleTaken)
	case sqlite.IsForeignKeyViolation(err):
		return domaintask.Task{}, fmt.Errorf("inserting task for project %d: %w", t.ProjectID, domaintask.ErrProjectNotFound)
	case err != nil:
		return domaintask.Task{}, fmt.Errorf("inserting task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domaintask.Task{}, fmt.Errorf("failed to get task id: %w", err)
	}
	t.ID = id
	return t, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (domaintask.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domaintask.Task{}, fmt.Errorf("task %d: %w", id, domaintask.ErrNotFound)
		}
		return domaintask.Task{}, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

func (r *Repository) FindByTitle(ctx context.Context, title string) (domaintask.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE title = ?`, title))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domaintask.Task{}, fmt.Errorf("task %q: %w", title, domaintask.ErrNotFound)
		}
		return domaintask.Task{}, fmt.Errorf("querying task by title: %w", err)
	}
	return t, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domaintask.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// FindByStatusOrPriorityOrProject returns tasks matching any of the set criteria.
// No criteria matches nothing.
func (r *Repository) FindByStatusOrPriorityOrProject(ctx context.Context, filters domaintask.ListFilters) ([]domaintask.Task, error) {
	if filters.IsEmpty() {
		return nil, nil
	}

	var (
		conds []string
		args  []any
	)
	if filters.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*filters.Status))
	}
	if filters.Priority != nil {
		conds = append(conds, "priority = ?")
		args = append(args, string(*filters.Priority))
	}
	if filters.ProjectID != nil {
		conds = append(conds, "project_id = ?")
		args = append(args, *filters.ProjectID)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conds, " OR ") + ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filtering tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *Repository) Update(ctx context.Context, t domaintask.Task) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, status = ?, priority = ?, updated_at = ? WHERE id = ?`,
		t.Title, string(t.Status), string(t.Priority), t.UpdatedAt, t.ID,
	)
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return fmt.Errorf("updating task %d: %w", t.ID, domaintask.ErrTitleTaken)
		}
		return fmt.Errorf("updating task: %w", err)
	}
	return requireRow(result, t.ID)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %d: %w", id, domaintask.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (domaintask.Task, error) {
	var t domaintask.Task
	err := s.Scan(&t.ID, &t.Title, &t.Status, &t.Priority, &t.ProjectID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func scanTasks(rows *sql.Rows) ([]domaintask.Task, error) {
	var tasks []domaintask.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}
	return tasks, nil
}
