package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgdb "github.com/alanyang/taskboard/internal/adapter/postgres"
	domaintask "github.com/alanyang/taskboard/internal/domain/task"
	porttask "github.com/alanyang/taskboard/internal/port/task"
)

var _ porttask.Repository = (*Repository)(nil)

const taskColumns = `id, title, status, priority, project_id, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) db(ctx context.Context) pgdb.Querier {
	return pgdb.DB(ctx, r.pool)
}

func (r *Repository) Create(ctx context.Context, t domaintask.Task) (domaintask.Task, error) {
	query := `
		INSERT INTO tasks (title, status, priority, project_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns

	created, err := scanTask(r.db(ctx).QueryRow(ctx, query,
		t.Title, string(t.Status), string(t.Priority), t.ProjectID, t.CreatedAt, t.UpdatedAt,
	))
	switch {
	case pgdb.IsViolation(err, pgdb.CodeUniqueViolation):
		return domaintask.Task{}, fmt.Errorf("inserting task %q: %w", t.Title, domaintask.ErrTitleTaken)
	case pgdb.IsViolation(err, pgdb.CodeForeignKeyViolation):
		return domaintask.Task{}, fmt.Errorf("inserting task for project %d: %w", t.ProjectID, domaintask.ErrProjectNotFound)
	case err != nil:
		return domaintask.Task{}, fmt.Errorf("inserting task: %w", err)
	}
	return created, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (domaintask.Task, error) {
	t, err := scanTask(r.db(ctx).QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domaintask.Task{}, fmt.Errorf("task %d: %w", id, domaintask.ErrNotFound)
		}
		return domaintask.Task{}, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

func (r *Repository) FindByTitle(ctx context.Context, title string) (domaintask.Task, error) {
	t, err := scanTask(r.db(ctx).QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE title = $1`, title))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domaintask.Task{}, fmt.Errorf("task %q: %w", title, domaintask.ErrNotFound)
		}
		return domaintask.Task{}, fmt.Errorf("querying task by title: %w", err)
	}
	return t, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domaintask.Task, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *Repository) FindByStatusOrPriorityOrProject(ctx context.Context, filters domaintask.ListFilters) ([]domaintask.Task, error) {
	if filters.IsEmpty() {
		return nil, nil
	}

	var (
		conds []string
		args  []interface{}
	)
	if filters.Status != nil {
		args = append(args, string(*filters.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.Priority != nil {
		args = append(args, string(*filters.Priority))
		conds = append(conds, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filters.ProjectID != nil {
		args = append(args, *filters.ProjectID)
		conds = append(conds, fmt.Sprintf("project_id = $%d", len(args)))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conds, " OR ") + ` ORDER BY id`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filtering tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *Repository) Update(ctx context.Context, t domaintask.Task) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE tasks SET title = $2, status = $3, priority = $4, updated_at = $5 WHERE id = $1`,
		t.ID, t.Title, string(t.Status), string(t.Priority), t.UpdatedAt,
	)
	if err != nil {
		if pgdb.IsViolation(err, pgdb.CodeUniqueViolation) {
			return fmt.Errorf("updating task %d: %w", t.ID, domaintask.ErrTitleTaken)
		}
		return fmt.Errorf("updating task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %d: %w", t.ID, domaintask.ErrNotFound)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %d: %w", id, domaintask.ErrNotFound)
	}
	return nil
}

func scanTask(row pgx.Row) (domaintask.Task, error) {
	var t domaintask.Task
	err := row.Scan(&t.ID, &t.Title, &t.Status, &t.Priority, &t.ProjectID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func scanTasks(rows pgx.Rows) ([]domaintask.Task, error) {
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
