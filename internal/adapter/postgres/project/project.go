package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgdb "github.com/alanyang/taskboard/internal/adapter/postgres"
	domainproject "github.com/alanyang/taskboard/internal/domain/project"
	portproject "github.com/alanyang/taskboard/internal/port/project"
)

var _ portproject.Repository = (*Repository)(nil)

const projectColumns = `id, name, description, start_date, end_date, created_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) db(ctx context.Context) pgdb.Querier {
	return pgdb.DB(ctx, r.pool)
}

func (r *Repository) Create(ctx context.Context, p domainproject.Project) (domainproject.Project, error) {
	row := r.db(ctx).QueryRow(ctx,
		`INSERT INTO projects (name, description, start_date, end_date, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+projectColumns,
		p.Name, p.Description, p.StartDate, p.EndDate, p.CreatedAt,
	)

	out, err := scanProject(row)
	if err != nil {
		if pgdb.IsViolation(err, pgdb.CodeUniqueViolation) {
			return domainproject.Project{}, fmt.Errorf("insert project %q: %w", p.Name, domainproject.ErrNameTaken)
		}
		return domainproject.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return out, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (domainproject.Project, error) {
	row := r.db(ctx).QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return r.one(row, fmt.Sprintf("id %d", id))
}

func (r *Repository) FindByName(ctx context.Context, name string) (domainproject.Project, error) {
	row := r.db(ctx).QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE name = $1`, name)
	return r.one(row, fmt.Sprintf("name %q", name))
}

func (r *Repository) FindAll(ctx context.Context) ([]domainproject.Project, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []domainproject.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}
	return projects, nil
}

func (r *Repository) one(row pgx.Row, by string) (domainproject.Project, error) {
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainproject.Project{}, fmt.Errorf("project with %s: %w", by, domainproject.ErrNotFound)
		}
		return domainproject.Project{}, fmt.Errorf("querying project: %w", err)
	}
	return p, nil
}

func scanProject(row pgx.Row) (domainproject.Project, error) {
	var p domainproject.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.StartDate, &p.EndDate, &p.CreatedAt)
	return p, err
}
