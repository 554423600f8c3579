package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alanyang/taskboard/internal/adapter/sqlite"
	domainproject "github.com/alanyang/taskboard/internal/domain/project"
	portproject "github.com/alanyang/taskboard/internal/port/project"
)

var _ portproject.Repository = (*Repository)(nil)

const projectColumns = `id, name, description, start_date, end_date, created_at`

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, p domainproject.Project) (domainproject.Project, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (name, description, start_date, end_date, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.StartDate, p.EndDate, p.CreatedAt,
	)
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return domainproject.Project{}, fmt.Errorf("insert project %q: %w", p.Name, domainproject.ErrNameTaken)
		}
		return domainproject.Project{}, fmt.Errorf("insert project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domainproject.Project{}, fmt.Errorf("failed to get project id: %w", err)
	}
	p.ID = id
	return p, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (domainproject.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return one(row, fmt.Sprintf("id %d", id))
}

func (r *Repository) FindByName(ctx context.Context, name string) (domainproject.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE name = ?`, name)
	return one(row, fmt.Sprintf("name %q", name))
}

func (r *Repository) FindAll(ctx context.Context) ([]domainproject.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
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

type scanner interface {
	Scan(dest ...any) error
}

func one(row *sql.Row, what string) (domainproject.Project, error) {
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domainproject.Project{}, fmt.Errorf("project %s: %w", what, domainproject.ErrNotFound)
		}
		return domainproject.Project{}, fmt.Errorf("querying project: %w", err)
	}
	return p, nil
}

func scanProject(s scanner) (domainproject.Project, error) {
	var p domainproject.Project
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.StartDate, &p.EndDate, &p.CreatedAt)
	return p, err
}
