//go:build integration

package task_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgproject "github.com/alanyang/taskboard/internal/adapter/postgres/project"
	pgtask "github.com/alanyang/taskboard/internal/adapter/postgres/task"
	domainproject "github.com/alanyang/taskboard/internal/domain/project"
	domaintask "github.com/alanyang/taskboard/internal/domain/task"
	"github.com/alanyang/taskboard/internal/testutil"
)

func seedProject(t *testing.T, pool *pgxpool.Pool, name string) domainproject.Project {
	t.Helper()
	p, err := pgproject.New(pool).Create(context.Background(), domainproject.New(name, "", domainproject.Date{}, domainproject.Date{}))
	require.NoError(t, err)
	return p
}

func TestTaskRepo_Create(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgtask.New(pool)
	p := seedProject(t, pool, "Alpha")

	created, err := repo.Create(ctx, domaintask.New("T1", "", "", p.ID))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, p.ID, created.ProjectID)
	assert.Equal(t, domaintask.StatusTodo, created.Status)

	t.Run("duplicate title", func(t *testing.T) {
		_, err := repo.Create(ctx, domaintask.New("T1", "", "", p.ID))
		require.ErrorIs(t, err, domaintask.ErrTitleTaken)
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := repo.Create(ctx, domaintask.New("T2", "", "", p.ID+100))
		require.ErrorIs(t, err, domaintask.ErrProjectNotFound)
	})
}

func TestTaskRepo_FindByStatusOrPriorityOrProject(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgtask.New(pool)
	alpha := seedProject(t, pool, "Alpha")
	beta := seedProject(t, pool, "Beta")

	_, err := repo.Create(ctx, domaintask.New("a-todo-low", domaintask.StatusTodo, domaintask.PriorityLow, alpha.ID))
	require.NoError(t, err)
	_, err = repo.Create(ctx, domaintask.New("b-done-high", domaintask.StatusDone, domaintask.PriorityHigh, beta.ID))
	require.NoError(t, err)
	_, err = repo.Create(ctx, domaintask.New("b-doing-medium", domaintask.StatusDoing, domaintask.PriorityMedium, beta.ID))
	require.NoError(t, err)

	done, low, alphaID := domaintask.StatusDone, domaintask.PriorityLow, alpha.ID

	filters := domaintask.ListFilters{Status: &done, ProjectID: &alphaID}
	got, err := repo.FindByStatusOrPriorityOrProject(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-todo-low", "b-done-high"}, titles(got))
	for _, tk := range got {
		assert.True(t, filters.Matches(tk), tk.Title)
	}

	got, err = repo.FindByStatusOrPriorityOrProject(ctx, domaintask.ListFilters{Priority: &low})
	require.NoError(t, err)
	assert.Equal(t, []string{"a-todo-low"}, titles(got))

	got, err = repo.FindByStatusOrPriorityOrProject(ctx, domaintask.ListFilters{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTaskRepo_UpdateAndDelete(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgtask.New(pool)
	p := seedProject(t, pool, "Alpha")

	created, err := repo.Create(ctx, domaintask.New("T1", "", "", p.ID))
	require.NoError(t, err)

	created.Status = domaintask.StatusDone
	require.NoError(t, repo.Update(ctx, created))

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domaintask.StatusDone, got.Status)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.ErrorIs(t, repo.Delete(ctx, created.ID), domaintask.ErrNotFound)

	_, err = repo.FindByTitle(ctx, "T1")
	require.ErrorIs(t, err, domaintask.ErrNotFound)

	// Project survives.
	_, err = pgproject.New(pool).FindByID(ctx, p.ID)
	require.NoError(t, err)
}

func titles(tasks []domaintask.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}
