//go:build integration

package project_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgproject "github.com/alanyang/taskboard/internal/adapter/postgres/project"
	domainproject "github.com/alanyang/taskboard/internal/domain/project"
	"github.com/alanyang/taskboard/internal/testutil"
)

func newProject(name string) domainproject.Project {
	return domainproject.New(name, "d",
		domainproject.NewDate(2024, time.January, 1),
		domainproject.NewDate(2024, time.June, 1),
	)
}

func TestProjectRepo_Create(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgproject.New(pool)

	created, err := repo.Create(ctx, newProject("Alpha"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Alpha", created.Name)
	assert.Equal(t, "2024-01-01", created.StartDate.String())
	assert.Equal(t, "2024-06-01", created.EndDate.String())

	_, err = repo.Create(ctx, newProject("Alpha"))
	require.ErrorIs(t, err, domainproject.ErrNameTaken)
}

func TestProjectRepo_Find(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgproject.New(pool)

	created, err := repo.Create(ctx, newProject("Alpha"))
	require.NoError(t, err)

	t.Run("by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alpha", got.Name)
	})

	t.Run("by name is exact", func(t *testing.T) {
		_, err := repo.FindByName(ctx, "Alpha")
		require.NoError(t, err)

		_, err = repo.FindByName(ctx, "alpha")
		require.ErrorIs(t, err, domainproject.ErrNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 404)
		require.ErrorIs(t, err, domainproject.ErrNotFound)
	})
}

func TestProjectRepo_FindAll(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgproject.New(pool)

	got, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, name := range []string{"Alpha", "Beta"} {
		_, err := repo.Create(ctx, newProject(name))
		require.NoError(t, err)
	}

	got, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, "Beta", got[1].Name)
}
