package project_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/taskboard/internal/adapter/sqlite"
	sqliteproject "github.com/alanyang/taskboard/internal/adapter/sqlite/project"
	domainproject "github.com/alanyang/taskboard/internal/domain/project"
)

func setupRepo(t *testing.T) *sqliteproject.Repository {
	t.Helper()
	db, err := sqlite.Open(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqliteproject.New(db)
}

func TestCreate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	p := domainproject.New("Alpha", "first",
		domainproject.NewDate(2024, time.January, 1),
		domainproject.NewDate(2024, time.June, 1),
	)
	created, err := repo.Create(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Name)
	assert.Equal(t, "first", got.Description)
	assert.Equal(t, "2024-01-01", got.StartDate.String())
	assert.Equal(t, "2024-06-01", got.EndDate.String())
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
}

func TestCreate_WithoutDates(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, domainproject.New("Undated", "", domainproject.Date{}, domainproject.Date{}))
	require.NoError(t, err)

	got, err := repo.FindByName(ctx, "Undated")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.StartDate.IsZero())
	assert.True(t, got.EndDate.IsZero())
}

func TestCreate_DuplicateName(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, domainproject.New("Alpha", "", domainproject.Date{}, domainproject.Date{}))
	require.NoError(t, err)

	_, err = repo.Create(ctx, domainproject.New("Alpha", "again", domainproject.Date{}, domainproject.Date{}))
	require.ErrorIs(t, err, domainproject.ErrNameTaken)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFind_NotFound(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 7)
	require.ErrorIs(t, err, domainproject.ErrNotFound)
	assert.Contains(t, err.Error(), "id 7")

	_, err = repo.FindByName(ctx, "Ghost")
	require.ErrorIs(t, err, domainproject.ErrNotFound)
}

func TestFindByName_IsCaseSensitive(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, domainproject.New("Alpha", "", domainproject.Date{}, domainproject.Date{}))
	require.NoError(t, err)

	_, err = repo.FindByName(ctx, "alpha")
	require.ErrorIs(t, err, domainproject.ErrNotFound)
}

func TestFindAll_OrderedByID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, name := range []string{"Gamma", "Alpha", "Beta"} {
		_, err := repo.Create(ctx, domainproject.New(name, "", domainproject.Date{}, domainproject.Date{}))
		require.NoError(t, err)
	}

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Gamma", "Alpha", "Beta"}, []string{all[0].Name, all[1].Name, all[2].Name})
}

func TestRepository_ClosedDB(t *testing.T) {
	db, err := sql.Open("sqlite3", sqlite.MemoryPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	repo := sqliteproject.New(db)

	_, err = repo.FindAll(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainproject.ErrNotFound)
}
