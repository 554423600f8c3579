package wire

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	pgdb "github.com/alanyang/taskboard/internal/adapter/postgres"
	pgidempotency "github.com/alanyang/taskboard/internal/adapter/postgres/idempotency"
	pglocker "github.com/alanyang/taskboard/internal/adapter/postgres/locker"
	pgproject "github.com/alanyang/taskboard/internal/adapter/postgres/project"
	pgtask "github.com/alanyang/taskboard/internal/adapter/postgres/task"

	"github.com/alanyang/taskboard/internal/adapter/memory"
	"github.com/alanyang/taskboard/internal/adapter/sqlite"
	sqliteproject "github.com/alanyang/taskboard/internal/adapter/sqlite/project"
	sqlitetask "github.com/alanyang/taskboard/internal/adapter/sqlite/task"

	"github.com/alanyang/taskboard/internal/config"
	portidempotency "github.com/alanyang/taskboard/internal/port/idempotency"
	portlocker "github.com/alanyang/taskboard/internal/port/locker"
	portproject "github.com/alanyang/taskboard/internal/port/project"
	porttask "github.com/alanyang/taskboard/internal/port/task"
)

// Store bundles the repositories and locker of one storage driver.
type Store struct {
	Projects portproject.Repository
	Tasks    porttask.Repository
	Locker   portlocker.AdvisoryLocker
	Replies  portidempotency.Store
	Ping     func(ctx context.Context) error
	close    func()
}

func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore connects to the configured driver and brings its schema up to date.
func OpenStore(ctx context.Context, env *config.Env) (*Store, error) {
	switch env.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, env.DatabaseURL)
	case config.DriverSQLite:
		return openSQLite(env.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", env.Driver)
	}
}

func openPostgres(ctx context.Context, url string) (*Store, error) {
	pool, err := pgdb.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pgdb.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	replies := pgidempotency.New(pool)
	if n, err := replies.DeleteExpired(ctx); err != nil {
		slog.Warn("failed to purge expired idempotency keys", "error", err)
	} else if n > 0 {
		slog.Info("purged expired idempotency keys", "count", n)
	}

	return &Store{
		Projects: pgproject.New(pool),
		Tasks:    pgtask.New(pool),
		Locker:   pglocker.New(pool),
		Replies:  replies,
		Ping:     pool.Ping,
		close:    pool.Close,
	}, nil
}

func openSQLite(path string) (*Store, error) {
	if path != sqlite.MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	return &Store{
		Projects: sqliteproject.New(db),
		Tasks:    sqlitetask.New(db),
		Locker:   memory.NewLocker(),
		Replies:  memory.NewResponseCache(),
		Ping:     db.PingContext,
		close:    func() { db.Close() },
	}, nil
}
