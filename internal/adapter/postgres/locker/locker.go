package locker

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgdb "github.com/alanyang/taskboard/internal/adapter/postgres"
	portlocker "github.com/alanyang/taskboard/internal/port/locker"
)

var _ portlocker.AdvisoryLocker = (*Locker)(nil)

// Locker implements port/locker.AdvisoryLocker with transaction-scoped advisory locks.
// fn runs inside the locking transaction: repositories pick it up through the context,
// so a critical section holds exactly one pool connection. The lock is released on
// commit or rollback. An error from fn rolls back whatever it wrote.
type Locker struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Locker {
	return &Locker{pool: pool}
}

func (l *Locker) WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) error {
	return pgx.BeginFunc(ctx, l.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", key); err != nil {
			return fmt.Errorf("acquire advisory lock: %w", err)
		}
		return fn(pgdb.WithTx(ctx, tx))
	})
}
