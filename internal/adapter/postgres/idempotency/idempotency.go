package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgdb "github.com/alanyang/taskboard/internal/adapter/postgres"
	portidempotency "github.com/alanyang/taskboard/internal/port/idempotency"
)

var _ portidempotency.Store = (*Repository)(nil)

// Repository shares recorded replies between every instance using the same database.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) db(ctx context.Context) pgdb.Querier {
	return pgdb.DB(ctx, r.pool)
}

// Get looks up an unexpired reply for key.
func (r *Repository) Get(ctx context.Context, key string) (portidempotency.Response, error) {
	query := `
		SELECT status, content_type, body, request_hash
		FROM processed_requests
		WHERE idempotency_key = $1 AND expires_at > NOW()`

	var resp portidempotency.Response
	err := r.db(ctx).QueryRow(ctx, query, key).Scan(&resp.Status, &resp.ContentType, &resp.Body, &resp.RequestHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return portidempotency.Response{}, portidempotency.ErrNotFound
		}
		return portidempotency.Response{}, fmt.Errorf("checking idempotency key: %w", err)
	}
	return resp, nil
}

// Set records the reply for key. An expired row under the same key is replaced; a live
// one is kept so the first reply stays authoritative.
func (r *Repository) Set(ctx context.Context, key string, resp portidempotency.Response, ttl time.Duration) error {
	query := `
		INSERT INTO processed_requests (idempotency_key, status, content_type, body, request_hash, expires_at)
		VALUES ($1, $2, $3, $4, $5, NOW() + $6::interval)
		ON CONFLICT (idempotency_key) DO UPDATE
		SET status = EXCLUDED.status,
		    content_type = EXCLUDED.content_type,
		    body = EXCLUDED.body,
		    request_hash = EXCLUDED.request_hash,
		    expires_at = EXCLUDED.expires_at
		WHERE processed_requests.expires_at <= NOW()`

	body := resp.Body
	if body == nil {
		body = []byte{}
	}
	_, err := r.db(ctx).Exec(ctx, query, key, resp.Status, resp.ContentType, body, resp.RequestHash, ttl)
	if err != nil {
		return fmt.Errorf("storing idempotency key: %w", err)
	}
	return nil
}

// DeleteExpired removes replies whose TTL has elapsed and reports how many were dropped.
func (r *Repository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM processed_requests WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("deleting expired idempotency keys: %w", err)
	}
	return tag.RowsAffected(), nil
}
