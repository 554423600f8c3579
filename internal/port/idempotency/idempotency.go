package idempotency

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("idempotency: key not found")

// Response is a recorded HTTP reply that can be replayed for a repeated request.
// RequestHash fingerprints the request body that produced it.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
	RequestHash string
}

// Store keeps replies keyed by idempotency key until their TTL elapses.
// Get returns ErrNotFound for unknown or expired keys.
type Store interface {
	Get(ctx context.Context, key string) (Response, error)
	Set(ctx context.Context, key string, resp Response, ttl time.Duration) error
}
