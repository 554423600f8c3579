package locker

import (
	"context"
	"hash/fnv"
)

//go:generate mockgen -destination=../../mocks/mock_locker.go -package=mocks . AdvisoryLocker

// AdvisoryLocker serialises critical sections keyed by an int64.
// The Postgres adapter runs fn inside a transaction holding pg_advisory_xact_lock and
// passes that transaction down through ctx; the in-memory adapter uses striped mutexes.
// fn must use the ctx it is given.
type AdvisoryLocker interface {
	WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) error
}

// Key hashes (kind, value) to a stable int64 suitable for pg_advisory_xact_lock.
func Key(kind, value string) int64 {
	h := fnv.New64a()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(value))
	return int64(h.Sum64())
}
