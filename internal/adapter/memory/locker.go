package memory

import (
	"context"
	"sync"

	portlocker "github.com/alanyang/taskboard/internal/port/locker"
)

var _ portlocker.AdvisoryLocker = (*Locker)(nil)

const lockStripes = 64

// Locker is an in-process AdvisoryLocker for single-instance deployments.
// Keys are hashed onto a fixed set of mutexes, so unrelated keys may share a stripe.
type Locker struct {
	stripes [lockStripes]sync.Mutex
}

func NewLocker() *Locker {
	return &Locker{}
}

func (l *Locker) WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mu := &l.stripes[uint64(key)%lockStripes]
	mu.Lock()
	defer mu.Unlock()
	return fn(ctx)
}
