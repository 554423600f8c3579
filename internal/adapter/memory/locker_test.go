package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_SerialisesSameKey(t *testing.T) {
	l := NewLocker()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.WithLock(context.Background(), 7, func(context.Context) error {
				v := counter
				counter = v + 1
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestLocker_PropagatesError(t *testing.T) {
	l := NewLocker()
	want := errors.New("boom")

	err := l.WithLock(context.Background(), -3, func(context.Context) error { return want })
	require.ErrorIs(t, err, want)

	// The stripe is released after an error.
	err = l.WithLock(context.Background(), -3, func(context.Context) error { return nil })
	require.NoError(t, err)
}

func TestLocker_CancelledContext(t *testing.T) {
	l := NewLocker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := l.WithLock(ctx, 1, func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
