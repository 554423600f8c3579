package memory

import (
	"context"
	"sync"
	"time"

	portidempotency "github.com/alanyang/taskboard/internal/port/idempotency"
)

var _ portidempotency.Store = (*ResponseCache)(nil)

type cacheEntry struct {
	resp      portidempotency.Response
	expiresAt time.Time
}

// ResponseCache is the in-process idempotency store. Expired entries are dropped
// lazily on lookup.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *ResponseCache) Get(_ context.Context, key string) (portidempotency.Response, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return portidempotency.Response{}, portidempotency.ErrNotFound
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return portidempotency.Response{}, portidempotency.ErrNotFound
	}
	return entry.resp, nil
}

func (c *ResponseCache) Set(_ context.Context, key string, resp portidempotency.Response, ttl time.Duration) error {
	body := make([]byte, len(resp.Body))
	copy(body, resp.Body)
	resp.Body = body

	c.mu.Lock()
	c.entries[key] = cacheEntry{
		resp:      resp,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

// size reports the number of stored entries, expired ones included until they are looked up.
func (c *ResponseCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
