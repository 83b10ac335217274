// Package cache is the query layer the coordinator reads through: stable
// structural keys, a per-key staleness window, and de-duplication of
// concurrent fetches for the same key.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key builds a stable structural key from its parts, e.g.
// Key("festivalDetail", festivalID).
func Key(parts ...string) string {
	return strings.Join(parts, "/")
}

type entry struct {
	value     any
	expiresAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group

	now func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: map[string]entry{},
		now:     time.Now,
	}
}

// GetOrFetch returns the cached value for key while it is fresh. On a miss
// it runs fetch and stores the result for ttl; concurrent misses for the
// same key share a single fetch. Fetch errors are not cached.
func (c *Cache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) (any, error)) (any, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Before(e.expiresAt) {
		return e.value, nil
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		// another flight may have filled the entry while we queued
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && c.now().Before(e.expiresAt) {
			return e.value, nil
		}

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
		c.mu.Unlock()

		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Invalidate drops the exactly-matching keys. Mutations call it with the
// read keys they affect.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}
