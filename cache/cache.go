// Package cache provides explicit, clock-driven TTL caches. Staleness is
// observable through FetchedAt and Expired so it can be asserted in tests.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/juju/clock"
)

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("cache: entry not found")

// Cache is a keyed in-memory cache with a fixed time-to-live.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]*cacheItem[V]
	ttl   time.Duration
	clock clock.Clock
}

type cacheItem[V any] struct {
	value      V
	expiration time.Time
}

// New creates a keyed cache. A nil clock means the wall clock.
func New[K comparable, V any](ttl time.Duration, clk clock.Clock) *Cache[K, V] {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Cache[K, V]{
		items: make(map[K]*cacheItem[V]),
		ttl:   ttl,
		clock: clk,
	}
}

// Get returns the value for key if present and not expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || !c.clock.Now().Before(item.expiration) {
		var zero V
		return zero, false
	}

	return item.value, true
}

// Set stores value under key for one TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem[V]{
		value:      value,
		expiration: c.clock.Now().Add(c.ttl),
	}
}

// Take returns the value for key and removes it.
func (c *Cache[K, V]) Take(key K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	item, exists := c.items[key]
	if !exists {
		return zero, ErrNotFound
	}
	delete(c.items, key)
	if !c.clock.Now().Before(item.expiration) {
		return zero, ErrNotFound
	}
	return item.value, nil
}

// Delete removes key.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Sweep drops expired entries and returns how many were removed.
func (c *Cache[K, V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for key, item := range c.items {
		if !now.Before(item.expiration) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Janitor sweeps the cache every interval until ctx is done.
func (c *Cache[K, V]) Janitor(ctx context.Context, interval time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.clock.After(interval):
			c.Sweep()
		}
	}
}
