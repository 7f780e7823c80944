package cache

import (
	"context"
	"sync"
	"time"

	"github.com/juju/clock"
)

// Loader produces a fresh value for a Value cache.
type Loader[V any] func(ctx context.Context) (V, error)

// Value caches a single loaded value together with the time it was fetched.
// The value is replaced wholesale on reload, never mutated in place.
type Value[V any] struct {
	mu        sync.Mutex
	value     V
	fetchedAt time.Time
	loaded    bool
	ttl       time.Duration
	clock     clock.Clock
	load      Loader[V]
}

// NewValue creates a single-value cache around load. A nil clock means the
// wall clock.
func NewValue[V any](ttl time.Duration, clk clock.Clock, load Loader[V]) *Value[V] {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Value[V]{ttl: ttl, clock: clk, load: load}
}

// Get returns the cached value when fresh. hit reports whether the loader was
// skipped.
func (v *Value[V]) Get(ctx context.Context) (val V, hit bool, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.loaded && !v.expiredLocked() {
		return v.value, true, nil
	}
	val, err = v.reloadLocked(ctx)
	return val, false, err
}

// Refresh reloads the value regardless of its age.
func (v *Value[V]) Refresh(ctx context.Context) (V, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reloadLocked(ctx)
}

// Invalidate forgets the cached value so the next Get reloads.
func (v *Value[V]) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()

	var zero V
	v.value = zero
	v.loaded = false
	v.fetchedAt = time.Time{}
}

// FetchedAt returns when the current value was loaded, zero if never.
func (v *Value[V]) FetchedAt() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fetchedAt
}

// Expired reports whether the next Get would call the loader.
func (v *Value[V]) Expired() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.loaded || v.expiredLocked()
}

// Age returns how long ago the value was loaded.
func (v *Value[V]) Age() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.loaded {
		return 0
	}
	return v.clock.Now().Sub(v.fetchedAt)
}

func (v *Value[V]) expiredLocked() bool {
	return v.clock.Now().Sub(v.fetchedAt) >= v.ttl
}

// A failed load keeps the previous value in place.
func (v *Value[V]) reloadLocked(ctx context.Context) (V, error) {
	val, err := v.load(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	v.value = val
	v.fetchedAt = v.clock.Now()
	v.loaded = true
	return val, nil
}
