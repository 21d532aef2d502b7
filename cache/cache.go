// Package cache provides a small in-memory store with time-based expiry.
//
// Entries expire lazily: an expired entry is evicted the moment a read
// finds it. Sweep exists for hosts that want to reclaim memory on their
// own cadence; the package never starts timers or goroutines of its own.
package cache

import (
	"sync"
	"time"
)

// entry pairs a payload with the time it was stored.
type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a keyed store whose entries live for a fixed TTL.
// Safe for concurrent use.
type Cache[V any] struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]entry[V]
}

// Stats is a point-in-time view of cache contents. Valid and Expired are
// recomputed from the clock on every call, so an entry can move from one
// bucket to the other between two calls without any write happening.
type Stats struct {
	Entries int
	Valid   int
	Expired int
	TTL     time.Duration
}

// New creates a cache whose entries expire ttl after they are stored.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the payload stored under key, or the zero value and false
// if the key is absent or its entry has outlived the TTL. An expired
// entry is evicted on the spot.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}

	if time.Since(e.storedAt) > c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}

	return e.value, true
}

// Set stores value under key, unconditionally replacing any existing
// entry and restarting its TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, storedAt: time.Now()}
}

// Sweep removes every expired entry and returns how many were removed.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if time.Since(e.storedAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Clear removes all entries unconditionally.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// TTL returns the configured time-to-live.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// Stats reports current cache contents.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Entries: len(c.entries),
		TTL:     c.ttl,
	}
	for _, e := range c.entries {
		if time.Since(e.storedAt) > c.ttl {
			stats.Expired++
		} else {
			stats.Valid++
		}
	}
	return stats
}
