// Package cache provides a small thread-safe in-memory cache with per-entry
// TTL. It is used to memoize responses from the external dog-breed API.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// TTLCache is a mutex-guarded map of values with expiration times.
// Expired entries are treated as absent and overwritten on the next Set.
type TTLCache struct {
	mu    sync.RWMutex
	items map[string]entry
}

func NewTTLCache() *TTLCache {
	return &TTLCache{items: make(map[string]entry)}
}

// Get returns the cached value for key if present and not expired.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the given TTL.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

// Delete removes key from the cache.
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Clear drops every entry.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]entry)
}
