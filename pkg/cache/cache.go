package cache

import (
	"sort"
	"sync"
	"time"
)

const (
	// DefaultMaxEntries caps the cache size before oldest-first eviction.
	DefaultMaxEntries = 1000
	// DefaultCleanupInterval bounds how often expired entries are swept on
	// access.
	DefaultCleanupInterval = 60 * time.Second
)

var timeNow = time.Now

type entry[V any] struct {
	value      V
	insertedAt time.Time
	expiresAt  time.Time // zero means no expiry
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Stats describes the cache contents at a point in time.
type Stats struct {
	TotalEntries   int `json:"totalEntries"`
	ActiveEntries  int `json:"activeEntries"`
	ExpiredEntries int `json:"expiredEntries"`
}

// Cache is an in-memory key/value store with per-entry TTL and oldest-first
// capacity eviction. All operations are safe for concurrent use; a single
// mutex guards the map, contention is expected to be low.
type Cache[V any] struct {
	mu              sync.Mutex
	entries         map[string]entry[V]
	maxEntries      int
	cleanupInterval time.Duration
	lastCleanup     time.Time
}

// New creates a cache with the default capacity and cleanup interval.
func New[V any]() *Cache[V] {
	return NewWithCapacity[V](DefaultMaxEntries)
}

// NewWithCapacity creates a cache holding at most maxEntries values.
func NewWithCapacity[V any](maxEntries int) *Cache[V] {
	if maxEntries < 1 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache[V]{
		entries:         make(map[string]entry[V]),
		maxEntries:      maxEntries,
		cleanupInterval: DefaultCleanupInterval,
		lastCleanup:     timeNow(),
	}
}

// Get returns the value for key if present and not expired. An expired entry
// is removed and reported as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupIfNeeded()

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if e.expired(timeNow()) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set inserts or replaces the value for key. A ttl of zero or less means the
// entry never expires. If the cache exceeds its capacity afterwards, the
// oldest ~10% of entries by insertion time are evicted.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	now := timeNow()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:      value,
		insertedAt: now,
		expiresAt:  expiresAt,
	}

	if len(c.entries) > c.maxEntries {
		c.evictOldest()
	}
}

// Delete removes the entry for key, if any.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep removes all expired entries and returns how many were dropped. The
// background sweep job calls it on a fixed interval.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := c.removeExpired()
	c.lastCleanup = timeNow()
	return removed
}

// GetStats returns counts of total, active and expired entries.
func (c *Cache[V]) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := timeNow()
	active := 0
	for _, e := range c.entries {
		if !e.expired(now) {
			active++
		}
	}
	return Stats{
		TotalEntries:   len(c.entries),
		ActiveEntries:  active,
		ExpiredEntries: len(c.entries) - active,
	}
}

// cleanupIfNeeded sweeps expired entries at most once per cleanup interval.
// Caller must hold the lock.
func (c *Cache[V]) cleanupIfNeeded() {
	now := timeNow()
	if now.Sub(c.lastCleanup) < c.cleanupInterval {
		return
	}
	c.removeExpired()
	c.lastCleanup = now
}

// removeExpired drops expired entries. Caller must hold the lock.
func (c *Cache[V]) removeExpired() int {
	now := timeNow()
	removed := 0
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// evictOldest drops at least 10% of the entries, oldest insertion first.
// Caller must hold the lock.
func (c *Cache[V]) evictOldest() {
	type keyed struct {
		key        string
		insertedAt time.Time
	}
	all := make([]keyed, 0, len(c.entries))
	for key, e := range c.entries {
		all = append(all, keyed{key: key, insertedAt: e.insertedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].insertedAt.Before(all[j].insertedAt)
	})

	toRemove := len(c.entries) / 10
	if toRemove < 1 {
		toRemove = 1
	}
	for i := 0; i < toRemove && i < len(all); i++ {
		delete(c.entries, all[i].key)
	}
}
