// Package cache is the in-memory TTL cache for gateway query results.
// Keys are canonical query serializations (news.Query.CacheKey), so two
// requests differing only in casing or whitespace share one entry.
package cache

import (
	"sync"
	"time"

	"github.com/newsly/newsly/internal/news"
)

type entry struct {
	result    *news.Result
	expiresAt time.Time
}

// Stats reports cache size and hit/miss counters.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Cache is a process-wide TTL cache. The keyspace is bounded by category
// and search-text cardinality, so TTL eviction is sufficient and no LRU
// sizing is applied.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	hits    int64
	misses  int64
	now     func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached result for key, or (nil, false) when the key is
// absent or expired. Expired entries are dropped on access.
func (c *Cache) Get(key string) (*news.Result, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.now().Before(e.expiresAt) {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return e.result, true
	}

	c.mu.Lock()
	c.misses++
	if ok {
		// expired, re-check under the write lock before dropping
		if cur, still := c.entries[key]; still && !c.now().Before(cur.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
	return nil, false
}

// Put stores result under key for ttl.
func (c *Cache) Put(key string, result *news.Result, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{result: result, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Clear removes all entries unconditionally.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Sweep removes expired entries and returns how many were dropped.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the current entry count, including not-yet-swept expired
// entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}
