// Package cache holds rendered API responses between syncs.
// Entries expire after a TTL and are dropped wholesale when the catalog
// changes.
package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache wraps go-cache with hit/miss accounting.
type Cache struct {
	store  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache whose entries live for ttl. Expired entries are
// purged every cleanupInterval.
func New(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(ttl, cleanupInterval),
	}
}

// Get retrieves a value from the cache.
func (c *Cache) Get(key string) (any, bool) {
	v, ok := c.store.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// Invalidate drops every entry. Called after the catalog is saved.
func (c *Cache) Invalidate() {
	c.store.Flush()
}

// Stats is a point-in-time view of cache usage.
type Stats struct {
	Items  int   `json:"items"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Stats returns current cache statistics.
func (c *Cache) Stats() Stats {
	return Stats{
		Items:  c.store.ItemCount(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
