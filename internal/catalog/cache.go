package catalog

import (
	"sync"
	"time"

	"github.com/five82/atelier/internal/masterpieces"
)

// DefaultCacheTTL is how long a fetched collection list stays fresh.
const DefaultCacheTTL = 180 * time.Second

// Cache is a single-slot, time-expiring cache of the full collection list.
// The whole list is one entry; there is no per-key invalidation. Concurrent
// misses are not deduplicated and the last Put wins.
type Cache struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	snapshot  []masterpieces.ArtCollection
	fetchedAt time.Time
	filled    bool
}

// NewCache returns an empty cache. A non-positive ttl uses DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{ttl: ttl, now: time.Now}
}

// Get returns the cached list when forceRefresh is false, the slot is filled
// and the entry is younger than the TTL. It has no side effects.
func (c *Cache) Get(forceRefresh bool) ([]masterpieces.ArtCollection, bool) {
	if forceRefresh {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.filled || c.clock().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return cloneCollections(c.snapshot), true
}

// Put overwrites the slot and stamps it with the current time.
func (c *Cache) Put(snapshot []masterpieces.ArtCollection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = cloneCollections(snapshot)
	c.fetchedAt = c.clock()
	c.filled = true
}

// FetchedAt reports when the slot was last filled.
func (c *Cache) FetchedAt() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchedAt, c.filled
}

func (c *Cache) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

func cloneCollections(items []masterpieces.ArtCollection) []masterpieces.ArtCollection {
	if items == nil {
		return nil
	}
	dup := make([]masterpieces.ArtCollection, len(items))
	copy(dup, items)
	return dup
}
