// Path: internal/search/cache.go
package search

import (
	"sync"

	"arena-scout/internal/domain"
)

// defaultCacheCapacity bounds the result cache to a handful of recent
// filter combinations; users mostly toggle between a few views.
const defaultCacheCapacity = 20

// resultCache maps serialized filter specs to ordered result lists.
// Eviction is strict insertion order: the oldest inserted key goes first,
// regardless of how recently it was read. The cache is cleared wholesale
// whenever the index is rebuilt, so entries never outlive their dataset.
// It guards its own state: the engine is read concurrently by API
// handlers, and every cache miss is a write.
type resultCache struct {
	mu       sync.Mutex
	capacity int
	order    []string
	entries  map[string][]domain.Project
}

func newResultCache(capacity int) *resultCache {
	return &resultCache{
		capacity: capacity,
		entries:  make(map[string][]domain.Project, capacity),
	}
}

func (c *resultCache) get(key string) ([]domain.Project, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	results, ok := c.entries[key]
	return results, ok
}

func (c *resultCache) put(key string, results []domain.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		c.entries[key] = results
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.order = append(c.order, key)
	c.entries[key] = results
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
