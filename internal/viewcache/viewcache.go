// Package viewcache tracks staleness of rendered listing views. Each
// successful mutation bumps the generation counter for the admin path it
// affects; clients compare generations to know when a cached table must be
// refetched. It deliberately stores no rendered content, only counters.
package viewcache

import "sync"

// Cache is a per-path generation counter. The zero value is not usable;
// call New.
type Cache struct {
	mu  sync.Mutex
	gen map[string]uint64
}

func New() *Cache {
	return &Cache{gen: make(map[string]uint64)}
}

// Invalidate marks the view at path stale by bumping its generation.
// Called by the service layer after every committed mutation.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen[path]++
}

// Generation returns the current generation for path. A path that was never
// invalidated reports 0, so freshly started servers and fresh clients agree.
func (c *Cache) Generation(path string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[path]
}
