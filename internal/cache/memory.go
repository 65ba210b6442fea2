package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache holds decoded simulation runs for the life of the process,
// so a repeated lookup skips reading and decoding the disk entry.
type MemoryCache struct {
	runs *gocache.Cache
}

// NewMemoryCache creates a memory layer. Expired runs are purged every
// cleanupInterval.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		runs: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns a run stored under key.
func (c *MemoryCache) Get(key string) (*SimulationEntry, bool) {
	val, found := c.runs.Get(key)
	if !found {
		return nil, false
	}
	entry, ok := val.(*SimulationEntry)
	return entry, ok
}

// Set stores entry. ttl 0 is gocache.DefaultExpiration.
func (c *MemoryCache) Set(key string, entry *SimulationEntry, ttl time.Duration) {
	c.runs.Set(key, entry, ttl)
}

// Delete drops key.
func (c *MemoryCache) Delete(key string) {
	c.runs.Delete(key)
}
