// Package cache memoises natural-key to primary-key lookups during an import
// run so repeated taxonomy values and jurisdictions cost one query each.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache interface {
	Get(key string) (uint, bool)
	Set(key string, id uint)
	Clear()
	Stats() CacheStats
}

type CacheStats struct {
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	Size       int       `json:"size"`
	LastAccess time.Time `json:"last_access"`
}

// LookupCache never expires entries; it lives for one import run and is
// cleared when a stage rolls back.
type LookupCache struct {
	cache *cache.Cache
	mu    sync.Mutex
	stats CacheStats
}

func NewCache() Cache {
	return &LookupCache{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (c *LookupCache) Get(key string) (uint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	if data, found := c.cache.Get(key); found {
		if id, ok := data.(uint); ok {
			c.stats.Hits++
			return id, true
		}
	}

	c.stats.Misses++
	return 0, false
}

func (c *LookupCache) Set(key string, id uint) {
	c.cache.Set(key, id, cache.NoExpiration)
}

func (c *LookupCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
	c.stats = CacheStats{}
}

func (c *LookupCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = c.cache.ItemCount()
	return stats
}

// Key joins a namespace and natural-key parts, e.g. Key("area", "Fraud").
func Key(namespace string, parts ...string) string {
	return namespace + ":" + strings.Join(parts, "\x1f")
}
