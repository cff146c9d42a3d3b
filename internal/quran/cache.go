package quran

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// responseCache keeps raw upstream bodies keyed by request URL.
// Upstream content never changes, so entries only expire to bound memory.
type responseCache struct {
	cache *gocache.Cache
}

func newResponseCache(ttl time.Duration) *responseCache {
	if ttl <= 0 {
		return nil
	}
	return &responseCache{cache: gocache.New(ttl, 2*ttl)}
}

func (c *responseCache) get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

func (c *responseCache) set(key string, body []byte) {
	if c == nil {
		return
	}
	c.cache.SetDefault(key, body)
}

func (c *responseCache) count() int {
	if c == nil {
		return 0
	}
	return c.cache.ItemCount()
}

func (c *responseCache) flush() {
	if c == nil {
		return
	}
	c.cache.Flush()
}
