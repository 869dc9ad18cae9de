package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements URLCache on top of go-cache.
type MemoryCache struct {
	entries *gocache.Cache
	ttl     time.Duration
}

var _ URLCache = (*MemoryCache)(nil)

// NewMemoryCache creates a cache whose entries expire after ttl.
// A non-positive ttl falls back to DefaultTTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries: gocache.New(ttl, 2*ttl),
		ttl:     ttl,
	}
}

// Get implements URLCache.Get
func (c *MemoryCache) Get(_ context.Context, code string) (string, bool, error) {
	v, found := c.entries.Get(Key(code))
	if !found {
		return "", false, nil
	}
	url, ok := v.(string)
	return url, ok, nil
}

// Set implements URLCache.Set
func (c *MemoryCache) Set(_ context.Context, code, url string) error {
	c.entries.Set(Key(code), url, c.ttl)
	return nil
}

// Ping implements URLCache.Ping
func (c *MemoryCache) Ping(context.Context) error {
	return nil
}

// ItemCount reports the number of live entries.
func (c *MemoryCache) ItemCount() int {
	return c.entries.ItemCount()
}
