package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/shortlink-api/internal/cache"
)

// URLCache implements cache.URLCache with GET and SET EX.
type URLCache struct {
	client goredis.Cmdable
	ttl    time.Duration
}

var _ cache.URLCache = (*URLCache)(nil)

// NewURLCache creates a redirect cache. A non-positive ttl uses cache.DefaultTTL.
func NewURLCache(client goredis.Cmdable, ttl time.Duration) *URLCache {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &URLCache{client: client, ttl: ttl}
}

// Get implements cache.URLCache.Get
func (c *URLCache) Get(ctx context.Context, code string) (string, bool, error) {
	url, err := c.client.Get(ctx, cache.Key(code)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %s: %w", code, err)
	}
	return url, true, nil
}

// Set implements cache.URLCache.Set
func (c *URLCache) Set(ctx context.Context, code, url string) error {
	if err := c.client.Set(ctx, cache.Key(code), url, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", code, err)
	}
	return nil
}

// Ping implements cache.URLCache.Ping
func (c *URLCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
