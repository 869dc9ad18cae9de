// Package cache defines the redirect cache used on the read path and an
// in-process implementation. Entries map a short code to its original URL
// and expire after a fixed TTL.
package cache

import (
	"context"
	"time"
)

// KeyPrefix namespaces redirect entries in a shared keyspace.
const KeyPrefix = "url:"

// DefaultTTL is how long a redirect entry lives after it is written.
const DefaultTTL = time.Hour

// Key returns the cache key for a short code.
func Key(code string) string {
	return KeyPrefix + code
}

// URLCache is a read-through cache in front of the URL registry.
// Entries are never invalidated explicitly; they only expire.
type URLCache interface {
	// Get returns the cached URL. ok is false on a miss; err is reserved for
	// backend failures.
	Get(ctx context.Context, code string) (url string, ok bool, err error)

	// Set stores url for code with the cache's TTL.
	Set(ctx context.Context, code, url string) error

	// Ping reports whether the cache backend is reachable.
	Ping(ctx context.Context) error
}
