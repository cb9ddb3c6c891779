// Package cache provides byte caches for resolved HAL documents.
//
// All backends implement the [Cache] interface: an in-process [MemoryCache],
// a [FileCache] for CLI usage, a [RedisCache] and a [MongoCache] for shared
// deployments, and a [NullCache] that disables caching. [Scoped] namespaces
// any backend, which the recorder uses to keep traversal sessions apart.
//
// Keys are caller-defined strings; [Hash] derives a stable key from raw
// bytes such as a URL.
package cache

import (
	"context"
	"time"
)

// Cache stores byte payloads under string keys with optional expiry.
//
// Get reports a miss with a false second return, not an error; errors are
// reserved for backend failures. A ttl of zero means the entry never
// expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
