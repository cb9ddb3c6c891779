package cache

import (
	"context"
	"time"
)

// Scoped wraps a Cache with a key prefix so independent consumers can share
// one backend without colliding. The recorder uses this to isolate
// traversal sessions.
//
// Example usage:
//
//	// Session-specific entries in a shared backend
//	session := cache.NewScoped(backend, "session:4f1c:")
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped creates a cache whose keys are all prefixed with prefix.
func NewScoped(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Scoped{inner: inner, prefix: prefix}
}

// Get retrieves a value stored under the scoped key.
func (c *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

// Set stores a value under the scoped key.
func (c *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes the value stored under the scoped key.
func (c *Scoped) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Close is a no-op: the wrapped backend may be shared, closing it is the
// owner's job.
func (c *Scoped) Close() error {
	return nil
}

// Ensure Scoped implements Cache.
var _ Cache = (*Scoped)(nil)
