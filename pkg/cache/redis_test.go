package cache

import (
	"context"
	"os"
	"testing"
)

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("WAYPOST_REDIS_ADDR")
	if addr == "" {
		t.Skip("WAYPOST_REDIS_ADDR not set, skipping Redis integration test")
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, addr)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	exerciseCache(t, c)
}
