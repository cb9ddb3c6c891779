package cache

import (
	"context"
	"os"
	"testing"
)

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("WAYPOST_MONGO_URI")
	if uri == "" {
		t.Skip("WAYPOST_MONGO_URI not set, skipping MongoDB integration test")
	}

	ctx := context.Background()
	c, err := NewMongoCache(ctx, uri, "waypost_test", "cache")
	if err != nil {
		t.Fatalf("NewMongoCache error: %v", err)
	}
	defer c.Close()

	exerciseCache(t, c)
}
