package cache

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCache stores one document per key in a MongoDB collection. Expired
// entries are treated as misses and deleted lazily on Get.
type MongoCache struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// mongoEntry is the stored document, keyed by the cache key.
type mongoEntry struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	ExpiresAt time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to MongoDB at uri and caches into the given
// database and collection, verifying the connection with a ping.
func NewMongoCache(ctx context.Context, uri, database, collection string) (Cache, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoCache{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// NewMongoCacheWithCollection caches into an existing collection. The
// caller keeps ownership of the underlying client.
func NewMongoCacheWithCollection(collection *mongo.Collection) Cache {
	return &MongoCache{collection: collection}
}

// Get retrieves a value from the collection. A missing or expired document
// is a cache miss.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := c.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_, _ = c.collection.DeleteOne(ctx, bson.M{"_id": key})
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set upserts a value into the collection.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	_, err := c.collection.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	return err
}

// Delete removes a value from the collection.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	_, err := c.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// Close disconnects the client when this cache created it.
func (c *MongoCache) Close() error {
	if c.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// Ensure MongoCache implements Cache.
var _ Cache = (*MongoCache)(nil)
