//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRedisStoreIntegration(t *testing.T) {
	addr := os.Getenv("CANOPY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CANOPY_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: "canopy-test-" + uuid.NewString()})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestMongoStoreIntegration(t *testing.T) {
	uri := os.Getenv("CANOPY_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("CANOPY_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, MongoConfig{
		URI:        uri,
		Database:   "canopy_test",
		Collection: "documents_" + uuid.NewString()[:8],
		Timeout:    5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.coll.Drop(context.Background())
		_ = s.Close()
	}()
	exerciseStore(t, s)
}
