package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/canopy/pkg/observability"
)

// Instrumented reports hits, misses and writes of the wrapped cache to the
// registered observability.CacheHooks.
type Instrumented struct {
	Cache
}

// Instrument wraps c. Wrapping an already instrumented cache returns it as is.
func Instrument(c Cache) Cache {
	if c == nil {
		c = NewNullCache()
	}
	if _, ok := c.(*Instrumented); ok {
		return c
	}
	return &Instrumented{Cache: c}
}

// Get forwards to the wrapped cache and reports the outcome.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
	}
	return data, hit, err
}

// Set forwards to the wrapped cache and reports successful writes.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// keyType extracts the entry type from keys shaped "[scope:]type:hash".
func keyType(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i <= 0 {
		return "unknown"
	}
	head := key[:i]
	if j := strings.LastIndexByte(head, ':'); j >= 0 {
		head = head[j+1:]
	}
	return head
}
