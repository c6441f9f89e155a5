package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errs "github.com/matzehuels/canopy/pkg/errors"
)

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces every key ("canopy" → "canopy:doc:<name>").
	Prefix string
}

// RedisStore saves each document under its own key and keeps a sorted set
// of names scored by update time for listing.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client. Close closes it.
func NewRedisStoreFromClient(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "canopy"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) docKey(name string) string { return s.prefix + ":doc:" + name }
func (s *RedisStore) indexKey() string { return s.prefix + ":docs" }

func (s *RedisStore) Save(ctx context.Context, name string, data []byte) error {
	if err := errs.ValidateDocumentName(name); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.docKey(name), data, 0)
		p.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(s.now().Unix()), Member: name})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.docKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return data, nil
}

func (s *RedisStore) List(ctx context.Context) ([]Info, error) {
	entries, err := s.client.ZRevRangeWithScores(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	lens := make([]*redis.IntCmd, len(entries))
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, e := range entries {
			lens[i] = p.StrLen(ctx, s.docKey(fmt.Sprint(e.Member)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	out := make([]Info, 0, len(entries))
	for i, e := range entries {
		out = append(out, Info{
			Name:      fmt.Sprint(e.Member),
			Size:      int(lens[i].Val()),
			UpdatedAt: time.Unix(int64(e.Score), 0),
		})
	}
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := errs.ValidateDocumentName(name); err != nil {
		return err
	}
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, s.docKey(name))
		p.ZRem(ctx, s.indexKey(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
