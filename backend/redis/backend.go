package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/healthtools/lazycache"
)

// Backend stores entries in redis, letting several SDK processes share one
// cache.
//
// Entries are serialized to JSON, so the T type data has to be properly
// JSON-serializable. Retention is applied as the redis key expiry.
//
// The client will be closed when the parent group is closed.
type Backend[T any] struct {
	client    *redis.Client
	keyPrefix string
}

var _ lazycache.Backend[string] = &Backend[string]{}

func NewBackend[T any](client *redis.Client, keyPrefix string) (*Backend[T], error) {
	if client == nil {
		return nil, errors.New("redis client is nil")
	}

	return &Backend[T]{
		client:    client,
		keyPrefix: keyPrefix,
	}, nil
}

func (b *Backend[T]) Get(ctx context.Context, key string) (*lazycache.Entry[T], error) {
	data, err := b.client.Get(ctx, b.keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("fetching entry from redis: %w", err)
	}

	var c container[T]
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("deserializing entry: %w", err)
	}

	return &lazycache.Entry[T]{
		Value:       c.Value,
		RefreshedAt: c.RefreshedAt,
	}, nil
}

func (b *Backend[T]) Set(ctx context.Context, key string, retention time.Duration, entry *lazycache.Entry[T]) error {
	data, err := json.Marshal(container[T]{
		Value:       entry.Value,
		RefreshedAt: entry.RefreshedAt,
	})
	if err != nil {
		return fmt.Errorf("serializing entry: %w", err)
	}

	if err := b.client.Set(ctx, b.keyPrefix+key, string(data), retention).Err(); err != nil {
		return fmt.Errorf("storing entry in redis: %w", err)
	}

	return nil
}

func (b *Backend[T]) Close() {
	_ = b.client.Close()
}

type container[T any] struct {
	Value       *T        `json:"value"`
	RefreshedAt time.Time `json:"refreshedAt"`
}
