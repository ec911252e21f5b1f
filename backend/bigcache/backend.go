package bigcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/healthtools/lazycache"
)

// Backend stores serialized entries in a bigcache instance: in-memory like
// the lru backend, but with a hard memory cap instead of an entry count.
//
// Bigcache evicts by a global life window, so retention is fixed at
// construction and the per-Set retention argument is ignored.
type Backend[T any] struct {
	cache *bigcache.BigCache
}

var _ lazycache.Backend[string] = &Backend[string]{}

// NewBackend creates a backend capped at maxSizeMB, keeping entries for the
// given retention.
func NewBackend[T any](ctx context.Context, maxSizeMB int, retention time.Duration) (*Backend[T], error) {
	cfg := bigcache.DefaultConfig(retention)
	cfg.HardMaxCacheSize = maxSizeMB
	cfg.Verbose = false

	cache, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating bigcache: %w", err)
	}

	return &Backend[T]{
		cache: cache,
	}, nil
}

func (b *Backend[T]) Get(ctx context.Context, key string) (*lazycache.Entry[T], error) {
	data, err := b.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("fetching entry: %w", err)
	}

	var c container[T]
	if err := json.Unmarshal(data, &c); err != nil {
		// Corrupted entry. Drop it and report a miss.
		_ = b.cache.Delete(key)
		return nil, nil
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

	if err := b.cache.Set(key, data); err != nil {
		return fmt.Errorf("storing entry: %w", err)
	}

	return nil
}

func (b *Backend[T]) Close() {
	_ = b.cache.Close()
}

type container[T any] struct {
	Value       *T        `json:"value"`
	RefreshedAt time.Time `json:"refreshedAt"`
}
