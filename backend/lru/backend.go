package lru

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/healthtools/lazycache"
)

// Backend keeps entries in memory in an LRU cache.
//
// Retention is ignored: entries carry their own timestamps, so the group
// never serves one past its TTL without refreshing it, and eviction happens
// by capacity only.
type Backend[T any] struct {
	cache *lru.Cache[string, *lazycache.Entry[T]]
}

var _ lazycache.Backend[string] = &Backend[string]{}

func NewBackend[T any](size uint) (*Backend[T], error) {
	cache, err := lru.New[string, *lazycache.Entry[T]](int(size))
	if err != nil {
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}

	return &Backend[T]{
		cache: cache,
	}, nil
}

func (b *Backend[T]) Get(ctx context.Context, key string) (*lazycache.Entry[T], error) {
	entry, found := b.cache.Get(key)
	if !found {
		return nil, nil
	}

	return entry, nil
}

func (b *Backend[T]) Set(ctx context.Context, key string, retention time.Duration, entry *lazycache.Entry[T]) error {
	_ = b.cache.Add(key, entry)

	return nil
}

func (b *Backend[T]) Close() {}
