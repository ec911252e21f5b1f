package lazycache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// FetchFunc produces the value for a key. It is used both for the initial
// fetch of a missing key and for refreshing a stale one.
type FetchFunc[T any] func(ctx context.Context, key string) (*T, error)

// Group is the keyed counterpart of Cache: the same TTL contract applied per
// key, with entries stored in a pluggable Backend.
//
// A miss fetches synchronously; concurrent fetches for the same key collapse
// into one. A stale entry is served immediately while at most one background
// refresh per key brings it up to date.
type Group[T any] struct {
	backend Backend[T]
	config  config

	fetchGroup singleflight.Group

	mu         sync.Mutex
	refreshing map[string]struct{}

	// ctx is the parent context of background refreshes.
	// It will be closed when the Close method is called.
	ctx       context.Context
	ctxCancel func()

	wg sync.WaitGroup

	stats stats
}

// NewGroup creates a keyed cache over the given backend. The backend is owned
// by the group and closed with it.
func NewGroup[T any](backend Backend[T], options ...Option) (*Group[T], error) {
	if backend == nil {
		return nil, errors.New("backend is nil")
	}

	cfg := defaultConfig()
	for _, o := range options {
		if err := o(&cfg); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	if cfg.retention <= cfg.ttl {
		return nil, errors.New("retention has to be > ttl")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Group[T]{
		backend:    backend,
		config:     cfg,
		refreshing: make(map[string]struct{}),
		ctx:        ctx,
		ctxCancel:  cancel,
	}, nil
}

// Close stops background refreshes, waits for in-flight ones and closes the
// backend.
func (g *Group[T]) Close() {
	g.ctxCancel()
	g.wg.Wait()
	g.backend.Close()
}

// Get returns the value for key, fetching it when missing and refreshing it
// in the background when stale.
func (g *Group[T]) Get(ctx context.Context, key string, fetch FetchFunc[T]) (*T, error) {
	if err := g.ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := g.backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading backend: %w", err)
	}

	if entry == nil {
		g.stats.loads.Add(1)
		return g.fetch(ctx, key, fetch)
	}

	if !entry.Expired(g.config.ttl, g.config.clock.Now()) {
		g.stats.hits.Add(1)
		return entry.Value, nil
	}

	g.refreshAsync(key, fetch)

	g.stats.staleHits.Add(1)
	return entry.Value, nil
}

// Stats returns a snapshot of the group counters, summed over all keys.
func (g *Group[T]) Stats() Stats {
	return g.stats.snapshot()
}

// fetch collapses concurrent fetches for the same key and stores the result.
func (g *Group[T]) fetch(ctx context.Context, key string, fetch FetchFunc[T]) (*T, error) {
	v, err, _ := g.fetchGroup.Do(key, func() (any, error) {
		value, err := fetch(ctx, key)
		if err != nil {
			return nil, err
		}

		entry := newEntry(value, g.config.clock.Now())
		if err := g.backend.Set(ctx, key, g.config.retention, entry); err != nil {
			return nil, fmt.Errorf("writing backend: %w", err)
		}

		return value, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*T), nil
}

// refreshAsync starts a background refresh for key unless one is already
// running.
func (g *Group[T]) refreshAsync(key string, fetch FetchFunc[T]) {
	g.mu.Lock()
	if _, running := g.refreshing[key]; running {
		g.mu.Unlock()
		return
	}
	g.refreshing[key] = struct{}{}
	g.mu.Unlock()

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			g.mu.Lock()
			delete(g.refreshing, key)
			g.mu.Unlock()
		}()

		bkgCtx, cancel := g.config.backgroundContext(g.ctx)
		defer cancel()

		g.stats.refreshes.Add(1)
		value, err := fetch(bkgCtx, key)
		if err != nil {
			// The backend still holds the stale entry, so readers keep being
			// served. The next stale Get re-attempts.
			g.stats.refreshFailures.Add(1)
			g.config.logger.Warn("background refresh failed",
				zap.String("key", key),
				zap.Error(err),
			)
			g.config.refreshErrorHandler(err)
			return
		}

		entry := newEntry(value, g.config.clock.Now())
		if err := g.backend.Set(bkgCtx, key, g.config.retention, entry); err != nil {
			g.config.logger.Warn("storing refreshed value failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}()
}
