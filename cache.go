package lazycache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LoadFunc produces the initial value on first access.
type LoadFunc[T any] func(ctx context.Context) (*T, error)

// RefreshFunc produces a replacement for the current value once it has gone
// stale. It may return current unchanged to signal that the remote state has
// not moved; the value is considered fresh again either way.
type RefreshFunc[T any] func(ctx context.Context, current *T) (*T, error)

// Cache holds a single lazily loaded value with a freshness TTL.
//
// The first Get loads the value synchronously; concurrent first callers wait
// on the one in-flight load and share its result. Once loaded, reads of a
// fresh value take the mutex only briefly and never invoke user code. When
// the value goes stale, the first Get to notice starts exactly one background
// refresh and returns the stale value immediately, as do all other callers
// until the refresh completes. A failed refresh keeps the previous value and
// timestamp in place, so the next Get re-attempts; the error is reported
// through the configured handler and logger, never to stale readers.
type Cache[T any] struct {
	load    LoadFunc[T]
	refresh RefreshFunc[T]
	config  config

	mu         sync.Mutex
	entry      *Entry[T]
	loading    chan struct{}
	loadErr    error
	refreshing bool

	// ctx is the parent context of background refreshes.
	// It will be closed when the Close method is called.
	ctx       context.Context
	ctxCancel func()

	wg sync.WaitGroup

	stats stats
}

// New creates a cache around the given load and refresh functions.
func New[T any](load LoadFunc[T], refresh RefreshFunc[T], options ...Option) (*Cache[T], error) {
	if load == nil {
		return nil, errors.New("load function is nil")
	}
	if refresh == nil {
		return nil, errors.New("refresh function is nil")
	}

	cfg := defaultConfig()
	for _, o := range options {
		if err := o(&cfg); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Cache[T]{
		load:      load,
		refresh:   refresh,
		config:    cfg,
		ctx:       ctx,
		ctxCancel: cancel,
	}, nil
}

// Close stops background refreshes and waits for the in-flight one, if any.
// Get returns an error after Close.
func (c *Cache[T]) Close() {
	c.ctxCancel()
	c.wg.Wait()
}

// Get returns the cached value, loading it on first access.
func (c *Cache[T]) Get(ctx context.Context) (*T, error) {
	if err := c.ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()

	if c.entry == nil {
		return c.loadLocked(ctx)
	}

	value := c.entry.Value
	if !c.entry.Expired(c.config.ttl, c.config.clock.Now()) {
		c.mu.Unlock()

		c.stats.hits.Add(1)
		return value, nil
	}

	// Stale: make sure exactly one refresh runs, then serve the current
	// value without waiting for it.
	if !c.refreshing {
		c.refreshing = true
		c.startRefresh(value)
	}
	c.mu.Unlock()

	c.stats.staleHits.Add(1)
	return value, nil
}

// Peek returns the current value without triggering a load or a refresh.
func (c *Cache[T]) Peek() (*T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil {
		return nil, false
	}

	return c.entry.Value, true
}

// LastRefreshed returns the time the value was last loaded or refreshed.
// It returns the zero time when no value has been loaded yet.
func (c *Cache[T]) LastRefreshed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil {
		return time.Time{}
	}

	return c.entry.RefreshedAt
}

// Invalidate marks the current value as expired. The next Get starts a
// refresh while still serving the current value.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry != nil {
		c.entry.RefreshedAt = time.Time{}
	}
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[T]) Stats() Stats {
	return c.stats.snapshot()
}

// loadLocked performs the initial load, or joins the one already in flight.
// Called with mu held; releases it before returning.
func (c *Cache[T]) loadLocked(ctx context.Context) (*T, error) {
	for c.entry == nil {
		if done := c.loading; done != nil {
			// Another caller is loading. Wait for its result and share it.
			c.mu.Unlock()

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-c.ctx.Done():
				return nil, c.ctx.Err()
			case <-done:
			}

			c.mu.Lock()
			if c.entry == nil {
				err := c.loadErr
				c.mu.Unlock()
				return nil, fmt.Errorf("initial load: %w", err)
			}

			continue
		}

		done := make(chan struct{})
		c.loading = done
		c.mu.Unlock()

		c.stats.loads.Add(1)
		value, err := c.load(ctx)

		c.mu.Lock()
		c.loading = nil
		c.loadErr = err
		if err == nil {
			c.entry = newEntry(value, c.config.clock.Now())
		}
		close(done)

		if err != nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("initial load: %w", err)
		}
	}

	value := c.entry.Value
	c.mu.Unlock()

	return value, nil
}

// startRefresh launches the background refresh for a stale value.
// Called with mu held and c.refreshing already set.
func (c *Cache[T]) startRefresh(current *T) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		bkgCtx, cancel := c.config.backgroundContext(c.ctx)
		defer cancel()

		c.stats.refreshes.Add(1)
		value, err := c.refresh(bkgCtx, current)

		c.mu.Lock()
		c.refreshing = false
		if err != nil {
			// Keep the previous value and timestamp. The next Get finds the
			// entry still expired and starts a new refresh.
			c.mu.Unlock()

			c.stats.refreshFailures.Add(1)
			c.config.logger.Warn("background refresh failed", zap.Error(err))
			c.config.refreshErrorHandler(err)
			return
		}

		// A refresh returning the current value unchanged still observed the
		// remote state, so the timestamp resets either way.
		c.entry = newEntry(value, c.config.clock.Now())
		c.mu.Unlock()
	}()
}
