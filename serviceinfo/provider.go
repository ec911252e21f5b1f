package serviceinfo

import (
	"context"
	"errors"
	"time"

	"github.com/healthtools/lazycache"
)

// Client performs the remote service-info lookup. The HTTP transport to the
// platform lives outside this module; callers supply an implementation.
type Client interface {
	GetServiceInfo(ctx context.Context) (*Info, error)
}

// CachedProvider serves the service-info document from a TTL cache: the
// document is looked up on first use, served from memory while fresh, and
// refreshed in the background once the cached copy goes stale. Stale copies
// keep being served while a refresh is running or failing.
type CachedProvider struct {
	cache *lazycache.Cache[Info]
}

// NewCachedProvider wraps client with a cache. Options are passed through;
// without any, the document is considered fresh for 5 minutes.
func NewCachedProvider(client Client, options ...lazycache.Option) (*CachedProvider, error) {
	if client == nil {
		return nil, errors.New("client is nil")
	}

	load := func(ctx context.Context) (*Info, error) {
		return client.GetServiceInfo(ctx)
	}
	refresh := func(ctx context.Context, current *Info) (*Info, error) {
		info, err := client.GetServiceInfo(ctx)
		if err != nil {
			return nil, err
		}

		// An unchanged updated-date means the document has not moved; hand
		// the current copy back so downstream pointers stay stable.
		if current != nil && !info.LastUpdated.After(current.LastUpdated) {
			return current, nil
		}

		return info, nil
	}

	cache, err := lazycache.New(load, refresh, options...)
	if err != nil {
		return nil, err
	}

	return &CachedProvider{cache: cache}, nil
}

// GetServiceInfo returns the cached document, fetching it on first use.
func (p *CachedProvider) GetServiceInfo(ctx context.Context) (*Info, error) {
	return p.cache.Get(ctx)
}

// LastRefreshed returns the time the document was last fetched from the
// platform, or the zero time before the first fetch.
func (p *CachedProvider) LastRefreshed() time.Time {
	return p.cache.LastRefreshed()
}

// Refresh marks the cached document stale. The next GetServiceInfo serves the
// current copy and starts a background re-fetch.
func (p *CachedProvider) Refresh() {
	p.cache.Invalidate()
}

// Stats returns the underlying cache counters.
func (p *CachedProvider) Stats() lazycache.Stats {
	return p.cache.Stats()
}

// Close stops background refreshes.
func (p *CachedProvider) Close() {
	p.cache.Close()
}
