package lazycache

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// RefreshErrorHandler receives errors from background refreshes. Stale
// readers never see these errors directly.
type RefreshErrorHandler func(err error)

type config struct {
	ttl                 time.Duration
	retention           time.Duration
	refreshTimeout      time.Duration
	refreshErrorHandler RefreshErrorHandler
	logger              *zap.Logger
	clock               clock.Clock
}

func defaultConfig() config {
	return config{
		ttl:                 5 * time.Minute,
		retention:           time.Hour,
		refreshTimeout:      time.Minute,
		refreshErrorHandler: func(err error) {}, // Empty function to avoid nil checks.
		logger:              zap.NewNop(),
		clock:               clock.New(),
	}
}

// backgroundContext derives the context a background refresh runs under.
func (c *config) backgroundContext(parent context.Context) (context.Context, context.CancelFunc) {
	if c.refreshTimeout > 0 {
		return context.WithTimeout(parent, c.refreshTimeout)
	}

	return context.WithCancel(parent)
}

// Option allows to configure cache settings.
type Option func(*config) error

// WithTTL sets how long a value is served without triggering a refresh.
// The default is 5 minutes.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) error {
		if ttl <= 0 {
			return errors.New("ttl has to be > 0")
		}

		c.ttl = ttl

		return nil
	}
}

// WithRetention sets how long backends keep entries past their last refresh.
// Only used by Group. Retention has to be longer than the TTL, otherwise
// stale entries would be gone before they could be served during a refresh.
func WithRetention(retention time.Duration) Option {
	return func(c *config) error {
		if retention <= 0 {
			return errors.New("retention has to be > 0")
		}

		c.retention = retention

		return nil
	}
}

// WithRefreshTimeout allows setting a timeout for the background refresh call.
func WithRefreshTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout <= 0 {
			return errors.New("timeout has to be > 0")
		}

		c.refreshTimeout = timeout

		return nil
	}
}

// WithRefreshErrorHandler allows adding a handler for background refresh errors.
func WithRefreshErrorHandler(h RefreshErrorHandler) Option {
	return func(c *config) error {
		if h != nil {
			c.refreshErrorHandler = h
		}

		return nil
	}
}

// WithLogger sets the logger used to report background refresh failures.
// The default is a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) error {
		if logger != nil {
			c.logger = logger
		}

		return nil
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(cl clock.Clock) Option {
	return func(c *config) error {
		if cl != nil {
			c.clock = cl
		}

		return nil
	}
}
