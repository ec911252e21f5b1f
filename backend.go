package lazycache

import (
	"context"
	"time"
)

// Backend stores entries for a Group. Implementations decide durability and
// eviction; retention tells them how long an entry is worth keeping around.
// Freshness is judged by the Group from the entry timestamp, so backends may
// keep entries longer than retention without harm.
type Backend[T any] interface {
	// Get returns the entry for key, or nil when the key is not present.
	Get(ctx context.Context, key string) (*Entry[T], error)

	// Set stores the entry under key for at least the retention duration.
	Set(ctx context.Context, key string, retention time.Duration, entry *Entry[T]) error

	// Close releases backend resources.
	Close()
}
