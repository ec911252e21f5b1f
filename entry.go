package lazycache

import "time"

// Entry is a cached value together with the time it was last loaded or
// refreshed. It is the unit stored by backends; freshness is always judged
// against the RefreshedAt timestamp, never by the backend itself.
type Entry[T any] struct {
	Value       *T
	RefreshedAt time.Time
}

func newEntry[T any](value *T, now time.Time) *Entry[T] {
	return &Entry[T]{Value: value, RefreshedAt: now}
}

// Expired reports whether the entry is at least ttl old at the given time.
func (e *Entry[T]) Expired(ttl time.Duration, now time.Time) bool {
	return !e.RefreshedAt.Add(ttl).After(now)
}
