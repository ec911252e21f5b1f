// Package lazycache caches values looked up from a remote platform, serving
// them from memory for a configurable TTL and refreshing them in the
// background once they go stale.
//
// Cache holds a single value behind a load function. The value is loaded on
// first access, served without any extra work while it is fresh, and once it
// expires the next reader triggers exactly one background refresh while
// everyone keeps getting the current (stale) value. Refresh failures never
// reach readers; the previous value stays in place and the failure is
// reported through an error handler and the configured logger.
//
// Group applies the same contract per key, with entries stored in a pluggable
// Backend. In-memory (LRU, bigcache), redis and bbolt backends live under the
// backend directory. Concurrent fetches for a missing key collapse into a
// single call.
//
// The typical use is the serviceinfo subpackage: a client SDK needs the
// platform's service-info document (endpoint URLs, instances, configuration
// values) on nearly every call, the document rarely changes, and a slightly
// stale copy is perfectly usable while a refresh is on its way.
package lazycache
