package lazycache

import "sync/atomic"

type stats struct {
	hits            atomic.Uint64
	staleHits       atomic.Uint64
	loads           atomic.Uint64
	refreshes       atomic.Uint64
	refreshFailures atomic.Uint64
}

func (s *stats) snapshot() Stats {
	return Stats{
		Hits:            s.hits.Load(),
		StaleHits:       s.staleHits.Load(),
		Loads:           s.loads.Load(),
		Refreshes:       s.refreshes.Load(),
		RefreshFailures: s.refreshFailures.Load(),
	}
}

// Stats is a point-in-time snapshot of cache activity counters.
type Stats struct {
	// Hits counts fresh values served.
	Hits uint64
	// StaleHits counts stale values served while a refresh was due or running.
	StaleHits uint64
	// Loads counts initial load attempts, successful or not.
	Loads uint64
	// Refreshes counts background refresh attempts.
	Refreshes uint64
	// RefreshFailures counts background refreshes that returned an error.
	RefreshFailures uint64
}
