package lazycache

import "github.com/prometheus/client_golang/prometheus"

// StatsSource is anything exposing cache counters. Both Cache and Group
// implement it.
type StatsSource interface {
	Stats() Stats
}

// StatsCollector bridges cache counters to Prometheus. Collection reads the
// atomic counters only, so registering one adds nothing to the cache hot
// path.
type StatsCollector struct {
	source StatsSource

	hits            *prometheus.Desc
	staleHits       *prometheus.Desc
	loads           *prometheus.Desc
	refreshes       *prometheus.Desc
	refreshFailures *prometheus.Desc
}

var _ prometheus.Collector = (*StatsCollector)(nil)

// NewStatsCollector creates a collector for the given cache. The name becomes
// the "cache" label, distinguishing multiple caches in one registry.
func NewStatsCollector(name string, source StatsSource) *StatsCollector {
	labels := prometheus.Labels{"cache": name}

	return &StatsCollector{
		source: source,
		hits: prometheus.NewDesc(
			"lazycache_hits_total",
			"Fresh values served from cache.",
			nil, labels,
		),
		staleHits: prometheus.NewDesc(
			"lazycache_stale_hits_total",
			"Stale values served while a refresh was due or running.",
			nil, labels,
		),
		loads: prometheus.NewDesc(
			"lazycache_loads_total",
			"Initial load attempts.",
			nil, labels,
		),
		refreshes: prometheus.NewDesc(
			"lazycache_refreshes_total",
			"Background refresh attempts.",
			nil, labels,
		),
		refreshFailures: prometheus.NewDesc(
			"lazycache_refresh_failures_total",
			"Background refreshes that returned an error.",
			nil, labels,
		),
	}
}

func (sc *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- sc.hits
	ch <- sc.staleHits
	ch <- sc.loads
	ch <- sc.refreshes
	ch <- sc.refreshFailures
}

func (sc *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := sc.source.Stats()

	ch <- prometheus.MustNewConstMetric(sc.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(sc.staleHits, prometheus.CounterValue, float64(s.StaleHits))
	ch <- prometheus.MustNewConstMetric(sc.loads, prometheus.CounterValue, float64(s.Loads))
	ch <- prometheus.MustNewConstMetric(sc.refreshes, prometheus.CounterValue, float64(s.Refreshes))
	ch <- prometheus.MustNewConstMetric(sc.refreshFailures, prometheus.CounterValue, float64(s.RefreshFailures))
}
