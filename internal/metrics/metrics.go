// Package metrics exposes the Prometheus instruments shared across services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts snapshot cache hits per tier ("local" or "shared").
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telecast_cache_hits_total",
		Help: "Snapshot cache hits by tier.",
	}, []string{"tier"})

	// CacheMisses counts snapshot cache misses per tier.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telecast_cache_misses_total",
		Help: "Snapshot cache misses by tier.",
	}, []string{"tier"})

	// RefreshDuration observes full ingestion refresh latency.
	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "telecast_refresh_duration_seconds",
		Help:    "Duration of catalog ingestion refreshes.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})

	// RefreshFailures counts ingestion refreshes that kept the old snapshot.
	RefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telecast_refresh_failures_total",
		Help: "Ingestion refreshes that failed and retained the prior snapshot.",
	})

	// EnrichLookups counts external metadata lookups by result ("ok",
	// "skipped" or "error").
	EnrichLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telecast_enrich_lookups_total",
		Help: "External metadata lookups by result.",
	}, []string{"result"})
)
