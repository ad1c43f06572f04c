package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Recommendation and poster Prometheus metrics.
var (
	RecommendResultSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recipedex",
			Name:      "recommend_result_size",
			Help:      "Number of recipes returned per recommendation request",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"mode"}, // "ranked" / "healthy" / "ingredients"
	)

	RecommendOutcomeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipedex",
			Name:      "recommend_outcome_total",
			Help:      "Recommendation requests by outcome",
		},
		[]string{"mode", "outcome"}, // "ok" / "no_matches" / "invalid" / "error"
	)

	PosterLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipedex",
			Name:      "poster_lookups_total",
			Help:      "Poster lookups by outcome",
		},
		[]string{"outcome"}, // "found" / "placeholder" / "error" / "breaker_open"
	)

	PosterLookupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recipedex",
			Name:      "poster_lookup_duration_seconds",
			Help:      "Poster page fetch duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	PosterCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipedex",
			Name:      "poster_cache_total",
			Help:      "Poster cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "recipedex",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

var registerOnce sync.Once

// Register registers the HTTP, recommendation and poster metrics with the default
// registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			httpInFlight,
			RecommendResultSize,
			RecommendOutcomeTotal,
			PosterLookupsTotal,
			PosterLookupDuration,
			PosterCacheTotal,
			BreakerState,
		)
	})
}
