// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"vibe", "status"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "recommendation_duration_seconds",
			Help: "Duration of recommendation pipeline runs in seconds",
		},
		[]string{"vibe"},
	)

	ProviderPagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "provider_pages_fetched_total",
			Help: "Total number of discovery pages fetched from the metadata provider",
		},
	)

	ProviderPageFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "provider_page_failures_total",
			Help: "Total number of discovery page fetches that failed and were skipped",
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_cache_hits_total",
			Help: "Total number of candidate-pool cache hits",
		},
		[]string{"vibe"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_cache_misses_total",
			Help: "Total number of candidate-pool cache misses",
		},
		[]string{"vibe"},
	)

	CandidatesRetrieved = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "candidates_retrieved",
			Help:    "Size of the deduplicated candidate pool per request",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		},
	)
)
