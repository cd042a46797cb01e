// Package metrics exposes Prometheus instrumentation for the recommendation
// pipeline and the HTTP API.
//
// Usage:
//
//	start := time.Now()
//	// ... generate
//	RecordGeneration(len(scores), time.Since(start))
//
//	RecordInteraction(InteractionClicked)
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	InteractionShown   = "shown"
	InteractionClicked = "clicked"
)

var (
	// Recommendation Metrics

	RecommendationsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_generated_total",
			Help: "Total number of recommendation sets generated",
		},
	)

	RecommendationGenerationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_generation_errors_total",
			Help: "Total number of failed recommendation generations by stage",
		},
		[]string{"stage"}, // "load", "store"
	)

	RecommendationGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_generation_duration_seconds",
			Help:    "Duration of loading, scoring and storing a recommendation set",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendationSetSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_set_size",
			Help:    "Number of routes in a generated recommendation set",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	RecommendationScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_score",
			Help:    "Distribution of clamped recommendation scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	RecommendationInteractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_interactions_total",
			Help: "Total number of recommendation interactions by type",
		},
		[]string{"type"}, // "shown", "clicked"
	)

	ExpiredRecommendationsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_expired_swept_total",
			Help: "Total number of expired recommendations deleted by the sweeper",
		},
	)

	// Catalog Metrics

	CatalogCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Total number of route catalog snapshot cache hits",
		},
	)

	CatalogCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Total number of route catalog snapshot cache misses",
		},
	)

	// API Metrics

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "pattern", "status"},
	)

	APIRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// RecordGeneration records a successful recommendation generation.
func RecordGeneration(size int, duration time.Duration) {
	RecommendationsGenerated.Inc()
	RecommendationSetSize.Observe(float64(size))
	RecommendationGenerationDuration.Observe(duration.Seconds())
}

// RecordScore records a single clamped score.
func RecordScore(score float64) {
	RecommendationScores.Observe(score)
}

// RecordGenerationError records a failed generation at the given stage.
func RecordGenerationError(stage string) {
	RecommendationGenerationErrors.WithLabelValues(stage).Inc()
}

// RecordInteraction records a shown or clicked transition.
func RecordInteraction(kind string) {
	RecommendationInteractions.WithLabelValues(kind).Inc()
}
