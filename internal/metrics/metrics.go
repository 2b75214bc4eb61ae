// Package metrics registers the Prometheus instrumentation for recognition,
// the classifier client, the result cache and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecognitionsTotal counts recognize calls by outcome:
	// "matched", "no_match", "fallback", "unavailable", "cached"
	RecognitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yatralens_recognitions_total",
			Help: "Total number of monument recognitions by outcome",
		},
		[]string{"outcome"},
	)

	RecognitionAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yatralens_recognition_attempts",
			Help:    "Classifier attempts made per recognition",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)

	MatchConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yatralens_match_confidence",
			Help:    "Confidence of accepted monument matches",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)

	ClassifierCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yatralens_classifier_calls_total",
			Help: "Total number of classifier calls by result",
		},
		[]string{"result"}, // "ok", "error", "circuit_open"
	)

	ClassifierDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yatralens_classifier_call_duration_seconds",
			Help:    "Duration of classifier calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yatralens_recognition_cache_hits_total",
			Help: "Total number of recognition cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yatralens_recognition_cache_misses_total",
			Help: "Total number of recognition cache misses",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yatralens_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yatralens_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordClassifierCall records one classifier invocation
func RecordClassifierCall(result string, duration time.Duration) {
	ClassifierCalls.WithLabelValues(result).Inc()
	ClassifierDuration.Observe(duration.Seconds())
}

// RecordHTTPRequest records one served HTTP request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
