// Package metrics provides Prometheus metrics for the podium leaderboard
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Submission pipeline
	submissionsTotal  *prometheus.CounterVec // by outcome: new / improved / noop
	submissionLatency prometheus.Histogram
	movementMarkers   *prometheus.CounterVec // by movement tag
	submissionRetries prometheus.Counter

	// Score store
	storeConflicts   prometheus.Counter
	storeLoadLatency prometheus.Histogram
	storeSaveLatency prometheus.Histogram

	// Leaderboard state
	gamesTotal prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "podium",
		subsystem:        "leaderboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.submissionsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_total",
		Help:      "Total score submissions by outcome (new, improved, noop)",
	}, []string{"outcome"})

	m.submissionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submission_latency_milliseconds",
		Help:      "Histogram of end-to-end submission latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.movementMarkers = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "movement_markers_total",
		Help:      "Movement markers assigned during rank recomputation",
	}, []string{"movement"})

	m.submissionRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submission_retries_total",
		Help:      "Submissions retried after an optimistic-concurrency conflict",
	})

	m.storeConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_version_conflicts_total",
		Help:      "Version conflicts reported by the score store",
	})

	m.storeLoadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_load_latency_milliseconds",
		Help:      "Histogram of score store load latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeSaveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_save_latency_milliseconds",
		Help:      "Histogram of score store save latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.gamesTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_total",
		Help:      "Number of games with at least one score record",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// Package-level helpers backed by the global manager.

// RecordSubmission counts one submission by outcome: "new", "improved"
// or "noop".
func RecordSubmission(outcome string) {
	globalManager.submissionsTotal.WithLabelValues(outcome).Inc()
}

// RecordSubmissionLatency observes one end-to-end submission duration.
func RecordSubmissionLatency(latencyMs float64) {
	globalManager.submissionLatency.Observe(latencyMs)
}

// RecordMovement counts one assigned movement marker.
func RecordMovement(movement string) {
	globalManager.movementMarkers.WithLabelValues(movement).Inc()
}

// RecordSubmissionRetry counts one conflict-triggered retry.
func RecordSubmissionRetry() {
	globalManager.submissionRetries.Inc()
}

// RecordStoreConflict counts one version conflict.
func RecordStoreConflict() {
	globalManager.storeConflicts.Inc()
}

// RecordStoreLoadLatency observes one store load duration.
func RecordStoreLoadLatency(latencyMs float64) {
	globalManager.storeLoadLatency.Observe(latencyMs)
}

// RecordStoreSaveLatency observes one store save duration.
func RecordStoreSaveLatency(latencyMs float64) {
	globalManager.storeSaveLatency.Observe(latencyMs)
}

// UpdateGamesTotal sets the games gauge.
func UpdateGamesTotal(count int) {
	globalManager.gamesTotal.Set(float64(count))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry exposes the custom registry for the metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
