// Package metrics provides Prometheus metrics for the fieldday service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Business metrics.
	scoreSaves       prometheus.Counter
	scoreSaveErrors  prometheus.Counter
	scoringLatency   prometheus.Histogram
	recomputeRuns    prometheus.Counter
	recomputeErrors  prometheus.Counter
	recomputeLatency prometheus.Histogram
	activityDeletes  prometheus.Counter

	// Operational gauges.
	recomputeQueueSize prometheus.Gauge
	storedCompetitions prometheus.Gauge
	storedActivities   prometheus.Gauge
	storedRecords      prometheus.Gauge

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fieldday",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initCollectors()
	return m
}

func (m *Manager) initCollectors() {
	factory := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		}
	}
	gaugeOpts := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		}
	}
	histOpts := func(name, help string) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
			Buckets: m.histogramBuckets,
		}
	}

	m.scoreSaves = prometheus.NewCounter(factory("score_saves_total", "Activity score saves processed."))
	m.scoreSaveErrors = prometheus.NewCounter(factory("score_save_errors_total", "Activity score saves that failed."))
	m.scoringLatency = prometheus.NewHistogram(histOpts("scoring_latency_ms", "Latency of one scoring pass in milliseconds."))
	m.recomputeRuns = prometheus.NewCounter(factory("recompute_runs_total", "Completed full recomputations."))
	m.recomputeErrors = prometheus.NewCounter(factory("recompute_errors_total", "Failed full recomputations."))
	m.recomputeLatency = prometheus.NewHistogram(histOpts("recompute_duration_ms", "Duration of one full recomputation in milliseconds."))
	m.activityDeletes = prometheus.NewCounter(factory("activity_deletes_total", "Activities deleted."))

	m.recomputeQueueSize = prometheus.NewGauge(gaugeOpts("recompute_queue_size", "Jobs currently queued for recomputation."))
	m.storedCompetitions = prometheus.NewGauge(gaugeOpts("stored_competitions", "Competitions currently stored."))
	m.storedActivities = prometheus.NewGauge(gaugeOpts("stored_activities", "Activities currently stored."))
	m.storedRecords = prometheus.NewGauge(gaugeOpts("stored_point_records", "Point records currently stored."))

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http", Name: "requests_total",
		Help: "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "http", Name: "request_duration_ms",
		Help:    "HTTP request duration in milliseconds.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	if !m.enabled {
		return
	}
	m.registry.MustRegister(
		m.scoreSaves, m.scoreSaveErrors, m.scoringLatency,
		m.recomputeRuns, m.recomputeErrors, m.recomputeLatency,
		m.activityDeletes,
		m.recomputeQueueSize, m.storedCompetitions, m.storedActivities, m.storedRecords,
		m.httpRequests, m.httpRequestDuration,
	)
}

// GetRegistry exposes the custom registry for the /healthz handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegating to the global manager.

// RecordScoreSave counts one processed score save.
func RecordScoreSave() { globalManager.scoreSaves.Inc() }

// RecordScoreSaveError counts one failed score save.
func RecordScoreSaveError() { globalManager.scoreSaveErrors.Inc() }

// RecordScoringLatency observes one scoring pass duration in milliseconds.
func RecordScoringLatency(ms float64) { globalManager.scoringLatency.Observe(ms) }

// RecordRecomputeRun counts one completed full recomputation.
func RecordRecomputeRun() { globalManager.recomputeRuns.Inc() }

// RecordRecomputeError counts one failed full recomputation.
func RecordRecomputeError() { globalManager.recomputeErrors.Inc() }

// RecordRecomputeDuration observes one recomputation duration in
// milliseconds.
func RecordRecomputeDuration(ms float64) { globalManager.recomputeLatency.Observe(ms) }

// RecordActivityDeleted counts one deleted activity.
func RecordActivityDeleted() { globalManager.activityDeletes.Inc() }

// UpdateRecomputeQueueSize sets the queued-jobs gauge.
func UpdateRecomputeQueueSize(n int) { globalManager.recomputeQueueSize.Set(float64(n)) }

// UpdateStoredCounts sets the stored-entity gauges.
func UpdateStoredCounts(competitions, activities, records int) {
	globalManager.storedCompetitions.Set(float64(competitions))
	globalManager.storedActivities.Set(float64(activities))
	globalManager.storedRecords.Set(float64(records))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration in
// milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
