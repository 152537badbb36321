// Package metrics exposes Prometheus metrics for the blitzboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector registered by the service.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  prometheus.Registerer

	// Pipeline metrics.
	computeRuns       prometheus.Counter
	computeErrors     prometheus.Counter
	computeDuration   prometheus.Histogram
	lastComputeUnix   prometheus.Gauge
	monthsComputed    prometheus.Gauge
	dailyRowsIngested prometheus.Counter
	eventRowsIngested prometheus.Counter
	rowsDropped       prometheus.Counter
	playersPerMonth   *prometheus.GaugeVec

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // dedicated registry, no default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "blitzboard",
		subsystem: "league",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.register()
	return m
}

func (m *Manager) register() {
	auto := promauto.With(m.registry)

	m.computeRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "compute_runs_total",
		Help:      "Total number of leaderboard recompute runs",
	})

	m.computeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "compute_errors_total",
		Help:      "Total number of failed recompute runs",
	})

	m.computeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "compute_duration_milliseconds",
		Help:      "Duration of a full recompute run in milliseconds",
		Buckets:   m.buckets,
	})

	m.lastComputeUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_compute_unix",
		Help:      "Unix timestamp of the last successful recompute",
	})

	m.monthsComputed = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "months_computed",
		Help:      "Number of months with a computed leaderboard",
	})

	m.dailyRowsIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "daily_rows_ingested_total",
		Help:      "Total number of daily score rows accepted by the normalizer",
	})

	m.eventRowsIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "event_rows_ingested_total",
		Help:      "Total number of event ranking rows accepted by the normalizer",
	})

	m.rowsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_dropped_total",
		Help:      "Total number of malformed rows dropped during normalization",
	})

	m.playersPerMonth = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "players_per_month",
			Help:      "Number of ranked players per month",
		},
		[]string{"month"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.buckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordComputeRun increments the recompute counter.
func RecordComputeRun() {
	globalManager.computeRuns.Inc()
}

// RecordComputeError increments the failed recompute counter.
func RecordComputeError() {
	globalManager.computeErrors.Inc()
}

// RecordComputeDuration records the duration of a recompute run.
func RecordComputeDuration(ms float64) {
	globalManager.computeDuration.Observe(ms)
}

// UpdateLastComputeUnix records the time of the last successful recompute.
func UpdateLastComputeUnix(ts int64) {
	globalManager.lastComputeUnix.Set(float64(ts))
}

// UpdateMonthsComputed sets the number of months with computed output.
func UpdateMonthsComputed(n int) {
	globalManager.monthsComputed.Set(float64(n))
}

// RecordDailyRowsIngested adds to the accepted daily row counter.
func RecordDailyRowsIngested(n int) {
	globalManager.dailyRowsIngested.Add(float64(n))
}

// RecordEventRowsIngested adds to the accepted event row counter.
func RecordEventRowsIngested(n int) {
	globalManager.eventRowsIngested.Add(float64(n))
}

// RecordRowsDropped adds to the dropped row counter.
func RecordRowsDropped(n int) {
	globalManager.rowsDropped.Add(float64(n))
}

// UpdatePlayersPerMonth sets the ranked player count for a month.
func UpdatePlayersPerMonth(month string, n int) {
	globalManager.playersPerMonth.WithLabelValues(month).Set(float64(n))
}

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records the duration of an HTTP request.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
