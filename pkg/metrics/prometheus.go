// Package metrics provides Prometheus metrics for the copa statistics service.
package metrics

import (
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Record store
	recordsLoaded   *prometheus.GaugeVec
	namesNormalized *prometheus.CounterVec
	loadErrors      *prometheus.CounterVec
	loadDuration    prometheus.Histogram

	// Country index
	countries     prometheus.Gauge
	codeConflicts prometheus.Gauge

	// Queries
	queries      *prometheus.CounterVec
	queryLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry *prometheus.Registry //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Init()
}

// Init rebuilds the global manager on a fresh custom registry. The server calls
// it once at startup, before serving, with options from its configuration;
// until then the package records under the copa_stats defaults.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(slices.Clip(opts), WithRegistry(registry))...)
	customRegistry = registry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "copa",
		subsystem:        "stats",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000},
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsLoaded = auto.NewGaugeVec(
		m.gaugeOpts("records_loaded", "Rows held in memory per input table"),
		[]string{"table"},
	)
	m.namesNormalized = auto.NewCounterVec(
		m.counterOpts("names_normalized_total", "Historical country names rewritten while loading"),
		[]string{"table"},
	)
	m.loadErrors = auto.NewCounterVec(
		m.counterOpts("load_errors_total", "Input tables that failed to load"),
		[]string{"table"},
	)
	m.loadDuration = auto.NewHistogram(
		m.histogramOpts("load_duration_milliseconds", "Time to load and normalize all input tables", prometheus.ExponentialBuckets(1, 2, 14)),
	)

	m.countries = auto.NewGauge(m.gaugeOpts("countries", "Distinct countries appearing in match records"))
	m.codeConflicts = auto.NewGauge(m.gaugeOpts("code_conflicts", "Team codes rejected because a country already had a code"))

	m.queries = auto.NewCounterVec(
		m.counterOpts("queries_total", "Aggregation queries by kind and outcome"),
		[]string{"kind", "outcome"},
	)
	m.queryLatency = auto.NewHistogramVec(
		m.histogramOpts("query_latency_milliseconds", "Aggregation query latency in milliseconds", m.histogramBuckets),
		[]string{"kind"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that ended in an error", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// Record store functions.

// UpdateRecordsLoaded sets the row count of an input table.
func UpdateRecordsLoaded(table string, rows int) {
	globalManager.recordsLoaded.WithLabelValues(table).Set(float64(rows))
}

// RecordNamesNormalized adds n rewritten country names for table.
func RecordNamesNormalized(table string, n int) {
	if n <= 0 {
		return
	}
	globalManager.namesNormalized.WithLabelValues(table).Add(float64(n))
}

// RecordLoadError increments the load failure counter for table.
func RecordLoadError(table string) {
	globalManager.loadErrors.WithLabelValues(table).Inc()
}

// RecordLoadDuration records how long the full load took.
func RecordLoadDuration(durationMs float64) {
	globalManager.loadDuration.Observe(durationMs)
}

// Country index functions.

// UpdateCountries sets the size of the country universe.
func UpdateCountries(count int) {
	globalManager.countries.Set(float64(count))
}

// UpdateCodeConflicts sets the number of rejected team codes.
func UpdateCodeConflicts(count int) {
	globalManager.codeConflicts.Set(float64(count))
}

// Query functions.

// RecordQuery counts one aggregation query.
func RecordQuery(kind, outcome string) {
	globalManager.queries.WithLabelValues(kind, outcome).Inc()
}

// RecordQueryLatency records query latency in milliseconds.
func RecordQueryLatency(kind string, latencyMs float64) {
	globalManager.queryLatency.WithLabelValues(kind).Observe(latencyMs)
}

// HTTP functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error functions.

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
