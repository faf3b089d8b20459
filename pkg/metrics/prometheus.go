package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the surfcast service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ranking
	rankRequests     *prometheus.CounterVec
	rankLatency      prometheus.Histogram
	spotsRanked      prometheus.Counter
	suitabilityScore prometheus.Histogram
	registeredSpots  prometheus.Gauge

	// Forecast sources
	forecastFetchLatency *prometheus.HistogramVec
	forecastErrors       *prometheus.CounterVec
	forecastCacheHits    prometheus.Counter
	forecastCacheMisses  prometheus.Counter
	forecastRefreshes    *prometheus.CounterVec
	breakerState         *prometheus.GaugeVec
	breakerTransitions   *prometheus.CounterVec
	forecastPoolInFlight prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "surfcast",
		subsystem:        "ranking",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.rankRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_requests_total",
		Help:      "Ranking requests by outcome",
	}, []string{"outcome"})

	m.rankLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_latency_milliseconds",
		Help:      "End-to-end ranking latency in milliseconds, forecast fetch included",
		Buckets:   m.histogramBuckets,
	})

	m.spotsRanked = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "spots_ranked_total",
		Help:      "Total number of spots scored across all requests",
	})

	m.suitabilityScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "suitability_score",
		Help:      "Distribution of suitability scores",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	m.registeredSpots = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "registered_spots",
		Help:      "Number of spots in the registry",
	})

	m.forecastFetchLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "forecast",
		Name:      "fetch_latency_milliseconds",
		Help:      "Forecast fetch latency in milliseconds by source",
		Buckets:   m.histogramBuckets,
	}, []string{"source"})

	m.forecastErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "forecast",
		Name:      "errors_total",
		Help:      "Forecast fetch failures by source and kind",
	}, []string{"source", "kind"})

	m.forecastCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "forecast",
		Name:      "cache_hits_total",
		Help:      "Forecast snapshots served from cache",
	})

	m.forecastCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "forecast",
		Name:      "cache_misses_total",
		Help:      "Forecast snapshot requests that went to the source",
	})

	m.forecastRefreshes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "forecast",
		Name:      "refreshes_total",
		Help:      "Scheduled forecast refreshes by outcome",
	}, []string{"outcome"})

	m.breakerState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "forecast",
		Name:      "circuit_breaker_state",
		Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"name"})

	m.breakerTransitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "forecast",
		Name:      "circuit_breaker_transitions_total",
		Help:      "Circuit breaker state transitions",
	}, []string{"name", "from", "to"})

	m.forecastPoolInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "forecast",
		Name:      "pool_in_flight",
		Help:      "Spot forecasts currently being fetched by the worker pool",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.rateLimited = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter",
	}, []string{"endpoint"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Errors by component and type",
	}, []string{"component", "error_type"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_type_total",
		Help:      "Errors by type and severity",
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "errors_by_endpoint_total",
		Help:      "Errors by endpoint, method and type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordRankRequest counts a ranking request with its outcome label.
func RecordRankRequest(outcome string) {
	globalManager.rankRequests.WithLabelValues(outcome).Inc()
}

// RecordRankLatency records ranking latency in milliseconds.
func RecordRankLatency(latencyMs float64) {
	globalManager.rankLatency.Observe(latencyMs)
}

// RecordSpotsRanked adds n scored spots.
func RecordSpotsRanked(n int) {
	globalManager.spotsRanked.Add(float64(n))
}

// ObserveSuitability records one suitability score.
func ObserveSuitability(score int) {
	globalManager.suitabilityScore.Observe(float64(score))
}

// UpdateRegisteredSpots sets the registry size.
func UpdateRegisteredSpots(n int) {
	globalManager.registeredSpots.Set(float64(n))
}

// RecordForecastFetch records how long a source took to return a snapshot.
func RecordForecastFetch(source string, latencyMs float64) {
	globalManager.forecastFetchLatency.WithLabelValues(source).Observe(latencyMs)
}

// RecordForecastError counts a failed fetch.
func RecordForecastError(source, kind string) {
	globalManager.forecastErrors.WithLabelValues(source, kind).Inc()
}

// RecordForecastCacheHit increments the cache hit counter.
func RecordForecastCacheHit() {
	globalManager.forecastCacheHits.Inc()
}

// RecordForecastCacheMiss increments the cache miss counter.
func RecordForecastCacheMiss() {
	globalManager.forecastCacheMisses.Inc()
}

// RecordForecastRefresh counts a scheduled refresh with its outcome label.
func RecordForecastRefresh(outcome string) {
	globalManager.forecastRefreshes.WithLabelValues(outcome).Inc()
}

// UpdateCircuitBreakerState sets the numeric state of a named breaker.
func UpdateCircuitBreakerState(name string, state float64) {
	globalManager.breakerState.WithLabelValues(name).Set(state)
}

// RecordCircuitBreakerTransition counts a breaker state change.
func RecordCircuitBreakerTransition(name, from, to string) {
	globalManager.breakerTransitions.WithLabelValues(name, from, to).Inc()
}

// AddForecastPoolInFlight moves the in-flight gauge by delta.
func AddForecastPoolInFlight(delta int) {
	globalManager.forecastPoolInFlight.Add(float64(delta))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited counts a request rejected by the limiter.
func RecordRateLimited(endpoint string) {
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

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
