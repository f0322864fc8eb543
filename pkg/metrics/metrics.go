// Package metrics provides Prometheus metrics for the beacon match service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Matching & assignment metrics
	assignmentsCreated  prometheus.Counter
	assignmentConflicts prometheus.Counter
	rankDuration        prometheus.Histogram

	// Notification metrics
	noticesCreated    prometheus.Counter
	busPublishes      prometheus.Counter
	busDeliveries     prometheus.Counter
	busHandlerPanics  prometheus.Counter
	busDrops          prometheus.Counter
	backlogReplayErrs prometheus.Counter

	// Streaming metrics
	activeSubscriptions prometheus.Gauge
	streamsOpened       prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "beacon",
		subsystem:        "match",
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

	m.assignmentsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assignments_created_total",
		Help:      "Total number of assignments created",
	})

	m.assignmentConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assignment_conflicts_total",
		Help:      "Total number of duplicate assignment attempts rejected",
	})

	m.rankDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_duration_milliseconds",
		Help:      "Histogram of ranking request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.noticesCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notices_created_total",
		Help:      "Total number of notices created",
	})

	m.busPublishes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bus_publishes_total",
		Help:      "Total number of bus publish calls",
	})

	m.busDeliveries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bus_deliveries_total",
		Help:      "Total number of handler delivery attempts",
	})

	m.busHandlerPanics = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bus_handler_panics_total",
		Help:      "Total number of subscriber handlers contained after panicking",
	})

	m.busDrops = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bus_drops_total",
		Help:      "Total number of live notices dropped on slow stream buffers",
	})

	m.backlogReplayErrs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "backlog_replay_failures_total",
		Help:      "Total number of tolerated backlog reads that failed at stream open",
	})

	m.activeSubscriptions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_subscriptions",
		Help:      "Current number of registered bus subscriptions",
	})

	m.streamsOpened = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "streams_opened_total",
		Help:      "Total number of streaming sessions opened",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordAssignmentCreated increments the assignments created counter.
func RecordAssignmentCreated() {
	globalManager.assignmentsCreated.Inc()
}

// RecordAssignmentConflict increments the rejected duplicates counter.
func RecordAssignmentConflict() {
	globalManager.assignmentConflicts.Inc()
}

// RecordRankDuration records one ranking request duration in milliseconds.
func RecordRankDuration(ms float64) {
	globalManager.rankDuration.Observe(ms)
}

// RecordNoticeCreated increments the notices created counter.
func RecordNoticeCreated() {
	globalManager.noticesCreated.Inc()
}

// RecordBusPublish records one publish call and its delivery attempts.
func RecordBusPublish(delivered int) {
	globalManager.busPublishes.Inc()
	globalManager.busDeliveries.Add(float64(delivered))
}

// RecordBusHandlerPanic increments the contained handler panic counter.
func RecordBusHandlerPanic() {
	globalManager.busHandlerPanics.Inc()
}

// RecordBusDrop increments the dropped live notice counter.
func RecordBusDrop() {
	globalManager.busDrops.Inc()
}

// RecordBacklogReplayFailure increments the tolerated backlog failure counter.
func RecordBacklogReplayFailure() {
	globalManager.backlogReplayErrs.Inc()
}

// UpdateActiveSubscriptions sets the current subscription count.
func UpdateActiveSubscriptions(count int) {
	globalManager.activeSubscriptions.Set(float64(count))
}

// RecordStreamOpened increments the streaming session counter.
func RecordStreamOpened() {
	globalManager.streamsOpened.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
