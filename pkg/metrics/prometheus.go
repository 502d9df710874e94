// Package metrics provides Prometheus metrics for the LLM benchmark service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Aggregation pipeline
	recordsKept        *prometheus.CounterVec
	recordsDropped     *prometheus.CounterVec
	danglingReferences prometheus.Counter
	stageLatency       *prometheus.HistogramVec
	hierarchyLeaves    prometheus.Gauge
	windowSelections   *prometheus.CounterVec

	// Store
	storeQueryLatency *prometheus.HistogramVec
	storeErrors       *prometheus.CounterVec
	storeInserted     *prometheus.CounterVec
	storeDocuments    *prometheus.GaugeVec

	// Import queue and workers
	queueCapacity           prometheus.Gauge
	queueSize               prometheus.Gauge
	queueEnqueued           prometheus.Counter
	queueEnqueueErrors      prometheus.Counter
	queueDequeued           prometheus.Counter
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter
	jobsProcessed           prometheus.Counter

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "llmevo",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.recordsKept = m.counterVec("records_normalized_total",
		"Raw records accepted by the normalizer", "collection")
	m.recordsDropped = m.counterVec("records_dropped_total",
		"Raw records dropped by the normalizer", "collection", "reason")
	m.danglingReferences = m.counter("dangling_references_total",
		"Performances whose model or benchmark could not be resolved")
	m.stageLatency = m.histogramVec("pipeline_stage_latency_milliseconds",
		"Latency of each aggregation stage in milliseconds", "stage")
	m.hierarchyLeaves = m.gauge("hierarchy_leaves",
		"Model leaves in the most recent filtered hierarchy")
	m.windowSelections = m.counterVec("window_selections_total",
		"Time-window selections by outcome", "result")

	m.storeQueryLatency = m.histogramVec("store_query_latency_milliseconds",
		"Store find latency in milliseconds", "collection")
	m.storeErrors = m.counterVec("store_errors_total",
		"Store operation failures", "operation")
	m.storeInserted = m.counterVec("store_inserted_documents_total",
		"Documents inserted into the store", "collection")
	m.storeDocuments = m.gaugeVec("store_documents",
		"Documents per collection at last count", "collection")

	m.queueCapacity = m.gauge("import_queue_capacity", "Maximum import queue capacity")
	m.queueSize = m.gauge("import_queue_size", "Jobs waiting in the import queue")
	m.queueEnqueued = m.counter("import_queue_enqueue_total", "Jobs enqueued")
	m.queueEnqueueErrors = m.counter("import_queue_enqueue_errors_total", "Jobs rejected by the queue")
	m.queueDequeued = m.counter("import_queue_dequeue_total", "Jobs handed to workers")
	m.workerActiveCount = m.gauge("import_worker_active_count", "Running import workers")
	m.workerProcessingLatency = m.histogram("import_worker_processing_latency_milliseconds",
		"Import job processing latency in milliseconds", m.histogramBuckets)
	m.workerErrors = m.counter("import_worker_errors_total", "Failed import jobs")
	m.jobsProcessed = m.counter("import_jobs_processed_total", "Completed import jobs")

	m.errorRateByComponent = m.counterVec("errors_by_component_total",
		"Total number of errors by component", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total",
		"Total number of errors by type", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRecordsKept adds n accepted records for a collection.
func RecordRecordsKept(collection string, n int) {
	globalManager.recordsKept.WithLabelValues(collection).Add(float64(n))
}

// RecordRecordDropped counts one dropped record.
func RecordRecordDropped(collection, reason string) {
	globalManager.recordsDropped.WithLabelValues(collection, reason).Inc()
}

// RecordDanglingReferences adds n unresolved performances.
func RecordDanglingReferences(n int) {
	globalManager.danglingReferences.Add(float64(n))
}

// RecordStageLatency records how long a pipeline stage took.
func RecordStageLatency(stage string, latencyMs float64) {
	globalManager.stageLatency.WithLabelValues(stage).Observe(latencyMs)
}

// UpdateHierarchyLeaves sets the leaf count of the last filtered hierarchy.
func UpdateHierarchyLeaves(count int) {
	globalManager.hierarchyLeaves.Set(float64(count))
}

// RecordWindowSelection counts a window lookup as a hit or a miss.
func RecordWindowSelection(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	globalManager.windowSelections.WithLabelValues(result).Inc()
}

// RecordStoreQueryLatency records a find against a collection.
func RecordStoreQueryLatency(collection string, latencyMs float64) {
	globalManager.storeQueryLatency.WithLabelValues(collection).Observe(latencyMs)
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(operation string) {
	globalManager.storeErrors.WithLabelValues(operation).Inc()
}

// RecordStoreInserted adds n inserted documents.
func RecordStoreInserted(collection string, n int) {
	globalManager.storeInserted.WithLabelValues(collection).Add(float64(n))
}

// UpdateStoreDocuments sets the last known size of a collection.
func UpdateStoreDocuments(collection string, n int64) {
	globalManager.storeDocuments.WithLabelValues(collection).Set(float64(n))
}

// UpdateQueueCapacity sets the import queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueSize sets the number of waiting jobs.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records how long a job took.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordJobProcessed increments the completed job counter.
func RecordJobProcessed() {
	globalManager.jobsProcessed.Inc()
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
