package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hermes_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"path"},
	)

	// Source metrics
	SourceFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_source_fetches_total",
			Help: "Total number of source fetch attempts",
		},
		[]string{"source", "status"}, // status: success|error
	)

	SourceItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_source_items_total",
			Help: "Total number of raw records produced per source",
		},
		[]string{"source"},
	)

	SourceFetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hermes_source_fetch_latency_seconds",
			Help:    "Source fetch latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"source"},
	)

	// Pipeline metrics
	PipelineItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_pipeline_items_total",
			Help: "Items surviving each pipeline stage",
		},
		[]string{"stage"}, // stage: normalized|deduped|trusted|scored
	)

	// Classifier metrics
	ClassifierTexts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hermes_classifier_texts_total",
			Help: "Total number of texts classified",
		},
	)

	ClassifierLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hermes_classifier_batch_latency_seconds",
			Help:    "Model inference latency per batch in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	ClassifierFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hermes_classifier_fallbacks_total",
			Help: "Total number of items scored with the neutral fallback",
		},
	)

	// Rationale metrics
	RationaleCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_rationale_calls_total",
			Help: "Total number of rationale generation calls",
		},
		[]string{"provider", "status"}, // provider: openai|template
	)

	// Cache metrics
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_cache_ops_total",
			Help: "Result cache operations",
		},
		[]string{"op"}, // op: hit|miss|store|error
	)

	// Kafka metrics
	KafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_kafka_messages_total",
			Help: "Total Kafka messages produced",
		},
		[]string{"topic", "status"}, // status: success|error
	)

	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hermes_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"worker"},
	)

	WorkerLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hermes_worker_last_run_timestamp",
			Help: "Unix timestamp of last worker execution",
		},
		[]string{"worker"},
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPDuration)

	prometheus.MustRegister(SourceFetches)
	prometheus.MustRegister(SourceItems)
	prometheus.MustRegister(SourceFetchLatency)

	prometheus.MustRegister(PipelineItems)

	prometheus.MustRegister(ClassifierTexts)
	prometheus.MustRegister(ClassifierLatency)
	prometheus.MustRegister(ClassifierFallbacks)

	prometheus.MustRegister(RationaleCalls)
	prometheus.MustRegister(CacheOps)
	prometheus.MustRegister(KafkaMessages)

	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
	prometheus.MustRegister(WorkerLastRun)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(path, method string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordSourceFetch records a fetch attempt against one source
func RecordSourceFetch(source string, items int, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	SourceFetches.WithLabelValues(source, status).Inc()
	SourceFetchLatency.WithLabelValues(source).Observe(latency.Seconds())
	if items > 0 {
		SourceItems.WithLabelValues(source).Add(float64(items))
	}
}

// RecordPipelineStage records how many items survived a stage
func RecordPipelineStage(stage string, count int) {
	PipelineItems.WithLabelValues(stage).Add(float64(count))
}

// ObserveClassifierInference records one model batch run
func ObserveClassifierInference(batchSize int, latency time.Duration) {
	ClassifierTexts.Add(float64(batchSize))
	ClassifierLatency.Observe(latency.Seconds())
}

// RecordClassifierFallbacks counts items degraded to neutral
func RecordClassifierFallbacks(count int) {
	if count > 0 {
		ClassifierFallbacks.Add(float64(count))
	}
}

// RecordRationaleCall records a rationale generation attempt
func RecordRationaleCall(provider string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RationaleCalls.WithLabelValues(provider, status).Inc()
}

// RecordCacheOp records a cache hit, miss, store or error
func RecordCacheOp(op string) {
	CacheOps.WithLabelValues(op).Inc()
}

// RecordKafkaMessage records a produced message
func RecordKafkaMessage(topic string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	KafkaMessages.WithLabelValues(topic, status).Inc()
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
	WorkerLastRun.WithLabelValues(worker).SetToCurrentTime()
}
