package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics: completion fallback, retrieval, routing.
var (
	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdex",
			Name:      "completion_requests_total",
			Help:      "Total number of completion attempts per model",
		},
		[]string{"model", "status"},
	)

	CompletionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "askdex",
			Name:      "completion_request_duration_seconds",
			Help:      "Completion request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model"},
	)

	CompletionFallbackDepth = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "askdex",
			Name:      "completion_fallback_depth",
			Help:      "Number of models tried before one succeeded",
			Buckets:   []float64{1, 2, 3, 4, 5},
		},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdex",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"model", "status"},
	)

	RetrievalFragmentsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "askdex",
			Name:      "retrieval_fragments_returned",
			Help:      "Fragments returned per retrieval call",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		},
	)

	RouteDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdex",
			Name:      "route_decisions_total",
			Help:      "Routing decisions by route and classifier tier",
		},
		[]string{"route", "tier"},
	)
)

// RegisterPipelineMetrics registers the pipeline collectors explicitly
// (no init()), so tests and main control registration order.
func RegisterPipelineMetrics() {
	prometheus.MustRegister(
		CompletionRequestsTotal,
		CompletionRequestDuration,
		CompletionFallbackDepth,
		EmbeddingRequestsTotal,
		RetrievalFragmentsReturned,
		RouteDecisionsTotal,
	)
}
