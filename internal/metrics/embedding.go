package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Embedding and search Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "purebhakti",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "purebhakti",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "purebhakti",
			Name:      "embedding_errors_total",
			Help:      "Total embedding errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	GlossarySearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "purebhakti",
			Name:      "glossary_search_total",
			Help:      "Glossary searches by the retrieval method that produced the answer",
		},
		[]string{"method"}, // "semantic" / "text"
	)

	GlossarySearchRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "purebhakti",
			Name:      "glossary_search_rejected_total",
			Help:      "Glossary queries rejected by the content filter",
		},
		[]string{"reason"},
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers embedding and search metrics with the default
// registry. Later calls are no-ops.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(EmbeddingRequestsTotal)
		prometheus.MustRegister(EmbeddingRequestDuration)
		prometheus.MustRegister(EmbeddingErrorsTotal)
		prometheus.MustRegister(GlossarySearchTotal)
		prometheus.MustRegister(GlossarySearchRejectedTotal)
	})
}
