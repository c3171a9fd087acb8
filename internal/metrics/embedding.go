package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Embedding call statuses.
const (
	EmbeddingOK       = "ok"
	EmbeddingAPIError = "api_error"
	EmbeddingEmpty    = "empty_response"
)

// Query embedding metrics. Only populated with search.vectorizer=client.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_requests_total",
			Help:      "Query embedding calls by deployment and status",
		},
		[]string{"deployment", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "embedding_request_duration_seconds",
			Help:      "Query embedding call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"deployment"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_tokens_total",
			Help:      "Tokens billed for query embeddings",
		},
		[]string{"deployment"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_total",
			Help:      "Query vector cache lookups",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var embMetricsRegistered bool

// RegisterEmbeddingMetrics registers the query embedding metrics. Must be called once from main.
func RegisterEmbeddingMetrics() {
	if embMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingTokensTotal,
		EmbeddingCacheTotal,
	)
	embMetricsRegistered = true
}

// ObserveEmbedding records one embedding call. Duration and tokens are only
// recorded for successful calls.
func ObserveEmbedding(deployment, status string, d time.Duration, tokens int) {
	EmbeddingRequestsTotal.WithLabelValues(deployment, status).Inc()
	if status != EmbeddingOK {
		return
	}
	EmbeddingRequestDuration.WithLabelValues(deployment).Observe(d.Seconds())
	if tokens > 0 {
		EmbeddingTokensTotal.WithLabelValues(deployment).Add(float64(tokens))
	}
}
