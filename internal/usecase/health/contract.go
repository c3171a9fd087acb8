package health

import "context"

// IndexCounter checks search index availability by counting its documents.
type IndexCounter interface {
	Count(ctx context.Context) (int64, error)
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks query-embedding cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
