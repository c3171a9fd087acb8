package retrieval

import (
	"context"

	"github.com/kailas-cloud/searchretriever/internal/domain"
)

// Searcher issues one hybrid query against the remote index.
type Searcher interface {
	Search(ctx context.Context, q *domain.HybridQuery) (domain.SearchResponse, error)
}

// Embedder vectorizes query text when vectors are computed client-side.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
