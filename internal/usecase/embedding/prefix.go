package embedding

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/searchretriever/internal/domain"
)

// PrefixedEmbedder prepends a fixed instruction to every query before it is
// embedded, for models trained with query instructions. Placed outside the
// cache, so cache keys include the prefix.
type PrefixedEmbedder struct {
	inner  domain.Embedder
	prefix string
}

// NewPrefixedEmbedder wraps inner. An empty prefix is a pass-through.
func NewPrefixedEmbedder(inner domain.Embedder, prefix string) *PrefixedEmbedder {
	return &PrefixedEmbedder{inner: inner, prefix: prefix}
}

// Embed implements domain.Embedder.
func (e *PrefixedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := e.inner.Embed(ctx, e.prefix+text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("prefixed embed: %w", err)
	}
	return res, nil
}

// HealthCheck forwards to inner when it supports health checks.
func (e *PrefixedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}
