// Package embedding holds the query embedding decorators owned by the use case layer.
package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchretriever/internal/domain"
	"github.com/kailas-cloud/searchretriever/internal/logger"
)

// DefaultSlowAfter is the latency above which a call is logged at warn.
const DefaultSlowAfter = 2 * time.Second

// LoggedEmbedder logs every query embedding. Metrics live in the transport.
type LoggedEmbedder struct {
	inner      domain.Embedder
	provider   string
	deployment string
	slowAfter  time.Duration
	logger     *zap.Logger
}

// NewLoggedEmbedder wraps inner. A non-positive slowAfter uses DefaultSlowAfter.
func NewLoggedEmbedder(
	inner domain.Embedder, provider, deployment string, slowAfter time.Duration, logger *zap.Logger,
) *LoggedEmbedder {
	if slowAfter <= 0 {
		slowAfter = DefaultSlowAfter
	}
	return &LoggedEmbedder{
		inner:      inner,
		provider:   provider,
		deployment: deployment,
		slowAfter:  slowAfter,
		logger:     logger,
	}
}

// Embed delegates to inner. The query text itself is not logged here; the
// retrieval service already logs it.
func (e *LoggedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	log := logger.FromContextOr(ctx, e.logger).With(
		zap.String("provider", e.provider),
		zap.String("deployment", e.deployment),
	)

	start := time.Now()
	res, err := e.inner.Embed(ctx, text)
	took := time.Since(start)

	if err != nil {
		log.Error("query embedding failed", zap.Duration("took", took), zap.Error(err))
		return domain.EmbeddingResult{}, fmt.Errorf("embed query: %w", err)
	}

	fields := []zap.Field{
		zap.Duration("took", took),
		zap.Int("query_chars", len(text)),
		zap.Int("dimensions", len(res.Embedding)),
		zap.Int("total_tokens", res.TotalTokens),
		zap.Bool("cache_hit", res.TotalTokens == 0),
	}
	if took > e.slowAfter {
		log.Warn("slow query embedding", fields...)
	} else {
		log.Debug("query embedded", fields...)
	}
	return res, nil
}

// HealthCheck forwards to inner when it supports health checks.
func (e *LoggedEmbedder) HealthCheck(ctx context.Context) error {
	hc, ok := e.inner.(domain.HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("embedding health check: %w", err)
	}
	return nil
}
