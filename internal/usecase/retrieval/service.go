// Package retrieval turns a free-text question into a short ordered list of
// normalized records from the hybrid search index.
package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchretriever/internal/domain"
	"github.com/kailas-cloud/searchretriever/internal/logger"
	"github.com/kailas-cloud/searchretriever/internal/metrics"
)

// Service runs retrieval calls. It holds only read-only state and is safe
// for concurrent use.
type Service struct {
	search Searcher
	embed  Embedder
	opts   QueryOptions
	logger *zap.Logger
}

// New creates a retrieval service. embed may be nil, in which case the
// search service vectorizes the query text itself.
func New(search Searcher, embed Embedder, opts QueryOptions, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		search: search,
		embed:  embed,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Retrieve returns the records for query, or a single sentinel record when
// the search failed or found nothing. The result is never empty.
func (s *Service) Retrieve(ctx context.Context, query string) domain.ResultSet {
	rs, _, _ := s.Lookup(ctx, query)
	logger.FromContextOr(ctx, s.logger).Info("returning results", zap.Int("count", len(rs)))
	return rs
}

// Lookup is Retrieve with the outcome kept. The result set follows the same
// contract; err wraps domain.ErrSearchFailed or domain.ErrNoResults when the
// sentinel was substituted.
func (s *Service) Lookup(ctx context.Context, query string) (domain.ResultSet, domain.Outcome, error) {
	log := logger.FromContextOr(ctx, s.logger)
	log.Info("searching", zap.String("query", query))

	start := time.Now()
	rs, outcome, err := s.lookup(ctx, log, query)
	observe(outcome, len(rs), time.Since(start))

	return rs, outcome, err
}

func (s *Service) lookup(
	ctx context.Context, log *zap.Logger, query string,
) (domain.ResultSet, domain.Outcome, error) {
	q, err := s.buildQuery(ctx, query)
	if err != nil {
		log.Error("query vectorization failed", zap.String("query", query), zap.Error(err))
		return domain.SentinelSet(query), domain.OutcomeFailed, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}

	log.Debug("querying search index")
	resp, err := s.search.Search(ctx, q)
	if err != nil {
		log.Error("search request failed", zap.String("query", query), zap.Error(err))
		return domain.SentinelSet(query), domain.OutcomeFailed, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}

	rs := toResultSet(resp.Hits, s.opts.Top)
	log.Info("found results", zap.Int("count", len(rs)))

	if len(rs) == 0 {
		log.Warn("no results found", zap.String("query", query))
		return domain.SentinelSet(query), domain.OutcomeEmpty, domain.ErrNoResults
	}
	return rs, domain.OutcomeResults, nil
}

// buildQuery fills the fixed query shape; with a client-side embedder the
// vector is attached here.
func (s *Service) buildQuery(ctx context.Context, query string) (*domain.HybridQuery, error) {
	q := &domain.HybridQuery{
		Text:           query,
		VectorField:    s.opts.VectorField,
		K:              s.opts.K,
		Exhaustive:     s.opts.Exhaustive,
		Select:         s.opts.Select,
		SemanticConfig: s.opts.SemanticConfig,
		Top:            s.opts.Top,
	}
	if s.embed == nil {
		return q, nil
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(emb.TotalTokens)
	q.Vector = emb.Embedding
	return q, nil
}

func observe(outcome domain.Outcome, n int, d time.Duration) {
	metrics.RetrievalRequestsTotal.WithLabelValues(string(outcome)).Inc()
	metrics.RetrievalDuration.Observe(d.Seconds())
	if outcome != domain.OutcomeResults {
		n = 0
	}
	metrics.RetrievalResults.Observe(float64(n))
}
