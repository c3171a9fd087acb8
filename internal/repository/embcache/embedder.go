// Package embcache caches query vectors in front of a domain.Embedder.
// Search results are never cached: only the vector for a query text is.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchretriever/internal/db"
	"github.com/kailas-cloud/searchretriever/internal/domain"
)

const keySpace = domain.KeyPrefix + "qvec:"

// vectorStore is the slice of db.Store the cache needs.
type vectorStore interface {
	GetVector(ctx context.Context, key string) ([]float32, error)
	PutVector(ctx context.Context, key string, vec []float32, ttl time.Duration) error
}

// Config tunes the cache.
type Config struct {
	// Model and Dimensions namespace the keys, so a deployment or size
	// change never serves vectors of the previous one.
	Model      string
	Dimensions int
	TTL        time.Duration
	// Lookups counts cache lookups by "result" label (hit/miss). Optional.
	Lookups *prometheus.CounterVec
	Logger  *zap.Logger
}

// Embedder is the caching decorator.
type Embedder struct {
	inner   domain.Embedder
	store   vectorStore
	ns      string
	dims    int
	ttl     time.Duration
	lookups *prometheus.CounterVec
	logger  *zap.Logger
}

// New wraps inner with a vector cache backed by s.
func New(inner domain.Embedder, s vectorStore, cfg Config) *Embedder {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedder{
		inner:   inner,
		store:   s,
		ns:      keySpace + cfg.Model + ":" + strconv.Itoa(cfg.Dimensions) + ":",
		dims:    cfg.Dimensions,
		ttl:     cfg.TTL,
		lookups: cfg.Lookups,
		logger:  logger,
	}
}

// Embed serves the vector from the cache when present. A hit reports zero
// tokens. Cache failures are logged and treated as misses.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := e.key(text)

	if vec, ok := e.lookup(ctx, key); ok {
		e.count("hit")
		return domain.EmbeddingResult{Embedding: vec}, nil
	}
	e.count("miss")

	res, err := e.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed query: %w", err)
	}

	if e.fits(res.Embedding) {
		if err := e.store.PutVector(ctx, key, res.Embedding, e.ttl); err != nil {
			e.logger.Warn("Failed to cache query vector", zap.String("key", key), zap.Error(err))
		}
	}
	return res, nil
}

// HealthCheck forwards to the inner embedder when it supports health checks.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}

func (e *Embedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	vec, err := e.store.GetVector(ctx, key)
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		return nil, false
	case err != nil:
		e.logger.Warn("Failed to read cached query vector", zap.String("key", key), zap.Error(err))
		return nil, false
	case !e.fits(vec):
		e.logger.Warn("Cached query vector has wrong size",
			zap.String("key", key), zap.Int("len", len(vec)), zap.Int("want", e.dims))
		return nil, false
	}
	return vec, true
}

// fits reports whether vec may be cached or served; an unset dimension
// accepts any non-empty vector.
func (e *Embedder) fits(vec []float32) bool {
	if len(vec) == 0 {
		return false
	}
	return e.dims <= 0 || len(vec) == e.dims
}

func (e *Embedder) key(text string) string {
	h := sha256.Sum256([]byte(text))
	return e.ns + hex.EncodeToString(h[:])
}

func (e *Embedder) count(result string) {
	if e.lookups != nil {
		e.lookups.WithLabelValues(result).Inc()
	}
}
