// Package app is the composition root shared by the server, the CLI and the
// public Go package. It resolves secrets once and wires the retriever.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchretriever/internal/config"
	"github.com/kailas-cloud/searchretriever/internal/db"
	dbRedis "github.com/kailas-cloud/searchretriever/internal/db/redis"
	"github.com/kailas-cloud/searchretriever/internal/domain"
	"github.com/kailas-cloud/searchretriever/internal/metrics"
	"github.com/kailas-cloud/searchretriever/internal/repository/embcache"
	"github.com/kailas-cloud/searchretriever/internal/secrets"
	"github.com/kailas-cloud/searchretriever/internal/transport/azuresearch"
	openaiEmb "github.com/kailas-cloud/searchretriever/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/searchretriever/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/searchretriever/internal/usecase/health"
	"github.com/kailas-cloud/searchretriever/internal/usecase/retrieval"
)

const cacheReadyTimeout = 5 * time.Second

// Options tune Build beyond what the config file expresses.
type Options struct {
	// Secrets replaces the provider built from cfg.Secrets.
	Secrets secrets.Provider
	// HTTPClient is the transport for search calls. Nil uses the azcore default.
	HTTPClient *http.Client
}

// App holds the wired components.
type App struct {
	Retrieval *retrieval.Service
	Search    *azuresearch.Client
	Health    *healthuc.Service

	store  db.Store
	logger *zap.Logger
}

// Build resolves credentials and assembles the retriever. Any error here is a
// configuration problem and should stop the process.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider := opts.Secrets
	if provider == nil {
		var err error
		provider, err = NewSecretsProvider(ctx, &cfg.Secrets, logger)
		if err != nil {
			return nil, err
		}
	}

	names := secretNames(cfg.Secrets.Names)
	// Endpoint and key set in the config file win over the secret store.
	provider = secrets.Chain{
		secrets.NewStatic(map[string]string{
			names.SearchEndpoint: cfg.Search.Endpoint,
			names.SearchKey:      cfg.Search.APIKey,
		}),
		provider,
	}

	clientSide := cfg.Search.Vectorizer == config.VectorizerClient
	creds, err := secrets.Resolve(ctx, provider, names, clientSide)
	if err != nil {
		return nil, fmt.Errorf("resolve credentials: %w", err)
	}

	search, err := azuresearch.New(&azuresearch.Config{
		Endpoint:   creds.SearchEndpoint,
		APIKey:     creds.SearchKey,
		Index:      cfg.Search.Index,
		APIVersion: cfg.Search.APIVersion,
		Timeout:    time.Duration(cfg.Search.TimeoutSec) * time.Second,
		HTTPClient: opts.HTTPClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create search client: %w", err)
	}

	a := &App{Search: search, logger: logger}

	var embedder domain.Embedder
	var embHealth healthuc.EmbeddingChecker
	var cachePinger healthuc.CachePinger
	if clientSide {
		embedder, err = a.buildEmbedder(ctx, cfg, creds)
		if err != nil {
			a.Close()
			return nil, err
		}
		if hc, ok := embedder.(healthuc.EmbeddingChecker); ok {
			embHealth = hc
		}
		if a.store != nil {
			cachePinger = a.store
		}
	}

	a.Retrieval = retrieval.New(search, embedder, retrieval.QueryOptions{
		VectorField:    cfg.Search.VectorField,
		K:              cfg.Search.K,
		Exhaustive:     cfg.Search.IsExhaustive(),
		Select:         cfg.Search.Select,
		SemanticConfig: cfg.Search.SemanticConfig,
		Top:            cfg.Search.Top,
	}, logger)
	a.Health = healthuc.New(search, embHealth, cachePinger, logger)

	logger.Info("Retriever ready",
		zap.String("index", cfg.Search.Index),
		zap.String("vectorizer", cfg.Search.Vectorizer),
		zap.Int("top", cfg.Search.Top),
		zap.Bool("embedding_cache", a.store != nil),
	)
	return a, nil
}

// buildEmbedder assembles the decorator chain: Azure OpenAI -> cache -> logging -> instruction prefix.
func (a *App) buildEmbedder(ctx context.Context, cfg *config.Config, creds secrets.Credentials) (domain.Embedder, error) {
	deployment := cfg.Embedding.Deployment
	if creds.EmbeddingModel != "" {
		deployment = creds.EmbeddingModel
	}

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		Endpoint:   creds.OpenAIEndpoint,
		APIKey:     creds.OpenAIKey,
		APIVersion: cfg.Embedding.APIVersion,
		Deployment: deployment,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     a.logger,
	})

	var embedder domain.Embedder = base
	if cfg.Cache.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create cache store: %w", err)
		}
		if err := store.WaitForReady(ctx, cacheReadyTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("cache not ready: %w", err)
		}
		a.store = store
		embedder = embcache.New(base, store, embcache.Config{
			Model:      deployment,
			Dimensions: cfg.Embedding.Dimensions,
			TTL:        time.Duration(cfg.Cache.TTLSec) * time.Second,
			Lookups:    metrics.EmbeddingCacheTotal,
			Logger:     a.logger,
		})
	}

	embedder = embeddinguc.NewLoggedEmbedder(embedder, openaiEmb.Provider, deployment, 0, a.logger)

	// Instruction prefix (outermost, so the cache key includes it)
	if cfg.Embedding.QueryInstruction != "" {
		embedder = embeddinguc.NewPrefixedEmbedder(embedder, cfg.Embedding.QueryInstruction)
	}

	a.logger.Info("Query embedder created",
		zap.String("deployment", deployment),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)
	return embedder, nil
}

// Close releases the cache connection, if any.
func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}
