// Package openai embeds query text with an Azure OpenAI embedding deployment.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchretriever/internal/domain"
	"github.com/kailas-cloud/searchretriever/internal/metrics"
)

// Provider is the provider name used in logs.
const Provider = "azure-openai"

// DefaultAPIVersion is the Azure OpenAI data-plane version used when none is configured.
const DefaultAPIVersion = "2024-02-15-preview"

// Config holds the Azure OpenAI embedding settings.
type Config struct {
	Endpoint   string // https://<resource>.openai.azure.com
	APIKey     string
	APIVersion string
	Deployment string
	// Dimensions is sent only when positive (text-embedding-3 models).
	Dimensions int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Embedder turns one query into one vector.
type Embedder struct {
	client     *openai.Client
	deployment string
	dimensions int
	logger     *zap.Logger
}

// NewEmbedder creates an Azure OpenAI query embedder. Every request is routed
// to cfg.Deployment regardless of the model name go-openai would send.
func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	clientCfg.APIVersion = cfg.APIVersion
	if clientCfg.APIVersion == "" {
		clientCfg.APIVersion = DefaultAPIVersion
	}
	deployment := cfg.Deployment
	clientCfg.AzureModelMapperFunc = func(string) string { return deployment }
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		deployment: deployment,
		dimensions: cfg.Dimensions,
		logger:     logger,
	}
}

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          openai.EmbeddingModel(e.deployment),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	took := time.Since(start)

	if err != nil {
		metrics.ObserveEmbedding(e.deployment, metrics.EmbeddingAPIError, took, 0)
		return domain.EmbeddingResult{}, wrapAPIError(err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		metrics.ObserveEmbedding(e.deployment, metrics.EmbeddingEmpty, took, 0)
		return domain.EmbeddingResult{}, fmt.Errorf("deployment %s returned no embedding: %w",
			e.deployment, domain.ErrEmbeddingProviderError)
	}

	metrics.ObserveEmbedding(e.deployment, metrics.EmbeddingOK, took, resp.Usage.TotalTokens)
	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck lists the resource's models; it costs no tokens.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return wrapAPIError(err)
	}
	return nil
}
