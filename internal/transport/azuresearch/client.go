// Package azuresearch is a minimal Azure AI Search data-plane client built on
// the azcore HTTP pipeline. It covers hybrid vector + semantic search and the
// document count used for health checks.
package azuresearch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchretriever/internal/domain"
	"github.com/kailas-cloud/searchretriever/internal/metrics"
	"github.com/kailas-cloud/searchretriever/internal/version"
)

const (
	moduleName    = "searchretriever/azuresearch"
	moduleVersion = "v1.0.0"

	// DefaultAPIVersion is the GA data-plane version with integrated vectorization.
	DefaultAPIVersion = "2024-07-01"

	apiKeyHeader = "api-key"
)

// ErrInvalidConfig is returned by New when a required setting is missing.
var ErrInvalidConfig = errors.New("invalid azure search config")

// Config holds the search service connection settings.
type Config struct {
	Endpoint   string
	APIKey     string
	Index      string
	APIVersion string
	Timeout    time.Duration
	// HTTPClient overrides the pipeline transport. Nil uses the azcore default.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to one index of one search service. It is safe for concurrent use.
type Client struct {
	pl         runtime.Pipeline
	endpoint   string
	index      string
	apiVersion string
	timeout    time.Duration
	logger     *zap.Logger
}

// New creates a search client. Retries are disabled: every Search is exactly one HTTP call.
func New(cfg *Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required: %w", ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required: %w", ErrInvalidConfig)
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("index is required: %w", ErrInvalidConfig)
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := &policy.ClientOptions{
		Retry:     policy.RetryOptions{MaxRetries: -1},
		Telemetry: policy.TelemetryOptions{ApplicationID: "searchretriever/" + version.Version},
	}
	if cfg.HTTPClient != nil {
		opts.Transport = cfg.HTTPClient
	}

	keyPolicy := runtime.NewKeyCredentialPolicy(azcore.NewKeyCredential(cfg.APIKey), apiKeyHeader, nil)
	pl := runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{
		PerCall: []policy.Policy{keyPolicy},
	}, opts)

	return &Client{
		pl:         pl,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		index:      cfg.Index,
		apiVersion: apiVersion,
		timeout:    cfg.Timeout,
		logger:     logger,
	}, nil
}

// Index returns the index this client queries.
func (c *Client) Index() string {
	return c.index
}

// Search runs one hybrid query against the index.
func (c *Client) Search(ctx context.Context, q *domain.HybridQuery) (domain.SearchResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	resp, err := c.search(ctx, q)
	duration := time.Since(start)

	metrics.SearchRequestDuration.WithLabelValues(c.index).Observe(duration.Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(c.index, "error").Inc()
		return domain.SearchResponse{}, err
	}
	metrics.SearchRequestsTotal.WithLabelValues(c.index, "success").Inc()

	c.logger.Debug("search completed",
		zap.String("index", c.index),
		zap.Int("hits", len(resp.Hits)),
		zap.Duration("duration", duration),
	)
	return resp, nil
}

func (c *Client) search(ctx context.Context, q *domain.HybridQuery) (domain.SearchResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "search")
	if err != nil {
		return domain.SearchResponse{}, err
	}
	if err := runtime.MarshalAsJSON(req, newSearchRequest(q)); err != nil {
		return domain.SearchResponse{}, fmt.Errorf("encode search request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("search index %s: %w", c.index, err)
	}

	resp, err := parseResponse(body)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("search index %s: %w", c.index, err)
	}
	return resp, nil
}

// Count returns the number of documents in the index.
func (c *Client) Count(ctx context.Context) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, "$count")
	if err != nil {
		return 0, err
	}

	body, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("count index %s: %w", c.index, err)
	}

	// The service answers with a bare number, sometimes behind a UTF-8 BOM.
	text := strings.TrimSpace(string(bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))))
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("count index %s: parse %q: %w", c.index, text, err)
	}
	return n, nil
}

func (c *Client) newRequest(ctx context.Context, method, op string) (*policy.Request, error) {
	url := runtime.JoinPaths(c.endpoint, "indexes", c.index, "docs", op)
	req, err := runtime.NewRequest(ctx, method, url)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	query := req.Raw().URL.Query()
	query.Set("api-version", c.apiVersion)
	req.Raw().URL.RawQuery = query.Encode()
	req.Raw().Header.Set("Accept", "application/json")
	return req, nil
}

// do sends the request and returns the body of a 200 response.
// Any other status becomes an *azcore.ResponseError.
func (c *Client) do(req *policy.Request) ([]byte, error) {
	resp, err := c.pl.Do(req)
	if err != nil {
		return nil, err
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return nil, runtime.NewResponseError(resp)
	}
	body, err := runtime.Payload(resp)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
