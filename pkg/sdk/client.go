package searchretriever

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/tools"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchretriever/internal/app"
	"github.com/kailas-cloud/searchretriever/internal/config"
	"github.com/kailas-cloud/searchretriever/internal/domain"
	"github.com/kailas-cloud/searchretriever/internal/transport/langchain"
)

// Record is one normalized search result. See the Key* constants for its
// map and JSON keys.
type Record = domain.Record

// ResultSet is the ordered record list of one call. It is never empty.
type ResultSet = domain.ResultSet

// Outcome tells a real hit list apart from the "No Results" record.
type Outcome = domain.Outcome

// Call outcomes.
const (
	OutcomeResults = domain.OutcomeResults
	OutcomeEmpty   = domain.OutcomeEmpty
	OutcomeFailed  = domain.OutcomeFailed
)

// retrievalService is the internal interface for retrieval.
type retrievalService interface {
	Lookup(ctx context.Context, query string) (domain.ResultSet, domain.Outcome, error)
}

// Client is the searchretriever entry point. It is safe for concurrent use.
type Client struct {
	app       *app.App
	svc       retrievalService
	healthSvc healthUseCase
	obs       *observer
}

// New resolves credentials once and returns a ready Client. A missing
// secret or an invalid option is reported here, never on a later call.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cc := &clientConfig{}
	for _, o := range opts {
		o.apply(cc)
	}
	if cc.cfg.Secrets.Provider == "" && cc.cfg.Search.Endpoint != "" && cc.cfg.Search.APIKey != "" {
		cc.cfg.Secrets.Provider = config.SecretsStatic
	}

	cfg := cc.cfg
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("searchretriever: %w", err)
	}

	logger := cc.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	obs, err := newObserver(logger, cc.metricsReg)
	if err != nil {
		return nil, err
	}

	a, err := app.Build(ctx, &cfg, logger, app.Options{HTTPClient: cc.httpClient})
	if err != nil {
		return nil, fmt.Errorf("searchretriever: %w", err)
	}

	return &Client{
		app:       a,
		svc:       a.Retrieval,
		healthSvc: a.Health,
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.app != nil {
		c.app.Close()
	}
}

// Retrieve runs one hybrid query and returns at most top records. It never
// fails: an empty or failed search yields the single "No Results" record.
func (c *Client) Retrieve(ctx context.Context, query string) ResultSet {
	start := time.Now()
	rs, outcome, _ := c.svc.Lookup(ctx, query)
	c.obs.observe("retrieve", start, rs, outcome)
	return rs
}

// Lookup is Retrieve plus the outcome and the underlying error, so callers
// can tell an empty index answer from a failed call.
func (c *Client) Lookup(ctx context.Context, query string) (ResultSet, Outcome, error) {
	start := time.Now()
	rs, outcome, err := c.svc.Lookup(ctx, query)
	c.obs.observe("lookup", start, rs, outcome)
	return rs, outcome, err
}

// Tool returns a langchaingo tool backed by this client.
func (c *Client) Tool() tools.Tool {
	return langchain.NewTool(c)
}

// Retriever returns a langchaingo document retriever backed by this client.
func (c *Client) Retriever() schema.Retriever {
	return langchain.NewDocumentRetriever(c)
}
