package searchretriever

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchretriever/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	cfg        config.Config
	httpClient *http.Client
	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithSearch sets the search endpoint and admin or query key directly.
// Both take precedence over any secret store.
func WithSearch(endpoint, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.Endpoint = endpoint
		c.cfg.Search.APIKey = apiKey
	})
}

// WithIndex sets the index name. Default: image-verbalization-index.
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.Index = name
	})
}

// WithKeyVault reads credentials from the named Azure Key Vault. A value
// starting with https:// is used as the vault URL.
func WithKeyVault(nameOrURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Secrets.Provider = config.SecretsKeyVault
		if strings.HasPrefix(nameOrURL, "https://") {
			c.cfg.Secrets.VaultURL = nameOrURL
			c.cfg.Secrets.VaultName = ""
			return
		}
		c.cfg.Secrets.VaultName = nameOrURL
		c.cfg.Secrets.VaultURL = ""
	})
}

// WithServicePrincipal authenticates to Key Vault with a client secret
// instead of the default Azure credential chain.
func WithServicePrincipal(tenantID, clientID, clientSecret string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Secrets.TenantID = tenantID
		c.cfg.Secrets.ClientID = clientID
		c.cfg.Secrets.ClientSecret = clientSecret
	})
}

// WithSecretsDir reads credentials from files in dir, one secret per file.
func WithSecretsDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Secrets.Provider = config.SecretsDir
		c.cfg.Secrets.Dir = dir
	})
}

// WithSecrets supplies secret values by name. They win over the vault or the
// secrets directory. Used alone, they are the only source.
func WithSecrets(values map[string]string) Option {
	return optionFunc(func(c *clientConfig) {
		if c.cfg.Secrets.Static == nil {
			c.cfg.Secrets.Static = make(map[string]string, len(values))
		}
		for k, v := range values {
			c.cfg.Secrets.Static[k] = v
		}
		if c.cfg.Secrets.Provider == "" {
			c.cfg.Secrets.Provider = config.SecretsStatic
		}
	})
}

// WithTop sets how many records a call returns at most. Default: 2.
func WithTop(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.Top = n
	})
}

// WithNearestNeighbors sets k for the vector query. Default: 2.
func WithNearestNeighbors(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.K = k
	})
}

// WithSemanticConfig names the semantic configuration used for re-ranking.
func WithSemanticConfig(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.SemanticConfig = name
	})
}

// WithClientVectorizer embeds queries with Azure OpenAI before searching
// instead of letting the search service vectorize the text.
func WithClientVectorizer(deployment string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.Vectorizer = config.VectorizerClient
		c.cfg.Embedding.Deployment = deployment
	})
}

// WithHTTPClient sets the transport for search calls.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (call counts by outcome and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
