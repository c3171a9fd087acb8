package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vectorizer modes for the vector half of the hybrid query.
const (
	VectorizerService = "service" // the search service embeds the query text
	VectorizerClient  = "client"  // the query is embedded locally and sent as a vector
)

// Secret provider kinds.
const (
	SecretsKeyVault = "keyvault"
	SecretsDir      = "dir"
	SecretsStatic   = "static"
)

// Config holds the searchretriever configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Secrets   SecretsConfig   `yaml:"secrets"`
	Search    SearchConfig    `yaml:"search"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings for the HTTP adapter.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SecretsConfig selects where credentials come from.
type SecretsConfig struct {
	Provider  string            `yaml:"provider"` // keyvault (default), dir, static
	VaultName string            `yaml:"vault_name"`
	VaultURL  string            `yaml:"vault_url"`
	Dir       string            `yaml:"dir"`
	Static    map[string]string `yaml:"static"`
	Names     SecretNames       `yaml:"names"`

	// Service principal; DefaultAzureCredential is used when empty.
	TenantID     string `yaml:"tenant_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// SecretNames maps logical credentials to secret names in the store.
type SecretNames struct {
	SearchEndpoint string `yaml:"search_endpoint"`
	SearchKey      string `yaml:"search_key"`
	OpenAIEndpoint string `yaml:"openai_endpoint"`
	OpenAIKey      string `yaml:"openai_key"`
	EmbeddingModel string `yaml:"embedding_model"`
	TenantID       string `yaml:"tenant_id"`
	ClientID       string `yaml:"client_id"`
	ClientSecret   string `yaml:"client_secret"`
}

// SearchConfig describes the index and the shape of the hybrid query.
type SearchConfig struct {
	Endpoint       string   `yaml:"endpoint"` // overrides the vault value when set
	APIKey         string   `yaml:"api_key"`  // overrides the vault value when set
	Index          string   `yaml:"index"`
	APIVersion     string   `yaml:"api_version"`
	VectorField    string   `yaml:"vector_field"`
	SemanticConfig string   `yaml:"semantic_config"`
	Select         []string `yaml:"select"`
	Top            int      `yaml:"top"`
	K              int      `yaml:"k"`
	Exhaustive     *bool    `yaml:"exhaustive"`
	Vectorizer     string   `yaml:"vectorizer"`
	TimeoutSec     int      `yaml:"timeout_sec"`
}

// IsExhaustive reports the effective exhaustive flag (default true).
func (s SearchConfig) IsExhaustive() bool {
	return s.Exhaustive == nil || *s.Exhaustive
}

// EmbeddingConfig holds client-side query embedding settings (Azure OpenAI).
type EmbeddingConfig struct {
	Deployment       string `yaml:"deployment"`
	APIVersion       string `yaml:"api_version"`
	Dimensions       int    `yaml:"dimensions"`
	QueryInstruction string `yaml:"query_instruction"`
}

// CacheConfig holds the optional query-embedding cache settings.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// Enabled reports whether a cache backend is configured.
func (c CacheConfig) Enabled() bool {
	return len(c.Addrs) > 0
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Secrets.Provider == "" {
		c.Secrets.Provider = SecretsKeyVault
	}
	if c.Secrets.VaultName == "" && c.Secrets.VaultURL == "" {
		c.Secrets.VaultName = "akvlab00"
	}
	if c.Secrets.Dir == "" {
		c.Secrets.Dir = "secrets"
	}
	c.Secrets.Names.applyDefaults()

	if c.Search.Index == "" {
		c.Search.Index = "image-verbalization-index"
	}
	if c.Search.APIVersion == "" {
		c.Search.APIVersion = "2024-07-01"
	}
	if c.Search.VectorField == "" {
		c.Search.VectorField = "content_embedding"
	}
	if c.Search.SemanticConfig == "" {
		c.Search.SemanticConfig = "semanticconfig"
	}
	if len(c.Search.Select) == 0 {
		c.Search.Select = []string{"document_title", "content_text", "content_path", "locationMetadata"}
	}
	if c.Search.Top <= 0 {
		c.Search.Top = 2
	}
	if c.Search.K <= 0 {
		c.Search.K = 2
	}
	if c.Search.Vectorizer == "" {
		c.Search.Vectorizer = VectorizerService
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 30
	}

	if c.Embedding.Deployment == "" {
		c.Embedding.Deployment = "text-embedding-3-small"
	}
	if c.Embedding.APIVersion == "" {
		c.Embedding.APIVersion = "2024-02-15-preview"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}

	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 24 * 60 * 60
	}
}

func (n *SecretNames) applyDefaults() {
	setDefault(&n.SearchEndpoint, "aisearch-endpoint")
	setDefault(&n.SearchKey, "aisearch-key")
	setDefault(&n.OpenAIEndpoint, "aoai-endpoint")
	setDefault(&n.OpenAIKey, "aoai-api-key")
	setDefault(&n.EmbeddingModel, "aoai-embedding-model")
	setDefault(&n.TenantID, "tenantid")
	setDefault(&n.ClientID, "clientid")
	setDefault(&n.ClientSecret, "clientsecret")
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Secrets.Provider {
	case SecretsKeyVault, SecretsDir, SecretsStatic:
		// ok
	default:
		return fmt.Errorf(
			"secrets.provider must be %q, %q or %q, got %q",
			SecretsKeyVault, SecretsDir, SecretsStatic, c.Secrets.Provider,
		)
	}
	switch c.Search.Vectorizer {
	case VectorizerService, VectorizerClient:
		// ok
	default:
		return fmt.Errorf(
			"search.vectorizer must be %q or %q, got %q",
			VectorizerService, VectorizerClient, c.Search.Vectorizer,
		)
	}
	if c.Search.K > c.Search.Top*50 {
		return fmt.Errorf("search.k must not exceed 50x search.top, got k=%d top=%d", c.Search.K, c.Search.Top)
	}
	if c.Cache.Enabled() && c.Search.Vectorizer != VectorizerClient {
		return fmt.Errorf("cache is only used with search.vectorizer %q", VectorizerClient)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
