package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchretriever/internal/config"
	"github.com/kailas-cloud/searchretriever/internal/secrets"
)

// NewSecretsProvider builds the provider selected by cfg.Provider. Values in
// cfg.Static always win. For Key Vault, service-principal credentials come
// from config or, failing that, from the static map and the secrets directory.
func NewSecretsProvider(ctx context.Context, cfg *config.SecretsConfig, logger *zap.Logger) (secrets.Provider, error) {
	overrides := secrets.NewStatic(cfg.Static)

	switch cfg.Provider {
	case config.SecretsStatic:
		return overrides, nil

	case config.SecretsDir:
		dir, err := secrets.LoadDir(cfg.Dir, logger)
		if err != nil {
			return nil, fmt.Errorf("load secrets dir: %w", err)
		}
		return secrets.Chain{overrides, dir}, nil

	case config.SecretsKeyVault:
		dir, err := secrets.LoadDir(cfg.Dir, logger)
		if err != nil {
			return nil, fmt.Errorf("load secrets dir: %w", err)
		}
		bootstrap := secrets.Chain{overrides, dir}

		tenantID, err := firstOf(ctx, bootstrap, cfg.TenantID, cfg.Names.TenantID)
		if err != nil {
			return nil, err
		}
		clientID, err := firstOf(ctx, bootstrap, cfg.ClientID, cfg.Names.ClientID)
		if err != nil {
			return nil, err
		}
		clientSecret, err := firstOf(ctx, bootstrap, cfg.ClientSecret, cfg.Names.ClientSecret)
		if err != nil {
			return nil, err
		}

		kv, err := secrets.NewKeyVault(secrets.KeyVaultConfig{
			VaultName:    cfg.VaultName,
			VaultURL:     cfg.VaultURL,
			TenantID:     tenantID,
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Logger:       logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create key vault provider: %w", err)
		}
		return secrets.Chain{overrides, kv}, nil

	default:
		return nil, fmt.Errorf("unknown secrets provider %q", cfg.Provider)
	}
}

// firstOf returns value when set, otherwise the named secret, otherwise "".
func firstOf(ctx context.Context, p secrets.Provider, value, name string) (string, error) {
	if value != "" || name == "" {
		return value, nil
	}
	v, err := p.Get(ctx, name)
	if errors.Is(err, secrets.ErrSecretNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", name, err)
	}
	return v, nil
}

// secretNames converts config names to the resolver's names.
func secretNames(n config.SecretNames) secrets.Names {
	return secrets.Names{
		SearchEndpoint: n.SearchEndpoint,
		SearchKey:      n.SearchKey,
		OpenAIEndpoint: n.OpenAIEndpoint,
		OpenAIKey:      n.OpenAIKey,
		EmbeddingModel: n.EmbeddingModel,
	}
}
