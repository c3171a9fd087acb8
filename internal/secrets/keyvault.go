package secrets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

// secretGetter is the slice of *azsecrets.Client used here.
type secretGetter interface {
	GetSecret(
		ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions,
	) (azsecrets.GetSecretResponse, error)
}

// KeyVaultConfig describes how to reach and authenticate against a vault.
type KeyVaultConfig struct {
	VaultName string // expands to https://<name>.vault.azure.net
	VaultURL  string // wins over VaultName

	// Service principal. DefaultAzureCredential is used when any is empty.
	TenantID     string
	ClientID     string
	ClientSecret string

	Logger *zap.Logger
}

// KeyVault is a Provider backed by Azure Key Vault.
type KeyVault struct {
	client secretGetter
	url    string
	logger *zap.Logger
}

// NewKeyVault creates a Key Vault provider.
func NewKeyVault(cfg KeyVaultConfig) (*KeyVault, error) {
	vaultURL, err := VaultURL(cfg.VaultName, cfg.VaultURL)
	if err != nil {
		return nil, err
	}

	cred, err := newCredential(cfg)
	if err != nil {
		return nil, fmt.Errorf("create azure credential: %w", err)
	}

	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create key vault client: %w", err)
	}

	return newKeyVault(client, vaultURL, cfg.Logger), nil
}

func newKeyVault(client secretGetter, vaultURL string, logger *zap.Logger) *KeyVault {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeyVault{client: client, url: vaultURL, logger: logger}
}

func newCredential(cfg KeyVaultConfig) (azcore.TokenCredential, error) {
	if cfg.TenantID != "" && cfg.ClientID != "" && cfg.ClientSecret != "" {
		return azidentity.NewClientSecretCredential(cfg.TenantID, cfg.ClientID, cfg.ClientSecret, nil) //nolint:wrapcheck
	}
	return azidentity.NewDefaultAzureCredential(nil) //nolint:wrapcheck
}

// VaultURL returns the vault endpoint for a name or an explicit URL.
func VaultURL(name, url string) (string, error) {
	if url != "" {
		return url, nil
	}
	if name == "" {
		return "", errors.New("key vault name or url is required")
	}
	return fmt.Sprintf("https://%s.vault.azure.net", name), nil
}

// Get fetches the latest version of a secret.
func (k *KeyVault) Get(ctx context.Context, name string) (string, error) {
	resp, err := k.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
		}
		k.logger.Error("Key Vault lookup failed", zap.String("vault", k.url), zap.String("name", name))
		return "", fmt.Errorf("get secret %s: %w", name, err)
	}
	if resp.Value == nil || *resp.Value == "" {
		return "", fmt.Errorf("%w: %s (empty value)", ErrSecretNotFound, name)
	}
	return *resp.Value, nil
}
