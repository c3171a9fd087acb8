package secrets

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVault struct {
	values map[string]string
	err    error
	calls  []string
}

func (f *fakeVault) GetSecret(
	_ context.Context, name string, version string, _ *azsecrets.GetSecretOptions,
) (azsecrets.GetSecretResponse, error) {
	f.calls = append(f.calls, name+"@"+version)
	if f.err != nil {
		return azsecrets.GetSecretResponse{}, f.err
	}
	v, ok := f.values[name]
	if !ok {
		return azsecrets.GetSecretResponse{}, &azcore.ResponseError{
			ErrorCode:  "SecretNotFound",
			StatusCode: http.StatusNotFound,
		}
	}
	return azsecrets.GetSecretResponse{Secret: azsecrets.Secret{Value: &v}}, nil
}

func TestKeyVault_Get(t *testing.T) {
	fake := &fakeVault{values: map[string]string{"aisearch-key": "sk-1"}}
	kv := newKeyVault(fake, "https://akvlab00.vault.azure.net", nil)

	v, err := kv.Get(context.Background(), "aisearch-key")
	require.NoError(t, err)
	assert.Equal(t, "sk-1", v)
	assert.Equal(t, []string{"aisearch-key@"}, fake.calls, "latest version must be requested")
}

func TestKeyVault_NotFound(t *testing.T) {
	kv := newKeyVault(&fakeVault{values: map[string]string{}}, "https://akvlab00.vault.azure.net", nil)

	_, err := kv.Get(context.Background(), "aisearch-key")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestKeyVault_EmptyValue(t *testing.T) {
	kv := newKeyVault(&fakeVault{values: map[string]string{"blank": ""}}, "https://v", nil)

	_, err := kv.Get(context.Background(), "blank")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestKeyVault_TransportError(t *testing.T) {
	boom := errors.New("dial tcp: i/o timeout")
	kv := newKeyVault(&fakeVault{err: boom}, "https://v", nil)

	_, err := kv.Get(context.Background(), "aisearch-key")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrSecretNotFound)
}

func TestVaultURL(t *testing.T) {
	u, err := VaultURL("akvlab00", "")
	require.NoError(t, err)
	assert.Equal(t, "https://akvlab00.vault.azure.net", u)

	u, err = VaultURL("ignored", "https://custom.vault.azure.net/")
	require.NoError(t, err)
	assert.Equal(t, "https://custom.vault.azure.net/", u)

	_, err = VaultURL("", "")
	assert.Error(t, err)
}
