package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolve_SearchOnly(t *testing.T) {
	p := NewStatic(map[string]string{
		"aisearch-endpoint": "https://search.example.net",
		"aisearch-key":      "sk-123",
	})

	creds, err := Resolve(context.Background(), p, DefaultNames(), false)
	require.NoError(t, err)
	assert.Equal(t, "https://search.example.net", creds.SearchEndpoint)
	assert.Equal(t, "sk-123", creds.SearchKey)
	assert.Empty(t, creds.OpenAIKey)
}

func TestResolve_MissingSecret(t *testing.T) {
	p := NewStatic(map[string]string{"aisearch-endpoint": "https://search.example.net"})

	_, err := Resolve(context.Background(), p, DefaultNames(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSecretNotFound)
	assert.Contains(t, err.Error(), "aisearch-key")
}

func TestResolve_WithEmbedding(t *testing.T) {
	p := NewStatic(map[string]string{
		"aisearch-endpoint":    "https://search.example.net",
		"aisearch-key":         "sk-123",
		"aoai-endpoint":        "https://aoai.example.net",
		"aoai-api-key":         "ak-456",
		"aoai-embedding-model": "text-embedding-3-small",
	})

	creds, err := Resolve(context.Background(), p, DefaultNames(), true)
	require.NoError(t, err)
	assert.Equal(t, "https://aoai.example.net", creds.OpenAIEndpoint)
	assert.Equal(t, "ak-456", creds.OpenAIKey)
	assert.Equal(t, "text-embedding-3-small", creds.EmbeddingModel)
}

func TestResolve_EmbeddingModelOptional(t *testing.T) {
	p := NewStatic(map[string]string{
		"aisearch-endpoint": "https://search.example.net",
		"aisearch-key":      "sk-123",
		"aoai-endpoint":     "https://aoai.example.net",
		"aoai-api-key":      "ak-456",
	})

	creds, err := Resolve(context.Background(), p, DefaultNames(), true)
	require.NoError(t, err)
	assert.Empty(t, creds.EmbeddingModel)
}

type failingProvider struct{ err error }

func (f failingProvider) Get(context.Context, string) (string, error) { return "", f.err }

func TestResolve_ProviderError(t *testing.T) {
	boom := errors.New("vault unreachable")

	_, err := Resolve(context.Background(), failingProvider{err: boom}, DefaultNames(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrSecretNotFound)
}

func TestChain(t *testing.T) {
	overrides := NewStatic(map[string]string{"aisearch-endpoint": "https://override.example.net"})
	base := NewStatic(map[string]string{
		"aisearch-endpoint": "https://vault.example.net",
		"aisearch-key":      "from-vault",
	})
	chain := Chain{overrides, base}

	v, err := chain.Get(context.Background(), "aisearch-endpoint")
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.net", v)

	v, err = chain.Get(context.Background(), "aisearch-key")
	require.NoError(t, err)
	assert.Equal(t, "from-vault", v)

	_, err = chain.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestChain_StopsOnHardError(t *testing.T) {
	boom := errors.New("denied")
	chain := Chain{failingProvider{err: boom}, NewStatic(map[string]string{"x": "y"})}

	_, err := chain.Get(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestStatic_EmptyValueIsMissing(t *testing.T) {
	p := NewStatic(map[string]string{"blank": ""})

	_, err := p.Get(context.Background(), "blank")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestLoadDir(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "aisearch-key", "  sk_abc123  \n")
				writeFile(t, dir, "aisearch-endpoint", "https://search.example.net\n")
				return dir
			},
			want: map[string]string{
				"aisearch-key":      "sk_abc123",
				"aisearch-endpoint": "https://search.example.net",
			},
		},
		{
			name: "returns empty provider for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files and dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "aoai-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				writeFile(t, dir, ".hidden-key", "secret")
				return dir
			},
			want: map[string]string{
				"aoai-api-key": "valid-key",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "aisearch-key", "sk_1")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"aisearch-key": "sk_1",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := LoadDir(tc.setup(t), zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.values)
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}
