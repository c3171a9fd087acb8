// Package secrets resolves the credentials the retriever needs at startup.
//
// A Provider is a read-only key/value lookup. Three providers exist: Azure Key
// Vault, a directory of plain-text files (one secret per file) and a static
// in-memory map. Resolve reads every required value once; nothing is re-read
// after startup.
package secrets

import (
	"context"
	"errors"
	"fmt"
)

// ErrSecretNotFound signals that a secret name is unknown to the provider.
var ErrSecretNotFound = errors.New("secret not found")

// Provider looks up a secret value by name.
type Provider interface {
	Get(ctx context.Context, name string) (string, error)
}

// Names maps logical credentials to provider secret names.
type Names struct {
	SearchEndpoint string
	SearchKey      string
	OpenAIEndpoint string
	OpenAIKey      string
	EmbeddingModel string
}

// DefaultNames returns the secret names used by the reference deployment.
func DefaultNames() Names {
	return Names{
		SearchEndpoint: "aisearch-endpoint",
		SearchKey:      "aisearch-key",
		OpenAIEndpoint: "aoai-endpoint",
		OpenAIKey:      "aoai-api-key",
		EmbeddingModel: "aoai-embedding-model",
	}
}

// Credentials holds resolved secret values.
type Credentials struct {
	SearchEndpoint string
	SearchKey      string

	// Populated only when embedding credentials were requested.
	OpenAIEndpoint string
	OpenAIKey      string
	EmbeddingModel string
}

type target struct {
	name string
	dst  *string
}

// Resolve reads the search credentials and, when withEmbedding is set, the
// Azure OpenAI embedding credentials. The first missing secret aborts.
func Resolve(ctx context.Context, p Provider, names Names, withEmbedding bool) (Credentials, error) {
	var creds Credentials

	targets := []target{
		{names.SearchEndpoint, &creds.SearchEndpoint},
		{names.SearchKey, &creds.SearchKey},
	}
	if withEmbedding {
		targets = append(targets,
			target{names.OpenAIEndpoint, &creds.OpenAIEndpoint},
			target{names.OpenAIKey, &creds.OpenAIKey},
		)
	}

	for _, t := range targets {
		v, err := p.Get(ctx, t.name)
		if err != nil {
			return Credentials{}, fmt.Errorf("resolve %s: %w", t.name, err)
		}
		*t.dst = v
	}

	// The embedding model name is optional: the deployment from config is used when absent.
	if withEmbedding && names.EmbeddingModel != "" {
		v, err := p.Get(ctx, names.EmbeddingModel)
		switch {
		case err == nil:
			creds.EmbeddingModel = v
		case !errors.Is(err, ErrSecretNotFound):
			return Credentials{}, fmt.Errorf("resolve %s: %w", names.EmbeddingModel, err)
		}
	}

	return creds, nil
}
