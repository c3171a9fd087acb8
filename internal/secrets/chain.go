package secrets

import (
	"context"
	"errors"
	"fmt"
)

// Chain queries providers in order and returns the first value found.
// Only ErrSecretNotFound falls through; any other error stops the lookup.
type Chain []Provider

// Get implements Provider.
func (c Chain) Get(ctx context.Context, name string) (string, error) {
	for _, p := range c {
		v, err := p.Get(ctx, name)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrSecretNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
}
