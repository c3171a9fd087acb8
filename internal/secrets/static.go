package secrets

import (
	"context"
	"fmt"
)

// Static is an in-memory Provider.
type Static struct {
	values map[string]string
}

// NewStatic creates a provider over a copy of values.
func NewStatic(values map[string]string) *Static {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &Static{values: cp}
}

// Get returns the value for name or ErrSecretNotFound.
func (s *Static) Get(_ context.Context, name string) (string, error) {
	v, ok := s.values[name]
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return v, nil
}

// Len returns the number of stored secrets.
func (s *Static) Len() int {
	return len(s.values)
}
