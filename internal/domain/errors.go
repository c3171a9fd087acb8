package domain

import "errors"

var (
	// ErrNoResults signals that the search service returned zero hits.
	ErrNoResults = errors.New("no results")
	// ErrSearchFailed signals a failed call to the search service.
	ErrSearchFailed = errors.New("search service error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
