// Package db defines the storage contracts of the query-vector cache.
package db

import (
	"context"
	"time"
)

// Store is the cache backend. Consumers depend on the narrow sub-interfaces.
type Store interface {
	Pinger
	VectorStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// VectorStore keeps float32 vectors under string keys.
type VectorStore interface {
	// GetVector returns ErrKeyNotFound for a missing key and ErrCorruptValue
	// for a value that does not decode as a vector.
	GetVector(ctx context.Context, key string) ([]float32, error)
	// PutVector stores vec; a non-positive ttl stores it without expiry.
	PutVector(ctx context.Context, key string, vec []float32, ttl time.Duration) error
}
