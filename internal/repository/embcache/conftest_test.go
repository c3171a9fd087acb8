package embcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/searchretriever/internal/db"
	"github.com/kailas-cloud/searchretriever/internal/domain"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
	texts  []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	m.texts = append(m.texts, text)
	return m.result, m.err
}

func (m *mockEmbedder) HealthCheck(_ context.Context) error {
	return m.err
}

// memStore is an in-memory vectorStore; getErr and putErr inject failures.
type memStore struct {
	mu     sync.Mutex
	data   map[string][]float32
	ttls   map[string]time.Duration
	getErr error
	putErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]float32{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) GetVector(_ context.Context, key string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) PutVector(_ context.Context, key string, vec []float32, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = vec
	m.ttls[key] = ttl
	return nil
}

func newTestEmbedder(t *testing.T, inner *mockEmbedder, dims int) (*Embedder, *memStore) {
	t.Helper()
	s := newMemStore()
	return New(inner, s, Config{Model: "text-embedding-3-small", Dimensions: dims, TTL: time.Hour}), s
}
