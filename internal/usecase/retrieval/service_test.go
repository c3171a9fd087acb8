package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/searchretriever/internal/domain"
	"github.com/kailas-cloud/searchretriever/internal/logger"
	"github.com/kailas-cloud/searchretriever/internal/metrics"
)

// --- Mocks ---

type mockSearcher struct {
	mu    sync.Mutex
	resp  domain.SearchResponse
	err   error
	calls int
	last  *domain.HybridQuery
}

func (m *mockSearcher) Search(_ context.Context, q *domain.HybridQuery) (domain.SearchResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.last = q
	return m.resp, m.err
}

type mockEmbedder struct {
	vec    []float32
	tokens int
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: m.tokens}, m.err
}

func hit(title, text, path string, score, reranker float64) domain.Hit {
	fields := map[string]string{}
	if title != "" {
		fields["document_title"] = title
	}
	if text != "" {
		fields["content_text"] = text
	}
	if path != "" {
		fields["content_path"] = path
	}
	return domain.Hit{Fields: fields, Score: score, RerankerScore: reranker}
}

func newTestService(s Searcher, e Embedder) (*Service, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(s, e, DefaultQueryOptions(), zap.New(core)), logs
}

// --- Tests ---

func TestRetrieve_HitCounts(t *testing.T) {
	tests := []struct {
		name     string
		hits     []domain.Hit
		wantLen  int
		sentinel bool
	}{
		{"zero hits", nil, 1, true},
		{"one hit", []domain.Hit{hit("a", "", "", 1, 2)}, 1, false},
		{"two hits", []domain.Hit{hit("a", "", "", 1, 2), hit("b", "", "", 0.5, 1)}, 2, false},
		{"over top is capped", []domain.Hit{
			hit("a", "", "", 1, 2), hit("b", "", "", 0.5, 1), hit("c", "", "", 0.1, 0.2),
		}, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(&mockSearcher{resp: domain.SearchResponse{Hits: tt.hits}}, nil)

			rs := svc.Retrieve(context.Background(), "q")

			require.Len(t, rs, tt.wantLen)
			assert.Equal(t, tt.sentinel, rs[0].IsSentinel())
		})
	}
}

func TestRetrieve_PreservesUpstreamOrder(t *testing.T) {
	svc, _ := newTestService(&mockSearcher{resp: domain.SearchResponse{Hits: []domain.Hit{
		hit("low", "", "", 0.1, 0.5),
		hit("high", "", "", 0.9, 3.0),
	}}}, nil)

	rs := svc.Retrieve(context.Background(), "q")

	require.Len(t, rs, 2)
	assert.Equal(t, "low", rs[0].DocumentTitle)
	assert.Equal(t, "high", rs[1].DocumentTitle)
}

func TestRetrieve_RefundPolicy(t *testing.T) {
	s := &mockSearcher{resp: domain.SearchResponse{Hits: []domain.Hit{
		hit("Refunds", "...", "", 0.03, 2.5),
	}}}
	svc, _ := newTestService(s, nil)

	rs := svc.Retrieve(context.Background(), "What is the refund policy?")

	want := domain.ResultSet{{
		Source:        "Azure AI Search",
		DocumentTitle: "Refunds",
		ContentText:   "...",
		Score:         0.03,
		RerankerScore: 2.5,
	}}
	if diff := cmp.Diff(want, rs); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "", rs[0].Map()["content_path"])
	assert.Equal(t, "", rs[0].Map()["locationMetadata"])
}

func TestRetrieve_EmptyQueryTimeout(t *testing.T) {
	s := &mockSearcher{err: fmt.Errorf("search index idx: %w", context.DeadlineExceeded)}
	svc, _ := newTestService(s, nil)

	rs := svc.Retrieve(context.Background(), "")

	want := domain.ResultSet{{Source: "No Results", Message: domain.NoResultsMessage, Query: ""}}
	if diff := cmp.Diff(want, rs); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, s.last)
	assert.Equal(t, "", s.last.Text, "empty query is forwarded as-is")
}

func TestRetrieve_UpstreamErrorYieldsOneSentinel(t *testing.T) {
	svc, logs := newTestService(&mockSearcher{err: errors.New("401 unauthorized")}, nil)

	rs := svc.Retrieve(context.Background(), "Which forms need a signature?")

	require.Len(t, rs, 1)
	assert.True(t, rs[0].IsSentinel())
	assert.Equal(t, "Which forms need a signature?", rs[0].Query)
	assert.Equal(t, domain.NoResultsMessage, rs[0].Message)

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 1)
	assert.Equal(t, "search request failed", errs[0].Message)
}

func TestLookup_Outcomes(t *testing.T) {
	upstream := errors.New("connection reset")

	tests := []struct {
		name        string
		searcher    *mockSearcher
		wantOutcome domain.Outcome
		wantErr     error
	}{
		{"results", &mockSearcher{resp: domain.SearchResponse{Hits: []domain.Hit{hit("a", "", "", 1, 1)}}},
			domain.OutcomeResults, nil},
		{"empty", &mockSearcher{}, domain.OutcomeEmpty, domain.ErrNoResults},
		{"failed", &mockSearcher{err: upstream}, domain.OutcomeFailed, domain.ErrSearchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(tt.searcher, nil)

			rs, outcome, err := svc.Lookup(context.Background(), "q")

			assert.Equal(t, tt.wantOutcome, outcome)
			assert.NotEmpty(t, rs)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, rs[0].IsSentinel())
		})
	}
}

func TestLookup_FailedKeepsCause(t *testing.T) {
	upstream := errors.New("connection reset")
	svc, _ := newTestService(&mockSearcher{err: upstream}, nil)

	_, _, err := svc.Lookup(context.Background(), "q")

	assert.ErrorIs(t, err, domain.ErrSearchFailed)
	assert.ErrorIs(t, err, upstream)
}

func TestLookup_QueryShape(t *testing.T) {
	s := &mockSearcher{}
	svc, _ := newTestService(s, nil)

	svc.Lookup(context.Background(), "refund")

	want := &domain.HybridQuery{
		Text:           "refund",
		VectorField:    "content_embedding",
		K:              2,
		Exhaustive:     true,
		Select:         []string{"document_title", "content_text", "content_path", "locationMetadata"},
		SemanticConfig: "semanticconfig",
		Top:            2,
	}
	if diff := cmp.Diff(want, s.last); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, s.calls, "exactly one search call per retrieval")
}

func TestLookup_ClientSideVector(t *testing.T) {
	s := &mockSearcher{resp: domain.SearchResponse{Hits: []domain.Hit{hit("a", "", "", 1, 1)}}}
	e := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc, _ := newTestService(s, e)

	_, outcome, err := svc.Lookup(context.Background(), "refund")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeResults, outcome)
	assert.Equal(t, 1, e.calls)
	assert.Equal(t, []float32{0.1, 0.2}, s.last.Vector)
	assert.Equal(t, "refund", s.last.Text)
}

func TestLookup_RecordsEmbeddingUsage(t *testing.T) {
	s := &mockSearcher{resp: domain.SearchResponse{Hits: []domain.Hit{hit("a", "", "", 1, 1)}}}
	svc, _ := newTestService(s, &mockEmbedder{vec: []float32{1}, tokens: 4})

	ctx, usage := domain.NewContextWithUsage(context.Background())
	_, _, err := svc.Lookup(ctx, "refund")

	require.NoError(t, err)
	assert.True(t, usage.Used)
	assert.Equal(t, 4, usage.TotalTokens)
}

func TestLookup_NoUsageWithoutEmbedder(t *testing.T) {
	svc, _ := newTestService(&mockSearcher{}, nil)

	ctx, usage := domain.NewContextWithUsage(context.Background())
	_, _, _ = svc.Lookup(ctx, "refund")

	assert.False(t, usage.Used)
}

func TestLookup_EmbeddingFailure(t *testing.T) {
	s := &mockSearcher{}
	e := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	svc, _ := newTestService(s, e)

	rs, outcome, err := svc.Lookup(context.Background(), "refund")

	assert.Equal(t, domain.OutcomeFailed, outcome)
	assert.ErrorIs(t, err, domain.ErrSearchFailed)
	assert.ErrorIs(t, err, domain.ErrEmbeddingProviderError)
	assert.Equal(t, domain.SentinelSet("refund"), rs)
	assert.Equal(t, 0, s.calls, "search must not run without a vector")
}

func TestRetrieve_LogLines(t *testing.T) {
	svc, logs := newTestService(&mockSearcher{}, nil)

	svc.Retrieve(context.Background(), "nothing matches")

	var messages []string
	for _, e := range logs.All() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{
		"searching",
		"querying search index",
		"found results",
		"no results found",
		"returning results",
	}, messages)

	warn := logs.FilterMessage("no results found").All()
	require.Len(t, warn, 1)
	assert.Equal(t, zapcore.WarnLevel, warn[0].Level)
}

func TestRetrieve_ContextLoggerWins(t *testing.T) {
	svc, own := newTestService(&mockSearcher{}, nil)
	core, reqLogs := observer.New(zapcore.InfoLevel)
	ctx := logger.ContextWithLogger(context.Background(), zap.New(core))

	svc.Retrieve(ctx, "q")

	assert.Zero(t, own.Len())
	assert.NotZero(t, reqLogs.FilterMessage("searching").Len())
}

func TestRetrieve_Concurrent(t *testing.T) {
	s := &mockSearcher{resp: domain.SearchResponse{Hits: []domain.Hit{hit("a", "", "", 1, 1)}}}
	svc := New(s, nil, DefaultQueryOptions(), nil)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs := svc.Retrieve(context.Background(), fmt.Sprintf("q%d", i))
			assert.Len(t, rs, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, s.calls)
}

func TestLookup_Metrics(t *testing.T) {
	before := testutil.ToFloat64(metrics.RetrievalRequestsTotal.WithLabelValues("empty"))

	svc, _ := newTestService(&mockSearcher{}, nil)
	svc.Lookup(context.Background(), "q")

	after := testutil.ToFloat64(metrics.RetrievalRequestsTotal.WithLabelValues("empty"))
	assert.InDelta(t, 1, after-before, 0)
}

func TestNew_FillsZeroOptions(t *testing.T) {
	s := &mockSearcher{}
	svc := New(s, nil, QueryOptions{Top: 5}, nil)

	svc.Lookup(context.Background(), "q")

	assert.Equal(t, 5, s.last.Top)
	assert.Equal(t, DefaultK, s.last.K)
	assert.Equal(t, DefaultVectorField, s.last.VectorField)
	assert.Equal(t, DefaultSelect, s.last.Select)
}
