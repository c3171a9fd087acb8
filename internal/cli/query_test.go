package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/searchretriever/internal/domain"
)

type fakeRetriever struct {
	mu       sync.Mutex
	inFlight int32
	peak     int32
	delay    time.Duration
}

func (f *fakeRetriever) Retrieve(_ context.Context, query string) domain.ResultSet {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)

	f.mu.Lock()
	if n > f.peak {
		f.peak = n
	}
	f.mu.Unlock()

	time.Sleep(f.delay)
	if query == "" {
		return domain.SentinelSet(query)
	}
	return domain.ResultSet{{Source: domain.SourceAzureSearch, DocumentTitle: "doc for " + query}}
}

func TestRetrieveAll_KeepsInputOrder(t *testing.T) {
	r := &fakeRetriever{delay: 5 * time.Millisecond}
	queries := make([]string, 10)
	for i := range queries {
		queries[i] = fmt.Sprintf("q%d", i)
	}

	got, err := retrieveAll(context.Background(), r, queries, 3)
	require.NoError(t, err)
	require.Len(t, got, len(queries))
	for i, qr := range got {
		assert.Equal(t, queries[i], qr.Query)
		assert.Equal(t, "doc for "+queries[i], qr.Results[0].DocumentTitle)
	}
}

func TestRetrieveAll_BoundsConcurrency(t *testing.T) {
	r := &fakeRetriever{delay: 20 * time.Millisecond}
	queries := []string{"a", "b", "c", "d", "e", "f"}

	_, err := retrieveAll(context.Background(), r, queries, 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, r.peak, int32(2))
}

func TestRetrieveAll_ZeroParallelRunsSerially(t *testing.T) {
	r := &fakeRetriever{delay: 5 * time.Millisecond}

	got, err := retrieveAll(context.Background(), r, []string{"a", "b"}, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int32(1), r.peak)
}

func TestWriteQueries_SingleQueryPrintsRecords(t *testing.T) {
	var buf bytes.Buffer
	err := writeQueries(context.Background(), &buf, &fakeRetriever{}, []string{"refunds"}, 4)
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "doc for refunds", records[0][domain.KeyDocumentTitle])
}

func TestWriteQueries_NoResultsPrintsSentinel(t *testing.T) {
	var buf bytes.Buffer
	err := writeQueries(context.Background(), &buf, &fakeRetriever{}, []string{""}, 1)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"source":"No Results","message":"No matching data found in available sources","query":""}]`, buf.String())
}

func TestWriteQueries_ManyQueriesPrintPairs(t *testing.T) {
	var buf bytes.Buffer
	err := writeQueries(context.Background(), &buf, &fakeRetriever{}, []string{"a", "b"}, 2)
	require.NoError(t, err)

	var out []struct {
		Query   string           `json:"query"`
		Results []map[string]any `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Query)
	assert.Equal(t, "doc for b", out[1].Results[0][domain.KeyDocumentTitle])
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "searchretriever ")
}
