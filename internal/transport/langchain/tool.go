// Package langchain adapts the retriever to langchaingo agents: as a tool
// returning the JSON record list and as a document retriever.
package langchain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tmc/langchaingo/tools"

	"github.com/kailas-cloud/searchretriever/internal/domain"
)

// Tool metadata exposed to agents.
const (
	ToolName        = "search_retrieval"
	ToolDescription = "Search and retrieve answers from Azure AI Search."
)

// Retriever is the uniform retrieval contract.
type Retriever interface {
	Retrieve(ctx context.Context, query string) domain.ResultSet
}

// Tool implements tools.Tool over a Retriever.
type Tool struct {
	retriever Retriever
}

var _ tools.Tool = (*Tool)(nil)

// NewTool creates the search_retrieval agent tool.
func NewTool(r Retriever) *Tool {
	return &Tool{retriever: r}
}

// Name implements tools.Tool.
func (t *Tool) Name() string { return ToolName }

// Description implements tools.Tool.
func (t *Tool) Description() string { return ToolDescription }

// Call retrieves records for input and returns them as a JSON array.
// The input is the query itself, or a JSON object with a "query" string.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	rs := t.retriever.Retrieve(ctx, queryFromInput(input))
	out, err := json.Marshal(rs)
	if err != nil {
		return "", fmt.Errorf("encode records: %w", err)
	}
	return string(out), nil
}

// queryFromInput unwraps {"query": "..."} payloads some agents emit; any
// other input is taken verbatim.
func queryFromInput(input string) string {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "{") || !gjson.Valid(trimmed) {
		return input
	}
	q := gjson.Get(trimmed, "query")
	if q.Type != gjson.String {
		return input
	}
	return q.String()
}
