package azuresearch

import (
	"strings"

	"github.com/kailas-cloud/searchretriever/internal/domain"
)

// Vector query kinds understood by the search REST API.
const (
	kindText   = "text"
	kindVector = "vector"
)

// vectorQuery is one entry of the vectorQueries array.
type vectorQuery struct {
	Kind       string    `json:"kind"`
	Text       *string   `json:"text,omitempty"`
	Vector     []float32 `json:"vector,omitempty"`
	K          int       `json:"k"`
	Fields     string    `json:"fields"`
	Exhaustive bool      `json:"exhaustive"`
}

// searchRequest is the POST body of docs/search.
type searchRequest struct {
	Search                string        `json:"search"`
	VectorQueries         []vectorQuery `json:"vectorQueries,omitempty"`
	Select                string        `json:"select,omitempty"`
	QueryType             string        `json:"queryType,omitempty"`
	SemanticConfiguration string        `json:"semanticConfiguration,omitempty"`
	Captions              string        `json:"captions,omitempty"`
	Answers               string        `json:"answers,omitempty"`
	Top                   int           `json:"top,omitempty"`
}

// newSearchRequest maps a domain query to the wire body. The query text is
// sent verbatim, including the empty string.
func newSearchRequest(q *domain.HybridQuery) searchRequest {
	vq := vectorQuery{
		K:          q.K,
		Fields:     q.VectorField,
		Exhaustive: q.Exhaustive,
	}
	if q.Vector != nil {
		vq.Kind = kindVector
		vq.Vector = q.Vector
	} else {
		text := q.Text
		vq.Kind = kindText
		vq.Text = &text
	}

	req := searchRequest{
		Search:        q.Text,
		VectorQueries: []vectorQuery{vq},
		Select:        strings.Join(q.Select, ","),
		Top:           q.Top,
	}
	if q.SemanticConfig != "" {
		req.QueryType = "semantic"
		req.SemanticConfiguration = q.SemanticConfig
		req.Captions = "extractive"
		req.Answers = "extractive"
	}
	return req
}
