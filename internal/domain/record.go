package domain

import "encoding/json"

// Record source labels.
const (
	SourceAzureSearch = "Azure AI Search"
	SourceNoResults   = "No Results"
)

// NoResultsMessage is the human message carried by the sentinel record.
const NoResultsMessage = "No matching data found in available sources"

// Record keys as seen by consumers of the record map / JSON.
const (
	KeySource        = "source"
	KeyDocumentTitle = "document_title"
	KeyContentText   = "content_text"
	KeyContentPath   = "content_path"
	KeyLocation      = "locationMetadata"
	KeyScore         = "@search.score"
	KeyRerankerScore = "@search.reranker_score"
	KeyMessage       = "message"
	KeyQuery         = "query"
)

// Record is a single normalized search result. A zero value of any field
// means the upstream hit did not carry it.
type Record struct {
	Source           string
	DocumentTitle    string
	ContentText      string
	ContentPath      string
	LocationMetadata string
	Score            float64
	RerankerScore    float64

	// Set only on the sentinel record.
	Message string
	Query   string
}

// NewSentinel builds the placeholder record returned when nothing was found.
func NewSentinel(query string) Record {
	return Record{
		Source:  SourceNoResults,
		Message: NoResultsMessage,
		Query:   query,
	}
}

// IsSentinel reports whether r is the "no results" placeholder.
func (r Record) IsSentinel() bool {
	return r.Source == SourceNoResults
}

// Map renders the record as a flat mapping with the fixed key set.
func (r Record) Map() map[string]any {
	if r.IsSentinel() {
		return map[string]any{
			KeySource:  r.Source,
			KeyMessage: r.Message,
			KeyQuery:   r.Query,
		}
	}
	return map[string]any{
		KeySource:        r.Source,
		KeyDocumentTitle: r.DocumentTitle,
		KeyContentText:   r.ContentText,
		KeyContentPath:   r.ContentPath,
		KeyLocation:      r.LocationMetadata,
		KeyScore:         r.Score,
		KeyRerankerScore: r.RerankerScore,
	}
}

// MarshalJSON encodes the record with the same keys as Map.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// ResultSet is the ordered list of records returned by one retrieval call.
type ResultSet []Record

// SentinelSet returns the single-element result set used for empty or failed lookups.
func SentinelSet(query string) ResultSet {
	return ResultSet{NewSentinel(query)}
}

// IsEmpty reports whether the set carries no real hits.
func (rs ResultSet) IsEmpty() bool {
	return len(rs) == 0 || (len(rs) == 1 && rs[0].IsSentinel())
}

// Maps renders every record via Record.Map.
func (rs ResultSet) Maps() []map[string]any {
	out := make([]map[string]any, len(rs))
	for i, r := range rs {
		out[i] = r.Map()
	}
	return out
}
