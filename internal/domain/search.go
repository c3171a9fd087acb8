package domain

// HybridQuery describes one vector + semantic search request.
// When Vector is nil the search service vectorizes Text itself.
// Text always drives the keyword and semantic ranking passes.
type HybridQuery struct {
	Text           string
	Vector         []float32
	VectorField    string
	K              int
	Exhaustive     bool
	Select         []string
	SemanticConfig string
	Top            int
}

// Hit is one raw search service result. Fields holds the selected fields
// rendered as text; absent fields are simply missing from the map.
type Hit struct {
	Fields        map[string]string
	Score         float64
	RerankerScore float64
	Captions      []string
}

// Field returns the named field, or "" when the hit does not carry it.
func (h Hit) Field(name string) string {
	return h.Fields[name]
}

// SearchResponse is the parsed answer of the search service.
type SearchResponse struct {
	Hits    []Hit
	Answers []string
}
