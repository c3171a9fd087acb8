package retrieval

// Query shape defaults.
const (
	DefaultVectorField    = "content_embedding"
	DefaultSemanticConfig = "semanticconfig"
	DefaultTop            = 2
	DefaultK              = 2
)

// DefaultSelect lists the index fields copied into every record.
var DefaultSelect = []string{"document_title", "content_text", "content_path", "locationMetadata"}

// QueryOptions fixes the shape of every query the service issues.
type QueryOptions struct {
	VectorField    string
	K              int
	Exhaustive     bool
	Select         []string
	SemanticConfig string
	Top            int
}

// DefaultQueryOptions returns the stock query shape: two exhaustive nearest
// neighbours over content_embedding, semantic reranking, top two hits.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		VectorField:    DefaultVectorField,
		K:              DefaultK,
		Exhaustive:     true,
		Select:         append([]string(nil), DefaultSelect...),
		SemanticConfig: DefaultSemanticConfig,
		Top:            DefaultTop,
	}
}

// withDefaults fills zero fields from DefaultQueryOptions.
func (o QueryOptions) withDefaults() QueryOptions {
	d := DefaultQueryOptions()
	if o.VectorField == "" {
		o.VectorField = d.VectorField
	}
	if o.K <= 0 {
		o.K = d.K
	}
	if len(o.Select) == 0 {
		o.Select = d.Select
	}
	if o.SemanticConfig == "" {
		o.SemanticConfig = d.SemanticConfig
	}
	if o.Top <= 0 {
		o.Top = d.Top
	}
	return o
}
