package langchain

import (
	"context"

	"github.com/tmc/langchaingo/schema"

	"github.com/kailas-cloud/searchretriever/internal/domain"
)

// DocumentRetriever implements schema.Retriever. The sentinel record maps to
// an empty document list, which is how retriever chains expect "nothing found".
type DocumentRetriever struct {
	retriever Retriever
}

var _ schema.Retriever = (*DocumentRetriever)(nil)

// NewDocumentRetriever wraps r as a langchaingo retriever.
func NewDocumentRetriever(r Retriever) *DocumentRetriever {
	return &DocumentRetriever{retriever: r}
}

// GetRelevantDocuments implements schema.Retriever. It never returns an error.
func (d *DocumentRetriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	rs := d.retriever.Retrieve(ctx, query)
	if rs.IsEmpty() {
		return []schema.Document{}, nil
	}

	docs := make([]schema.Document, 0, len(rs))
	for _, r := range rs {
		docs = append(docs, toDocument(r))
	}
	return docs, nil
}

func toDocument(r domain.Record) schema.Document {
	score := r.RerankerScore
	if score == 0 {
		score = r.Score
	}
	return schema.Document{
		PageContent: r.ContentText,
		Metadata: map[string]any{
			domain.KeySource:        r.Source,
			domain.KeyDocumentTitle: r.DocumentTitle,
			domain.KeyContentPath:   r.ContentPath,
			domain.KeyLocation:      r.LocationMetadata,
			domain.KeyScore:         r.Score,
			domain.KeyRerankerScore: r.RerankerScore,
		},
		Score: float32(score),
	}
}
