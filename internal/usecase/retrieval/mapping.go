package retrieval

import "github.com/kailas-cloud/searchretriever/internal/domain"

// toResultSet maps hits in upstream order, keeping at most top of them.
func toResultSet(hits []domain.Hit, top int) domain.ResultSet {
	if top > 0 && len(hits) > top {
		hits = hits[:top]
	}
	rs := make(domain.ResultSet, 0, len(hits))
	for _, h := range hits {
		rs = append(rs, toRecord(h))
	}
	return rs
}

// toRecord never fails: absent fields stay "" and absent scores stay 0.
func toRecord(h domain.Hit) domain.Record {
	return domain.Record{
		Source:           domain.SourceAzureSearch,
		DocumentTitle:    h.Field(domain.KeyDocumentTitle),
		ContentText:      h.Field(domain.KeyContentText),
		ContentPath:      h.Field(domain.KeyContentPath),
		LocationMetadata: h.Field(domain.KeyLocation),
		Score:            h.Score,
		RerankerScore:    h.RerankerScore,
	}
}
