package searchretriever

import "github.com/kailas-cloud/searchretriever/internal/domain"

// Record keys in Record.Map and the JSON encoding.
const (
	KeySource        = domain.KeySource
	KeyDocumentTitle = domain.KeyDocumentTitle
	KeyContentText   = domain.KeyContentText
	KeyContentPath   = domain.KeyContentPath
	KeyLocation      = domain.KeyLocation
	KeyScore         = domain.KeyScore
	KeyRerankerScore = domain.KeyRerankerScore
	KeyMessage       = domain.KeyMessage
	KeyQuery         = domain.KeyQuery
)

// Source labels.
const (
	SourceAzureSearch = domain.SourceAzureSearch
	SourceNoResults   = domain.SourceNoResults
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check the error returned by Lookup.
var (
	ErrNoResults              = domain.ErrNoResults
	ErrSearchFailed           = domain.ErrSearchFailed
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
