// Package chi exposes the retriever over HTTP with a go-chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchretriever/internal/domain"
	logpkg "github.com/kailas-cloud/searchretriever/internal/logger"
	"github.com/kailas-cloud/searchretriever/internal/metrics"
	healthuc "github.com/kailas-cloud/searchretriever/internal/usecase/health"
)

// OutcomeHeader carries the internal retrieval outcome as a diagnostic.
const OutcomeHeader = "X-Retrieval-Outcome"

// EmbeddingTokensHeader reports the tokens spent on query embedding. It is
// set only when the query was embedded client-side, cache hits included.
const EmbeddingTokensHeader = "X-Embedding-Tokens"

const maxBodyBytes = 64 << 10

// Retriever is the retrieval use case as seen by the HTTP layer.
type Retriever interface {
	Lookup(ctx context.Context, query string) (domain.ResultSet, domain.Outcome, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// RetrieveRequest is the body of POST /retrieve.
type RetrieveRequest struct {
	Query *string `json:"query"`
}

// RetrieveResponse is the body of a successful POST /retrieve.
type RetrieveResponse struct {
	Results domain.ResultSet `json:"results"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// Server holds the HTTP handlers.
type Server struct {
	retriever Retriever
	health    HealthChecker
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(retriever Retriever, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{
		retriever: retriever,
		health:    health,
		logger:    logger,
	}
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(APIKeyAuth(apiKeys))
	r.Use(metrics.Middleware())

	r.Post("/retrieve", s.Retrieve)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
	return r
}

// Retrieve handles POST /retrieve. Any decoded query yields 200 with at least one record.
func (s *Server) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req RetrieveRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "query is required")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	rs, outcome, err := s.retriever.Lookup(ctx, *req.Query)
	logpkg.FromContextOr(r.Context(), s.logger).Info("returning results",
		zap.Int("count", len(rs)),
		zap.String("outcome", string(outcome)),
		zap.NamedError("cause", err),
	)

	w.Header().Set(OutcomeHeader, string(outcome))
	if usage.Used {
		w.Header().Set(EmbeddingTokensHeader, strconv.Itoa(usage.TotalTokens))
	}
	writeJSON(w, http.StatusOK, RetrieveResponse{Results: rs})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: report.Status,
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics.Handler().ServeHTTP(w, r)
}
