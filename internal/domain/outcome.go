package domain

// Outcome classifies how a retrieval call ended. Callers of the uniform
// contract never see it; it feeds logs, metrics and diagnostics headers.
type Outcome string

const (
	// OutcomeResults means the upstream returned at least one hit.
	OutcomeResults Outcome = "results"
	// OutcomeEmpty means the upstream answered with zero hits.
	OutcomeEmpty Outcome = "empty"
	// OutcomeFailed means the upstream call itself failed.
	OutcomeFailed Outcome = "failed"
)
