package searchretriever

import (
	"context"

	healthuc "github.com/kailas-cloud/searchretriever/internal/usecase/health"
)

// Health component names.
const (
	ComponentSearch    = healthuc.ComponentSearch
	ComponentEmbedding = healthuc.ComponentEmbedding
	ComponentCache     = healthuc.ComponentCache
)

// HealthStatus is the outcome of Client.Health.
type HealthStatus struct {
	// Status is "ok", "degraded" (embedding or cache down) or "error"
	// (search index unreachable).
	Status string
	// Failed lists the components whose check failed.
	Failed []string
	// Checked lists every component that was checked.
	Checked []string
}

// OK reports whether every checked component answered.
func (h HealthStatus) OK() bool { return h.Status == string(healthuc.Healthy) }

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Health counts the documents in the index and, when client-side
// vectorization is on, checks the embedding deployment and the cache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)

	hs := HealthStatus{Status: string(report.Status)}
	for _, name := range []string{ComponentSearch, ComponentEmbedding, ComponentCache} {
		res, ok := report.Checks[name]
		if !ok {
			continue
		}
		hs.Checked = append(hs.Checked, name)
		if res != healthuc.CheckOK {
			hs.Failed = append(hs.Failed, name)
		}
	}
	return hs
}
