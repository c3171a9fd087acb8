// Package health aggregates component probes into one readiness report.
package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status is the aggregated verdict.
type Status string

const (
	Healthy   Status = "ok"
	Degraded  Status = "degraded" // an optional component failed
	Unhealthy Status = "error"    // the search index is unreachable
)

// CheckResult is one component's verdict.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Component names used as Report.Checks keys.
const (
	ComponentSearch    = "search"
	ComponentEmbedding = "embedding"
	ComponentCache     = "cache"
)

// ProbeTimeout bounds each probe independently of the caller's deadline.
const ProbeTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type probe struct {
	name string
	run  func(ctx context.Context) error
}

// Service runs the probes concurrently.
type Service struct {
	probes []probe
	logger *zap.Logger
}

// New creates a Service. embedding and cache can be nil, in which case
// they are left out of the report.
func New(search IndexCounter, embedding EmbeddingChecker, cache CachePinger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{logger: logger}
	s.probes = append(s.probes, probe{ComponentSearch, func(ctx context.Context) error {
		_, err := search.Count(ctx)
		return err //nolint:wrapcheck // logged by Check
	}})
	if embedding != nil {
		s.probes = append(s.probes, probe{ComponentEmbedding, embedding.HealthCheck})
	}
	if cache != nil {
		s.probes = append(s.probes, probe{ComponentCache, cache.Ping})
	}
	return s
}

// Check runs every probe and folds the results. A failed search probe is
// Unhealthy; any other failure is Degraded.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult, len(s.probes))
	)

	// Probes never return an error to the group so one failure does not
	// cancel the others.
	var g errgroup.Group
	for _, p := range s.probes {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
			defer cancel()

			res := CheckOK
			if err := p.run(pctx); err != nil {
				s.logger.Warn("health probe failed", zap.String("component", p.name), zap.Error(err))
				res = CheckError
			}
			mu.Lock()
			checks[p.name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
		}
	}
	if checks[ComponentSearch] == CheckError {
		status = Unhealthy
	}
	return Report{Status: status, Checks: checks}
}
