package searchretriever

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchretriever/internal/domain"
)

// callMetrics are registered on the caller's registry by WithPrometheus.
// They sit beside the process-wide series in internal/metrics and only
// count calls made through this package.
type callMetrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
	records prometheus.Histogram
}

func registerCallMetrics(reg prometheus.Registerer) (*callMetrics, error) {
	m := &callMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "searchretriever",
			Subsystem: "sdk",
			Name:      "calls_total",
			Help:      "SDK calls by method and outcome.",
		}, []string{"method", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "searchretriever",
			Subsystem: "sdk",
			Name:      "call_duration_seconds",
			Help:      "SDK call latency by method.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5, 10},
		}, []string{"method"}),
		records: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "searchretriever",
			Subsystem: "sdk",
			Name:      "records_returned",
			Help:      "Real records per SDK call; sentinel answers count as zero.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25},
		}),
	}
	if err := adopt(reg, &m.calls); err != nil {
		return nil, err
	}
	if err := adopt(reg, &m.latency); err != nil {
		return nil, err
	}
	if err := adopt(reg, &m.records); err != nil {
		return nil, err
	}
	return m, nil
}

// adopt registers *c, or swaps in the collector already registered under
// the same descriptor so several Clients can share one registry.
func adopt[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("searchretriever: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("searchretriever: metric registered with type %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer records one line and one sample per SDK call. A nil observer is
// valid and does nothing.
type observer struct {
	logger  *zap.Logger
	metrics *callMetrics
}

func newObserver(logger *zap.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if reg == nil {
		return o, nil
	}
	m, err := registerCallMetrics(reg)
	if err != nil {
		return nil, err
	}
	o.metrics = m
	return o, nil
}

func (o *observer) observe(method string, start time.Time, rs domain.ResultSet, outcome domain.Outcome) {
	if o == nil {
		return
	}
	took := time.Since(start)
	n := 0
	if outcome == domain.OutcomeResults {
		n = len(rs)
	}

	if m := o.metrics; m != nil {
		m.calls.WithLabelValues(method, string(outcome)).Inc()
		m.latency.WithLabelValues(method).Observe(took.Seconds())
		m.records.Observe(float64(n))
	}

	fields := []zap.Field{
		zap.String("method", method),
		zap.String("outcome", string(outcome)),
		zap.Int("records", n),
		zap.Duration("took", took),
	}
	if outcome == domain.OutcomeFailed {
		o.logger.Warn("sdk call fell back to sentinel", fields...)
		return
	}
	o.logger.Debug("sdk call", fields...)
}
