// Package metrics defines the Prometheus collectors for percolation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Query evaluation outcomes used as label values.
const (
	OutcomeSkipped     = "skipped"
	OutcomeHighlighted = "highlighted"
	OutcomeFallback    = "fallback"
	OutcomeError       = "error"
)

// Collector holds the Prometheus collectors for one monitor.
type Collector struct {
	RunsTotal        prometheus.Counter
	QueriesEvaluated *prometheus.CounterVec
	MatchesEmitted   prometheus.Counter
	RunDuration      prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "percolation_runs_total",
			Help: "Total number of document batches matched against the stored queries.",
		}),
		QueriesEvaluated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "percolation_queries_evaluated_total",
				Help: "Stored query evaluations by outcome (skipped, highlighted, fallback, error).",
			},
			[]string{"outcome"},
		),
		MatchesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "percolation_matches_emitted_total",
			Help: "Total number of (query, document) match records emitted.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "percolation_run_duration_seconds",
			Help:    "Latency of matching one document batch against all stored queries.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
	reg.MustRegister(c.RunsTotal, c.QueriesEvaluated, c.MatchesEmitted, c.RunDuration)
	return c
}

// RecordRun records the aggregate result of one percolation run.
func (c *Collector) RecordRun(matchCount int, took time.Duration) {
	c.RunsTotal.Inc()
	c.MatchesEmitted.Add(float64(matchCount))
	c.RunDuration.Observe(took.Seconds())
}

// RecordOutcome counts one stored query evaluation.
func (c *Collector) RecordOutcome(outcome string) {
	c.QueriesEvaluated.WithLabelValues(outcome).Inc()
}
