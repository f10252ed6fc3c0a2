package planner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess         = "success"
	OutcomeDegraded        = "degraded"
	OutcomeValidationError = "validation_error"
	OutcomeTimeout         = "timeout"
	OutcomeCanceled        = "canceled"
)

// Metrics is safe to use as a nil pointer, in which case nothing is recorded.
type Metrics struct {
	runs         *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	stepFailures *prometheus.CounterVec
}

// NewMetrics registers the planner collectors with reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trip_planner_runs_total",
			Help: "Planning runs by outcome.",
		}, []string{"outcome"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trip_planner_step_duration_seconds",
			Help:    "Wall time spent in each planning step.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"step"}),
		stepFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trip_planner_step_failures_total",
			Help: "Planning steps that recorded at least one error.",
		}, []string{"step"}),
	}
	reg.MustRegister(m.runs, m.stepDuration, m.stepFailures)
	return m
}

func (m *Metrics) observeRun(outcome string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeStep(step string, d time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.stepDuration.WithLabelValues(step).Observe(d.Seconds())
	if failed {
		m.stepFailures.WithLabelValues(step).Inc()
	}
}
