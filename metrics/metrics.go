// Package metrics exposes batch stripping counters through Prometheus.
//
// Collectors live on a private registry so that concurrent runs in one process
// (tests, embedding callers) never collide, and so a batch run can dump them
// to a node-exporter textfile when it finishes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the stripping collectors. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	reg *prometheus.Registry

	TenorSolves    *prometheus.CounterVec
	SolverIters    prometheus.Histogram
	Units          *prometheus.CounterVec
	Skips          *prometheus.CounterVec
	DateDuration   prometheus.Histogram
	RejectedInputs *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		reg: reg,
		TenorSolves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hazard_tenor_solves_total",
				Help: "Tenor hazard rates produced, by origin (solved or imputed)",
			},
			[]string{"origin"},
		),
		SolverIters: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hazard_solver_iterations",
				Help:    "Newton/bisection iterations per solved tenor",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21, 34, 55, 100},
			},
		),
		Units: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hazard_units_total",
				Help: "Issuer/date stripping units by status",
			},
			[]string{"status"},
		),
		Skips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hazard_skips_total",
				Help: "Skipped units by error kind",
			},
			[]string{"kind"},
		),
		DateDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hazard_date_duration_seconds",
				Help:    "Wall time to strip every issuer of one date",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
		RejectedInputs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hazard_rejected_rows_total",
				Help: "Input rows rejected while parsing",
			},
			[]string{"source"},
		),
	}
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// ObserveTenor records one reported tenor hazard.
func (r *Recorder) ObserveTenor(iterations int, imputed bool) {
	if r == nil {
		return
	}
	if imputed {
		r.TenorSolves.WithLabelValues("imputed").Inc()
		return
	}
	r.TenorSolves.WithLabelValues("solved").Inc()
	r.SolverIters.Observe(float64(iterations))
}

// Unit records the outcome of one issuer/date unit: "ok", "skipped" or "failed".
func (r *Recorder) Unit(status string) {
	if r == nil {
		return
	}
	r.Units.WithLabelValues(status).Inc()
}

// Skip records a skipped unit by error kind.
func (r *Recorder) Skip(kind string) {
	if r == nil {
		return
	}
	r.Skips.WithLabelValues(kind).Inc()
}

// Rejected records n rejected input rows from source ("cds" or "zero").
func (r *Recorder) Rejected(source string, n int) {
	if r == nil || n == 0 {
		return
	}
	r.RejectedInputs.WithLabelValues(source).Add(float64(n))
}

// ObserveDate records the time spent on one date.
func (r *Recorder) ObserveDate(d time.Duration) {
	if r == nil {
		return
	}
	r.DateDuration.Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
