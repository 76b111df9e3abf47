// SPDX-License-Identifier: MIT

// Package metrics records batch results as Prometheus metrics.
//
// The CLI is short-lived, so metrics are written to a node-exporter
// textfile at the end of a batch rather than served over HTTP.
package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/pathbnb/search"
)

const (
	namespace = "pathbnb"
	subsystem = "search"
)

// Result label values.
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Recorder owns a private registry and the search metrics registered on it.
type Recorder struct {
	reg *prometheus.Registry

	// runs counts engine runs.
	// Labels: policy, result (found, not_found, error)
	runs *prometheus.CounterVec

	// duration measures wall-clock time per run.
	// Labels: policy
	duration *prometheus.HistogramVec

	// visited and pruned accumulate node expansions and pruned branches.
	// Labels: policy
	visited *prometheus.CounterVec
	pruned  *prometheus.CounterVec

	// best holds the last minimum distance per graph size.
	// Labels: size
	best *prometheus.GaugeVec

	// speedup holds the last speedup over the sequential baseline.
	// Labels: size, policy
	speedup *prometheus.GaugeVec
}

// New returns a Recorder with all metrics registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Total engine runs by policy and outcome",
		}, []string{"policy", "result"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "Engine run wall-clock time in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"policy"}),
		visited: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "visited_total",
			Help:      "Total node expansions",
		}, []string{"policy"}),
		pruned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pruned_total",
			Help:      "Total branches cut by the shared bound",
		}, []string{"policy"}),
		best: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "min_distance",
			Help:      "Minimum source-to-sink distance of the last run per size",
		}, []string{"size"}),
		speedup: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "speedup_ratio",
			Help:      "Sequential time divided by policy time",
		}, []string{"size", "policy"}),
	}
}

// Registry exposes the underlying registry.
func (m *Recorder) Registry() *prometheus.Registry { return m.reg }

// ObserveRun records a finished engine run on a graph of the given size.
// A non-nil err counts as an error outcome and records nothing else.
func (m *Recorder) ObserveRun(size int, res search.Result, err error) {
	policy := res.Stats.Policy.String()
	if err != nil {
		m.runs.WithLabelValues(policy, ResultError).Inc()
		return
	}

	outcome := ResultNotFound
	if res.Found {
		outcome = ResultFound
		m.best.WithLabelValues(strconv.Itoa(size)).Set(float64(res.Distance))
	}
	m.runs.WithLabelValues(policy, outcome).Inc()
	m.duration.WithLabelValues(policy).Observe(res.Stats.Elapsed.Seconds())
	m.visited.WithLabelValues(policy).Add(float64(res.Stats.Visited))
	m.pruned.WithLabelValues(policy).Add(float64(res.Stats.Pruned))
}

// ObserveSpeedup records a speedup ratio for a concurrent policy.
func (m *Recorder) ObserveSpeedup(size int, policy search.Policy, ratio float64) {
	m.speedup.WithLabelValues(strconv.Itoa(size), policy.String()).Set(ratio)
}

// WriteTextfile writes every metric in text exposition format to path,
// atomically replacing any previous file.
func (m *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return errors.New("metrics: empty textfile path")
	}

	return prometheus.WriteToTextfile(path, m.reg)
}
