// SPDX-License-Identifier: MIT

// Package bench runs the size sweep that compares scheduling policies.
//
// For every size in [MinSize, MaxSize] the Runner builds one random graph
// (seed derived from the batch seed and the size), runs the sequential
// baseline, then each configured policy on the same graph. Every run is an
// independent search.Run call; nothing is shared between them.
package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/pathbnb/costgraph"
	"github.com/katalvlaran/pathbnb/internal/config"
	"github.com/katalvlaran/pathbnb/internal/metrics"
	"github.com/katalvlaran/pathbnb/internal/progress"
	"github.com/katalvlaran/pathbnb/search"
)

// ErrMismatch is returned when a concurrent policy disagrees with the
// sequential baseline, or the baseline with Dijkstra distances.
var ErrMismatch = errors.New("bench: result differs from sequential baseline")

// Record is one row of the batch output.
type Record struct {
	RunID       string
	Size        int
	Mode        search.Policy
	Found       bool
	MinDistance int64 // meaningful only when Found
	Elapsed     time.Duration
	Visited     int64
	Pruned      int64
	Threads     int64   // concurrent tasks created; 0 for the baseline
	Workers     int     // concurrency bound in effect
	Speedup     float64 // baseline time / this time; 0 for the baseline
}

// Baseline reports whether r is the sequential reference row.
func (r Record) Baseline() bool { return r.Mode == search.Sequential }

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger sets the logger; nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics records every run on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithTracerProvider takes spans from tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runner) { r.tracer = tp.Tracer(tracerName) }
}

// WithRunID overrides the generated batch id.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// WithRecordHook calls fn with every record as soon as it is produced.
func WithRecordHook(fn func(Record)) Option {
	return func(r *Runner) { r.hook = fn }
}

const tracerName = "github.com/katalvlaran/pathbnb/internal/bench"

// Runner executes one batch.
type Runner struct {
	cfg      config.Config
	policies []search.Policy
	log      *slog.Logger
	metrics  *metrics.Recorder
	tracer   trace.Tracer
	runID    string
	hook     func(Record)
}

// NewRunner validates cfg and prepares a batch.
func NewRunner(cfg config.Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policies, err := cfg.SearchPolicies()
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:      cfg,
		policies: policies,
		log:      slog.New(slog.DiscardHandler),
		tracer:   otel.Tracer(tracerName),
		runID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// RunID returns the batch id stamped on every record.
func (r *Runner) RunID() string { return r.runID }

// Graph builds the graph used for size n.
func (r *Runner) Graph(n int) (*costgraph.Graph, error) {
	return costgraph.Random(n,
		costgraph.WithSeed(costgraph.DeriveSeed(r.cfg.Seed, uint64(n))),
		costgraph.WithCostRange(r.cfg.MinCost, r.cfg.MaxCost),
		costgraph.WithUnreachableRatio(r.cfg.UnreachableRatio),
	)
}

// Run executes the sweep. On error it returns the records produced so far.
// Cancellation of ctx is checked between runs; a run in progress finishes.
func (r *Runner) Run(ctx context.Context) ([]Record, error) {
	ctx, span := r.tracer.Start(ctx, "bench.Run",
		trace.WithAttributes(
			attribute.String("run_id", r.runID),
			attribute.Int("min_size", r.cfg.MinSize),
			attribute.Int("max_size", r.cfg.MaxSize),
			attribute.Int("policies", len(r.policies)),
		),
	)
	defer span.End()

	r.log.Info("batch started",
		slog.String("run_id", r.runID),
		slog.Int("min_size", r.cfg.MinSize),
		slog.Int("max_size", r.cfg.MaxSize),
		slog.Int("policies", len(r.policies)),
	)

	records := make([]Record, 0, (r.cfg.MaxSize-r.cfg.MinSize+1)*(len(r.policies)+1))
	for n := r.cfg.MinSize; n <= r.cfg.MaxSize; n++ {
		recs, err := r.runSize(ctx, n)
		records = append(records, recs...)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return records, err
		}
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	span.SetStatus(codes.Ok, "")
	r.log.Info("batch finished", slog.String("run_id", r.runID), slog.Int("records", len(records)))

	return records, nil
}

// runSize runs the baseline and every policy on the graph of size n.
func (r *Runner) runSize(ctx context.Context, n int) ([]Record, error) {
	g, err := r.Graph(n)
	if err != nil {
		return nil, fmt.Errorf("bench: size %d: %w", n, err)
	}
	source, sink := r.cfg.Source, r.cfg.SinkFor(n)

	base, err := r.trial(ctx, g, source, sink, search.Sequential)
	if err != nil {
		return nil, err
	}
	if r.cfg.Verify {
		if err = verify(g, source, sink, base); err != nil {
			return nil, err
		}
	}
	records := []Record{r.record(n, base, 0)}

	for _, p := range r.policies {
		res, err := r.trial(ctx, g, source, sink, p)
		if err != nil {
			return records, err
		}
		if res.Found != base.Found || res.Distance != base.Distance {
			return records, fmt.Errorf("bench: size %d %s got %s want %s: %w",
				n, p, res, base, ErrMismatch)
		}

		speedup := ratio(base.Stats.Elapsed, res.Stats.Elapsed)
		if r.metrics != nil {
			r.metrics.ObserveSpeedup(n, p, speedup)
		}
		records = append(records, r.record(n, res, speedup))
	}

	return records, nil
}

// trial performs one engine run inside its own span.
func (r *Runner) trial(ctx context.Context, g *costgraph.Graph, source, sink int, p search.Policy) (search.Result, error) {
	if err := ctx.Err(); err != nil {
		return search.Result{}, fmt.Errorf("bench: size %d %s: %w", g.N(), p, err)
	}

	_, span := r.tracer.Start(ctx, "bench.trial",
		trace.WithAttributes(
			attribute.String("run_id", r.runID),
			attribute.Int("size", g.N()),
			attribute.String("policy", p.String()),
		),
	)
	defer span.End()

	opts := append(r.cfg.SearchOptions(),
		search.WithPolicy(p),
		search.WithLogger(r.log),
	)
	if r.cfg.Progress {
		opts = append(opts, search.WithReporter(progress.NewLogReporter(r.log,
			"run_id", r.runID, "size", g.N(), "policy", p.String())))
	}

	res, err := search.Run(g, source, sink, opts...)
	if r.metrics != nil {
		res.Stats.Policy = p
		r.metrics.ObserveRun(g.N(), res, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.log.Warn("run failed", slog.Int("size", g.N()), slog.String("policy", p.String()), slog.Any("error", err))
		return res, fmt.Errorf("bench: size %d %s: %w", g.N(), p, err)
	}

	span.SetAttributes(
		attribute.Bool("found", res.Found),
		attribute.Int64("distance", res.Distance),
		attribute.Int64("visited", res.Stats.Visited),
		attribute.Int64("pruned", res.Stats.Pruned),
		attribute.Int64("tasks", res.Stats.Tasks),
	)
	span.SetStatus(codes.Ok, "")
	r.log.Debug("run finished",
		slog.Int("size", g.N()),
		slog.String("policy", p.String()),
		slog.String("result", res.String()),
		slog.Duration("elapsed", res.Stats.Elapsed),
	)

	return res, nil
}

func (r *Runner) record(n int, res search.Result, speedup float64) Record {
	rec := Record{
		RunID:       r.runID,
		Size:        n,
		Mode:        res.Stats.Policy,
		Found:       res.Found,
		MinDistance: res.Distance,
		Elapsed:     res.Stats.Elapsed,
		Visited:     res.Stats.Visited,
		Pruned:      res.Stats.Pruned,
		Threads:     res.Stats.Tasks,
		Workers:     res.Stats.Workers,
		Speedup:     speedup,
	}
	if r.hook != nil {
		r.hook(rec)
	}

	return rec
}

// verify compares res with Dijkstra distances on g.
func verify(g *costgraph.Graph, source, sink int, res search.Result) error {
	dist, err := costgraph.Distances(g, source)
	if err != nil {
		return fmt.Errorf("bench: verify size %d: %w", g.N(), err)
	}
	want, found := dist[sink], dist[sink] != costgraph.Unreachable
	if res.Found != found || (found && res.Distance != want) {
		return fmt.Errorf("bench: size %d sequential got %s, shortest distance %d: %w",
			g.N(), res, want, ErrMismatch)
	}

	return nil
}

// ratio returns base/d, or 0 when d is not positive.
func ratio(base, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}

	return float64(base) / float64(d)
}
