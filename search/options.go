// SPDX-License-Identifier: MIT
package search

import (
	"fmt"
	"log/slog"
	"runtime"
)

const (
	// DefaultProgressRate caps progress reports per second.
	DefaultProgressRate = 10.0

	// DefaultProgressEvery is the per-task expansion interval between
	// progress samples. Must be a power of two.
	DefaultProgressEvery uint32 = 1024

	// maxDerivedDepth caps the spawn depth picked by SpawnDepthFor.
	maxDerivedDepth = 3

	// tasksPerWorker is the oversubscription SpawnDepthFor aims for so that
	// uneven subtrees still keep every worker busy.
	tasksPerWorker = 4
)

// Option configures Run.
type Option func(*Options)

// Options holds the knobs of one search run.
type Options struct {
	// Policy selects the task decomposition. Default Sequential.
	Policy Policy

	// Workers is the parallelism budget: pool size for WorkerPool, loop
	// width for FanOut, and the input of SpawnDepthFor. Default GOMAXPROCS.
	Workers int

	// MaxSpawnDepth is the depth below which DepthBounded spawns and FanOut
	// runs parallel loops. 0 derives it with SpawnDepthFor.
	MaxSpawnDepth int

	// MaxTasks, if positive, fails the run with ErrResourceExhaustion as soon
	// as Unbounded or DepthBounded would create more tasks. 0 means no limit.
	MaxTasks int

	// Order selects the branching order. Default IndexOrder.
	Order Ordering

	// GreedySeed seeds the bound with a nearest-neighbour walk before searching.
	GreedySeed bool

	// TrackPath records one optimal path in Result.Path.
	TrackPath bool

	// Reporter, if non-nil, receives rate-limited progress snapshots.
	Reporter Reporter

	// ProgressRate is the maximum number of reports per second.
	ProgressRate float64

	// ProgressEvery is the sampling interval in expansions (power of two).
	ProgressEvery uint32

	// Logger receives run-level debug and warning records. Default discards.
	Logger *slog.Logger
}

// DefaultOptions returns:
//   - Sequential policy, IndexOrder
//   - Workers = runtime.GOMAXPROCS(0), derived spawn depth, no task limit
//   - no seed, no path tracking, no reporter
//   - 10 reports/s sampled every 1024 expansions
//   - a discarding logger
func DefaultOptions() Options {
	return Options{
		Policy:        Sequential,
		Workers:       runtime.GOMAXPROCS(0),
		MaxSpawnDepth: 0,
		MaxTasks:      0,
		Order:         IndexOrder,
		ProgressRate:  DefaultProgressRate,
		ProgressEvery: DefaultProgressEvery,
		Logger:        slog.New(slog.DiscardHandler),
	}
}

// WithPolicy sets the scheduling policy.
func WithPolicy(p Policy) Option {
	return func(o *Options) { o.Policy = p }
}

// WithWorkers sets the parallelism budget.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithMaxSpawnDepth sets the spawn/fan-out depth threshold (0 derives it).
func WithMaxSpawnDepth(d int) Option {
	return func(o *Options) { o.MaxSpawnDepth = d }
}

// WithMaxTasks sets the task limit (0 disables it).
func WithMaxTasks(n int) Option {
	return func(o *Options) { o.MaxTasks = n }
}

// WithOrdering sets the branching order.
func WithOrdering(ord Ordering) Option {
	return func(o *Options) { o.Order = ord }
}

// WithGreedySeed enables the nearest-neighbour initial bound.
func WithGreedySeed() Option {
	return func(o *Options) { o.GreedySeed = true }
}

// WithPathTracking makes Run return one optimal path.
func WithPathTracking() Option {
	return func(o *Options) { o.TrackPath = true }
}

// WithReporter installs a progress reporter.
func WithReporter(r Reporter) Option {
	return func(o *Options) { o.Reporter = r }
}

// WithProgressRate sets the maximum reports per second.
func WithProgressRate(perSecond float64) Option {
	return func(o *Options) { o.ProgressRate = perSecond }
}

// WithProgressEvery sets the sampling interval in expansions.
func WithProgressEvery(n uint32) Option {
	return func(o *Options) { o.ProgressEvery = n }
}

// WithLogger sets the run logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// validate checks option domains; it does not look at the graph.
func (o Options) validate() error {
	switch {
	case int(o.Policy) >= len(policyNames):
		return fmt.Errorf("policy %d: %w", o.Policy, ErrInvalidOptions)
	case o.Workers < 1:
		return fmt.Errorf("workers=%d < 1: %w", o.Workers, ErrInvalidOptions)
	case o.MaxSpawnDepth < 0:
		return fmt.Errorf("max spawn depth=%d < 0: %w", o.MaxSpawnDepth, ErrInvalidOptions)
	case o.MaxTasks < 0:
		return fmt.Errorf("max tasks=%d < 0: %w", o.MaxTasks, ErrInvalidOptions)
	case o.Order > CheapestFirst:
		return fmt.Errorf("ordering %d: %w", o.Order, ErrInvalidOptions)
	case o.ProgressRate <= 0:
		return fmt.Errorf("progress rate=%g <= 0: %w", o.ProgressRate, ErrInvalidOptions)
	case o.ProgressEvery == 0 || o.ProgressEvery&(o.ProgressEvery-1) != 0:
		return fmt.Errorf("progress interval=%d is not a power of two: %w", o.ProgressEvery, ErrInvalidOptions)
	}

	return nil
}

// SpawnDepthFor returns the smallest depth D ≥ 1 for which branching^D
// reaches tasksPerWorker·workers, capped at 3. Deeper spawning buys no
// extra balance and multiplies goroutine overhead.
func SpawnDepthFor(branching, workers int) int {
	if branching <= 1 || workers <= 1 {
		return 1
	}
	target := tasksPerWorker * workers
	d, width := 1, branching
	for width < target && d < maxDerivedDepth {
		d++
		width *= branching
	}

	return d
}
