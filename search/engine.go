// SPDX-License-Identifier: MIT
package search

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/katalvlaran/pathbnb/costgraph"
)

// run is the context of one search. It is built inside Run and dropped when
// Run returns; nothing in it outlives or is shared between runs.
type run struct {
	g      *costgraph.Graph
	source int
	sink   int
	opts   Options
	log    *slog.Logger

	best  BestDistance
	paths *pathRecorder // nil unless TrackPath
	order [][]int       // order[u]: traversable successors of u in branching order

	visited atomic.Int64
	pruned  atomic.Int64
	tasks   atomic.Int64

	progress *sampler // nil without a reporter
}

// Run searches g for the cheapest simple path from source to sink.
//
// Steps:
//  1. Validate the graph, the endpoints and the options (fail fast).
//  2. Build a fresh run context (best = not found, counters = 0).
//  3. Launch the root expansion under the selected policy.
//  4. Join every task the policy created.
//  5. Translate the final best into Result.
//
// A missing path yields Result{Found: false} and a nil error.
func Run(g *costgraph.Graph, source, sink int, opts ...Option) (Result, error) {
	// 1. Validate.
	if g == nil {
		return Result{}, ErrGraphNil
	}
	n := g.N()
	if source < 0 || source >= n || sink < 0 || sink >= n {
		return Result{}, fmt.Errorf("source=%d sink=%d n=%d: %w", source, sink, n, ErrInvalidInput)
	}
	if source == sink {
		return Result{}, fmt.Errorf("source == sink == %d: %w", source, ErrInvalidInput)
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return Result{}, err
	}
	if o.MaxSpawnDepth == 0 {
		o.MaxSpawnDepth = SpawnDepthFor(n-1, o.Workers)
	}

	// 2. Fresh context.
	r := newRun(g, source, sink, o)
	r.log.Debug("search started",
		slog.String("policy", o.Policy.String()),
		slog.Int("n", n),
		slog.Int("source", source),
		slog.Int("sink", sink),
		slog.Int("workers", o.Workers),
		slog.Int("spawn_depth", o.MaxSpawnDepth),
	)

	// 3-4. Launch and join.
	start := time.Now()
	if o.GreedySeed {
		r.seedGreedy()
	}
	workers, err := schedulerFor(o.Policy).start(r, newRootState(n, source, o.TrackPath))
	elapsed := time.Since(start)
	if err != nil {
		r.log.Warn("search failed", slog.String("policy", o.Policy.String()), slog.Any("error", err))
		return Result{}, err
	}

	// 5. Result.
	res := Result{
		Stats: Stats{
			Policy:     o.Policy,
			Visited:    r.visited.Load(),
			Pruned:     r.pruned.Load(),
			Tasks:      r.tasks.Load(),
			Workers:    workers,
			SpawnDepth: o.MaxSpawnDepth,
			Elapsed:    elapsed,
		},
	}
	res.Distance, res.Found = r.best.Snapshot()
	if res.Found && r.paths != nil {
		res.Path = r.paths.result()
	}
	r.log.Debug("search finished",
		slog.String("policy", o.Policy.String()),
		slog.String("result", res.String()),
		slog.Int64("visited", res.Stats.Visited),
		slog.Int64("pruned", res.Stats.Pruned),
		slog.Int64("tasks", res.Stats.Tasks),
		slog.Duration("elapsed", elapsed),
	)

	return res, nil
}

// newRun wires the per-run context for validated inputs.
func newRun(g *costgraph.Graph, source, sink int, o Options) *run {
	r := &run{
		g:      g,
		source: source,
		sink:   sink,
		opts:   o,
		log:    o.Logger,
		order:  buildOrder(g, o.Order),
	}
	if o.Policy == FanOut {
		r.best = NewLockedBest()
	} else {
		r.best = NewAtomicBest()
	}
	if o.TrackPath {
		r.paths = &pathRecorder{}
	}
	if o.Reporter != nil {
		r.progress = newSampler(o.Reporter, o.ProgressRate, o.ProgressEvery)
	}

	return r
}

// tally is a task-local counter block, flushed into the run once per task.
type tally struct {
	visited int64
	pruned  int64
	steps   uint32
}

// flush adds the task's counts to the shared totals.
func (r *run) flush(t *tally) {
	r.visited.Add(t.visited)
	r.pruned.Add(t.pruned)
	t.visited, t.pruned = 0, 0
}

// admit applies the per-vertex checks that precede expansion: a branch on
// the sink is offered as a candidate and ends; a branch that cannot beat the
// current best is pruned. It reports whether s should be expanded.
func (r *run) admit(s *state, t *tally) bool {
	if s.node == r.sink {
		r.improve(s)
		return false
	}
	if best, ok := r.best.Snapshot(); ok && s.dist >= best {
		t.pruned++
		return false
	}
	t.visited++
	if r.progress != nil {
		r.progress.sample(r, s, t)
	}

	return true
}

// improve offers a complete path to the shared bound.
func (r *run) improve(s *state) {
	if r.best.TryImprove(s.dist) && r.paths != nil {
		r.paths.offer(s.dist, s.path)
	}
}

// reserveTask counts a new concurrent task against Options.MaxTasks.
func (r *run) reserveTask() error {
	n := r.tasks.Add(1)
	if r.opts.MaxTasks > 0 && n > int64(r.opts.MaxTasks) {
		r.tasks.Add(-1)
		return fmt.Errorf("policy %s needs task %d, limit %d: %w",
			r.opts.Policy, n, r.opts.MaxTasks, ErrResourceExhaustion)
	}

	return nil
}

// seedGreedy walks from source to the cheapest unvisited successor until it
// reaches the sink or gets stuck. A completed walk is a real path, so its
// cost is a safe initial bound.
func (r *run) seedGreedy() {
	n := r.g.N()
	visited := make([]bool, n)
	visited[r.source] = true
	path := []int{r.source}
	u, dist := r.source, int64(0)
	for u != r.sink {
		next, cost := -1, int64(0)
		for v := 0; v < n; v++ {
			c, ok := r.g.Cost(u, v)
			if !ok || visited[v] {
				continue
			}
			if next < 0 || c < cost {
				next, cost = v, c
			}
		}
		if next < 0 {
			return
		}
		visited[next] = true
		path = append(path, next)
		u, dist = next, dist+cost
	}
	if r.best.TryImprove(dist) && r.paths != nil {
		r.paths.offer(dist, path)
	}
	r.log.Debug("greedy bound seeded", slog.Int64("distance", dist))
}
