// SPDX-License-Identifier: MIT
package search

import (
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/pathbnb/internal/workpool"
)

// scheduler decomposes the search tree into tasks.
//
// start runs the search rooted at root and returns only after every task it
// created has been joined, so all of their updates to the run are visible to
// the caller. It returns the concurrency bound that was in effect.
type scheduler interface {
	start(r *run, root *state) (int, error)
}

func schedulerFor(p Policy) scheduler {
	switch p {
	case Unbounded:
		return spawnScheduler{unbounded: true}
	case DepthBounded:
		return spawnScheduler{}
	case WorkerPool:
		return poolScheduler{}
	case FanOut:
		return fanOutScheduler{}
	default:
		return sequentialScheduler{}
	}
}

// sequentialScheduler runs the whole tree on the calling goroutine.
type sequentialScheduler struct{}

func (sequentialScheduler) start(r *run, root *state) (int, error) {
	r.runInline(root)

	return 1, nil
}

// spawnScheduler creates one goroutine per branch while the branch is
// shallower than the limit and recurses inline below it. The unbounded
// variant uses limit 1: every edge out of the source becomes a task and the
// task count equals the source's out-degree, which is the scalability limit
// of that policy. MaxTasks turns an oversized fan-out into an explicit
// ErrResourceExhaustion instead of a silent cap.
type spawnScheduler struct {
	unbounded bool
}

func (s spawnScheduler) start(r *run, root *state) (int, error) {
	limit := r.opts.MaxSpawnDepth
	if s.unbounded {
		limit = 1
	}
	err := r.spawn(root, limit)

	return int(max(r.tasks.Load(), 1)), err
}

// spawn runs s as one task. Children are joined with an errgroup before the
// task completes; the first error (a refused spawn) is returned after every
// child that did start has finished. Siblings are never cancelled.
func (r *run) spawn(s *state, limit int) error {
	if s.depth >= limit {
		r.runInline(s)
		return nil
	}

	tk := task{}
	tk.move(Running)
	var t tally
	ok := r.admit(s, &t)
	r.flush(&t)
	if !ok {
		tk.move(RecursedInline)
		tk.move(Completed)
		return nil
	}

	tk.move(SpawnedChildren)
	var (
		g   errgroup.Group
		err error
	)
	u := s.node
	for _, v := range r.order[u] {
		if s.visited[v] {
			continue
		}
		if err = r.reserveTask(); err != nil {
			break
		}
		child := s.child(v, r.g.At(u, v))
		g.Go(func() error { return r.spawn(child, limit) })
	}

	tk.move(WaitingForChildren)
	if werr := g.Wait(); err == nil {
		err = werr
	}
	tk.move(Completed)

	return err
}

// poolScheduler queues every depth-0 branch on a fixed worker pool. Deeper
// recursion runs synchronously inside the worker that took the branch, so
// the queue never holds more than the source's out-degree.
type poolScheduler struct{}

func (poolScheduler) start(r *run, root *state) (int, error) {
	pool := workpool.New(r.opts.Workers)

	tk := task{}
	tk.move(Running)
	var t tally
	ok := r.admit(root, &t)
	r.flush(&t)
	if !ok {
		pool.Shutdown()
		tk.move(RecursedInline)
		tk.move(Completed)
		return pool.Workers(), nil
	}

	tk.move(SpawnedChildren)
	err := r.submitRoots(pool, root)
	tk.move(WaitingForChildren)
	pool.Wait()
	pool.Shutdown()
	tk.move(Completed)
	r.log.Debug("worker pool drained",
		slog.Int("workers", pool.Workers()),
		slog.Int64("completed", pool.Completed()),
	)

	return pool.Workers(), err
}

// submitRoots queues one task per successor of root. A refused submission
// stops further submissions and is returned wrapped in ErrTaskSubmission.
func (r *run) submitRoots(pool *workpool.Pool, root *state) error {
	u := root.node
	for _, v := range r.order[u] {
		if root.visited[v] {
			continue
		}
		child := root.child(v, r.g.At(u, v))
		if err := pool.Submit(func() { r.runInline(child) }); err != nil {
			return fmt.Errorf("branch %d->%d: %w: %w", u, v, ErrTaskSubmission, err)
		}
		r.tasks.Add(1)
	}

	return nil
}

// fanOutScheduler iterates the neighbour set of every shallow vertex as a
// parallel loop of at most Workers iterations in flight. A finished
// iteration frees its slot for the next one, which balances uneven subtrees.
type fanOutScheduler struct{}

func (fanOutScheduler) start(r *run, root *state) (int, error) {
	r.fan(root)

	return r.opts.Workers, nil
}

func (r *run) fan(s *state) {
	if s.depth >= r.opts.MaxSpawnDepth {
		r.runInline(s)
		return
	}

	tk := task{}
	tk.move(Running)
	var t tally
	ok := r.admit(s, &t)
	r.flush(&t)
	if !ok {
		tk.move(RecursedInline)
		tk.move(Completed)
		return
	}

	tk.move(SpawnedChildren)
	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	u := s.node
	for _, v := range r.order[u] {
		if s.visited[v] {
			continue
		}
		child := s.child(v, r.g.At(u, v))
		r.tasks.Add(1)
		g.Go(func() error {
			r.fan(child)
			return nil
		})
	}
	tk.move(WaitingForChildren)
	_ = g.Wait()
	tk.move(Completed)
}
