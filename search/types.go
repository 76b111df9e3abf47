// SPDX-License-Identifier: MIT
package search

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrGraphNil is returned when Run receives a nil graph.
	ErrGraphNil = errors.New("search: graph is nil")

	// ErrInvalidInput is returned for out-of-range indices or source == sink.
	ErrInvalidInput = errors.New("search: invalid source or sink")

	// ErrInvalidOptions is returned for option values the engine cannot honour.
	ErrInvalidOptions = errors.New("search: invalid options")

	// ErrTaskSubmission is returned when the worker pool rejects a task.
	// It signals a lifecycle bug and is never swallowed.
	ErrTaskSubmission = errors.New("search: task submission failed")

	// ErrResourceExhaustion is returned when a spawn would exceed Options.MaxTasks.
	ErrResourceExhaustion = errors.New("search: task limit exceeded")
)

// Policy selects how the search tree is decomposed into concurrent tasks.
type Policy uint8

const (
	// Sequential runs the whole search on the calling goroutine.
	Sequential Policy = iota
	// Unbounded spawns one task per edge out of the source.
	Unbounded
	// DepthBounded spawns tasks above MaxSpawnDepth and recurses inline below it.
	DepthBounded
	// WorkerPool queues the source's branches on a fixed pool of Workers goroutines.
	WorkerPool
	// FanOut runs each shallow neighbour set as a parallel loop of at most Workers iterations.
	FanOut
)

var policyNames = [...]string{
	Sequential:   "sequential",
	Unbounded:    "unbounded",
	DepthBounded: "depth-bounded",
	WorkerPool:   "worker-pool",
	FanOut:       "fan-out",
}

// Policies lists every policy in declaration order.
func Policies() []Policy {
	return []Policy{Sequential, Unbounded, DepthBounded, WorkerPool, FanOut}
}

// String returns the canonical lower-case name of p.
func (p Policy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}

	return fmt.Sprintf("policy(%d)", uint8(p))
}

// ParsePolicy maps a canonical name (case-insensitive) to a Policy.
func ParsePolicy(s string) (Policy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range policyNames {
		if n == name {
			return Policy(i), nil
		}
	}

	return 0, fmt.Errorf("unknown policy %q: %w", s, ErrInvalidOptions)
}

// Ordering selects the order in which neighbours are branched on.
type Ordering uint8

const (
	// IndexOrder tries neighbours by ascending vertex index.
	IndexOrder Ordering = iota

	// CheapestFirst tries neighbours by ascending edge cost (index tiebreak),
	// which tends to find a tight bound earlier.
	CheapestFirst
)

// Result is the outcome of one Run.
type Result struct {
	// Found reports whether any source→sink path exists.
	Found bool

	// Distance is the minimum path cost; meaningful only when Found.
	Distance int64

	// Path is one optimal vertex sequence from source to sink.
	// Filled only with WithPathTracking and when Found.
	Path []int

	Stats Stats
}

// Value returns the distance and whether a path was found.
func (r Result) Value() (int64, bool) { return r.Distance, r.Found }

// String renders the distance or "not found".
func (r Result) String() string {
	if !r.Found {
		return "not found"
	}

	return fmt.Sprintf("%d", r.Distance)
}

// Stats is per-run telemetry. Counters are for reporting only and may vary
// between runs on the same input.
type Stats struct {
	Policy     Policy
	Visited    int64 // vertices expanded
	Pruned     int64 // branches cut by the bound
	Tasks      int64 // concurrent tasks created
	Workers    int   // concurrency bound in effect
	SpawnDepth int   // depth threshold in effect (spawn/fan-out policies)
	Elapsed    time.Duration
}

// Snapshot is a progress sample delivered to a Reporter.
type Snapshot struct {
	Node      int
	Depth     int
	Distance  int64 // accumulated cost of the sampled branch
	Best      int64 // meaningful only when BestFound
	BestFound bool
	Visited   int64
	Pruned    int64
	At        time.Time
}

// Reporter receives progress snapshots. Report may be called from several
// goroutines at once and must not block for long.
type Reporter interface {
	Report(Snapshot)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Snapshot)

// Report calls f(s).
func (f ReporterFunc) Report(s Snapshot) { f(s) }
