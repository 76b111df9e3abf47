// SPDX-License-Identifier: MIT
// Package search finds the minimum-cost simple path between two vertices of a
// costgraph.Graph by exhaustive depth-first backtracking with branch-and-bound
// pruning.
//
// One engine, five scheduling policies:
//
//   - Sequential:   plain recursion on the calling goroutine (baseline).
//   - Unbounded:    one goroutine per outgoing edge of the source.
//   - DepthBounded: goroutines while depth < MaxSpawnDepth, recursion below.
//   - WorkerPool:   depth-0 branches queued on a fixed pool of workers.
//   - FanOut:       a bounded parallel loop over neighbours at shallow depth.
//
// All policies return the same optimal distance; they differ in speed and in
// the telemetry counters only.
//
// Pruning: a partial path whose accumulated cost is already ≥ the best
// complete path found so far is abandoned. Costs are non-negative, so the
// partial cost is a valid lower bound on every completion and pruning never
// discards a strictly better path. Reading a slightly stale best only costs
// extra work.
//
// Shared state per run:
//
//   - the graph, read-only;
//   - the best distance, updated with compare-and-swap (or a mutex for FanOut);
//   - telemetry counters, flushed once per task.
//
// Search state (visited set, path) is never shared: every spawned task gets
// its own copy taken before it starts.
//
// Errors:
//
//   - ErrGraphNil, ErrInvalidInput, ErrInvalidOptions before the search starts.
//   - ErrTaskSubmission if the worker pool refuses a task.
//   - ErrResourceExhaustion if spawning would exceed Options.MaxTasks.
//
// "No path" is not an error: Result.Found is false.
//
// Complexity:
//
//   - Time: O(n!) worst case; pruning decides practical speed.
//   - Memory: O(n) per task for the visited set and path, plus O(n²) for the
//     precomputed neighbour order.
package search
