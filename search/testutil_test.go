// SPDX-License-Identifier: MIT
package search_test

import (
	"testing"

	"github.com/katalvlaran/pathbnb/costgraph"
	"github.com/katalvlaran/pathbnb/search"
	"github.com/stretchr/testify/require"
)

// u is shorthand for the unreachable sentinel in literal matrices.
const u = costgraph.Unreachable

// policyCase is one scheduler configuration exercised by the equivalence tests.
type policyCase struct {
	name string
	opts []search.Option
}

// allPolicies returns every policy with a few worker/depth settings.
func allPolicies() []policyCase {
	return []policyCase{
		{"sequential", []search.Option{search.WithPolicy(search.Sequential)}},
		{"unbounded", []search.Option{search.WithPolicy(search.Unbounded)}},
		{"depth-bounded/d1", []search.Option{search.WithPolicy(search.DepthBounded), search.WithMaxSpawnDepth(1)}},
		{"depth-bounded/d3", []search.Option{search.WithPolicy(search.DepthBounded), search.WithMaxSpawnDepth(3)}},
		{"depth-bounded/derived", []search.Option{search.WithPolicy(search.DepthBounded), search.WithWorkers(4)}},
		{"worker-pool/w1", []search.Option{search.WithPolicy(search.WorkerPool), search.WithWorkers(1)}},
		{"worker-pool/w4", []search.Option{search.WithPolicy(search.WorkerPool), search.WithWorkers(4)}},
		{"fan-out/d1", []search.Option{search.WithPolicy(search.FanOut), search.WithWorkers(3), search.WithMaxSpawnDepth(1)}},
		{"fan-out/d2", []search.Option{search.WithPolicy(search.FanOut), search.WithWorkers(2), search.WithMaxSpawnDepth(2)}},
	}
}

// scenarioGraph is the 4-vertex instance whose optimum 0→1→2→3 costs 4.
func scenarioGraph() *costgraph.Graph {
	return costgraph.MustNew([][]int64{
		{0, 2, 5, 10},
		{2, 0, 1, 4},
		{5, 1, 0, 1},
		{10, 4, 1, 0},
	})
}

// bruteForce enumerates every simple source→sink path without pruning.
// It is the independent reference for the engine.
func bruteForce(g *costgraph.Graph, source, sink int) (int64, bool) {
	var (
		best  int64
		found bool
		walk  func(v int, dist int64)
	)
	visited := make([]bool, g.N())
	walk = func(v int, dist int64) {
		if v == sink {
			if !found || dist < best {
				best, found = dist, true
			}
			return
		}
		for w := 0; w < g.N(); w++ {
			c, ok := g.Cost(v, w)
			if !ok || visited[w] {
				continue
			}
			visited[w] = true
			walk(w, dist+c)
			visited[w] = false
		}
	}
	visited[source] = true
	walk(source, 0)

	return best, found
}

// pathCost sums the edges of p, failing the test on a non-edge or repeat.
func pathCost(t *testing.T, g *costgraph.Graph, p []int) int64 {
	t.Helper()
	seen := make(map[int]bool, len(p))
	var total int64
	for i, v := range p {
		require.False(t, seen[v], "vertex %d repeated in %v", v, p)
		seen[v] = true
		if i == 0 {
			continue
		}
		c, ok := g.Cost(p[i-1], v)
		require.True(t, ok, "edge %d->%d not traversable", p[i-1], v)
		total += c
	}

	return total
}

// mustRun runs the engine and fails the test on error.
func mustRun(t *testing.T, g *costgraph.Graph, source, sink int, opts ...search.Option) search.Result {
	t.Helper()
	res, err := search.Run(g, source, sink, opts...)
	require.NoError(t, err)

	return res
}

// expensiveSinkGraph is a complete graph with unit costs except that every
// edge into the last vertex costs 100. No shallow branch can be pruned, so
// spawn counts are deterministic.
func expensiveSinkGraph(n int) *costgraph.Graph {
	rows := make([][]int64, n)
	for i := range rows {
		rows[i] = make([]int64, n)
		for j := range rows[i] {
			switch {
			case i == j:
			case j == n-1:
				rows[i][j] = 100
			default:
				rows[i][j] = 1
			}
		}
	}

	return costgraph.MustNew(rows)
}
