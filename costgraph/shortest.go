// SPDX-License-Identifier: MIT
package costgraph

import (
	"container/heap"
	"fmt"
	"math"
)

// Distances computes single-source shortest distances with Dijkstra's
// algorithm. Unreached vertices get Unreachable.
//
// Every traversable cost is positive, so a shortest walk never repeats a
// vertex: dist[v] equals the minimum simple-path cost from source to v.
// The branch-and-bound search must agree with it, which makes Distances an
// independent check on search results.
//
// Uses a lazy decrease-key heap: duplicates are pushed and stale entries are
// skipped on pop.
//
// Complexity: O(n² log n) on a dense matrix.
func Distances(g *Graph, source int) ([]int64, error) {
	// 1) Validate.
	if g == nil {
		return nil, fmt.Errorf("distances: %w", ErrEmpty)
	}
	if source < 0 || source >= g.n {
		return nil, fmt.Errorf("distances: source %d outside [0,%d): %w", source, g.n, ErrVertex)
	}

	// 2) dist = +∞ except the source.
	dist := make([]int64, g.n)
	for i := range dist {
		dist[i] = math.MaxInt64
	}
	dist[source] = 0
	done := make([]bool, g.n)
	pq := distPQ{{v: source, d: 0}}

	// 3) Pop the closest unfinished vertex and relax its out-edges.
	var (
		it   distItem
		v    int
		c, d int64
		ok   bool
	)
	for pq.Len() > 0 {
		it = heap.Pop(&pq).(distItem)
		if done[it.v] {
			continue
		}
		done[it.v] = true
		for v = 0; v < g.n; v++ {
			if c, ok = g.Cost(it.v, v); !ok || done[v] {
				continue
			}
			if d = it.d + c; d < dist[v] {
				dist[v] = d
				heap.Push(&pq, distItem{v: v, d: d})
			}
		}
	}

	// 4) Map +∞ to the sentinel.
	for i := range dist {
		if dist[i] == math.MaxInt64 {
			dist[i] = Unreachable
		}
	}

	return dist, nil
}

type distItem struct {
	v int
	d int64
}

// distPQ is a min-heap of distItem by distance.
type distPQ []distItem

func (pq distPQ) Len() int            { return len(pq) }
func (pq distPQ) Less(i, j int) bool  { return pq[i].d < pq[j].d }
func (pq distPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *distPQ) Push(x interface{}) { *pq = append(*pq, x.(distItem)) }
func (pq *distPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	it := old[n-1]
	*pq = old[:n-1]

	return it
}
