// SPDX-License-Identifier: MIT
package search

import (
	"sort"

	"github.com/katalvlaran/pathbnb/costgraph"
)

// visit is the sequential depth-first search below s. It mutates s in place
// and restores it before returning, so the caller's branch is unchanged.
//
// Each recursion adds one vertex to the visited set, so depth ≤ n.
func (r *run) visit(s *state, t *tally) {
	if !r.admit(s, t) {
		return
	}
	u := s.node
	for _, v := range r.order[u] {
		if s.visited[v] {
			continue
		}
		c := r.g.At(u, v)
		s.enter(v, c)
		r.visit(s, t)
		s.leave(u, v, c)
	}
}

// runInline executes s as one task that recurses on its own goroutine.
func (r *run) runInline(s *state) {
	tk := task{}
	tk.move(Running)
	tk.move(RecursedInline)
	var t tally
	r.visit(s, &t)
	r.flush(&t)
	tk.move(Completed)
}

// neighborOrder sorts one successor row by ascending cost, index tiebreak.
type neighborOrder struct {
	u   int
	row []int
	g   *costgraph.Graph
}

func (no neighborOrder) Len() int { return len(no.row) }
func (no neighborOrder) Less(i, j int) bool {
	vi, vj := no.row[i], no.row[j]
	wi, wj := no.g.At(no.u, vi), no.g.At(no.u, vj)
	if wi == wj {
		return vi < vj
	}

	return wi < wj
}
func (no neighborOrder) Swap(i, j int) { no.row[i], no.row[j] = no.row[j], no.row[i] }

// buildOrder lists, for every u, the successors reachable over a traversable
// edge. Non-edges are dropped here once so the hot loop never tests them.
//
// Complexity: O(n²) for IndexOrder, O(n² log n) for CheapestFirst.
func buildOrder(g *costgraph.Graph, ord Ordering) [][]int {
	n := g.N()
	order := make([][]int, n)
	var u, v int
	for u = 0; u < n; u++ {
		row := make([]int, 0, n-1)
		for v = 0; v < n; v++ {
			if _, ok := g.Cost(u, v); ok {
				row = append(row, v)
			}
		}
		if ord == CheapestFirst {
			sort.Sort(neighborOrder{u: u, row: row, g: g})
		}
		order[u] = row
	}

	return order
}
