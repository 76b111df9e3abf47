// SPDX-License-Identifier: MIT
package costgraph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Graph is an immutable n×n cost matrix stored row-major in a flat buffer.
type Graph struct {
	n int
	w []int64 // w[u*n+v]
}

// New validates rows and returns a Graph holding a private copy of them.
//
// Contract:
//   - len(rows) ≥ 1 and every row has len(rows) entries.
//   - rows[i][i] == 0.
//   - Off-diagonal entries are ≥ 0 or exactly Unreachable.
//   - No entry exceeds MaxInt64/(n-1), so any simple path sum fits in int64.
//
// Complexity: O(n²).
func New(rows [][]int64) (*Graph, error) {
	// 1. Shape.
	n := len(rows)
	if n == 0 {
		return nil, ErrEmpty
	}
	var i, j int
	for i = 0; i < n; i++ {
		if len(rows[i]) != n {
			return nil, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(rows[i]), n, ErrNonSquare)
		}
	}

	// 2. Values.
	limit := int64(math.MaxInt64)
	if n > 1 {
		limit = math.MaxInt64 / int64(n-1)
	}
	g := &Graph{n: n, w: make([]int64, n*n)}
	var c int64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			c = rows[i][j]
			switch {
			case i == j && c != 0:
				return nil, fmt.Errorf("entry (%d,%d)=%d: %w", i, j, c, ErrDiagonal)
			case c < 0 && c != Unreachable:
				return nil, fmt.Errorf("entry (%d,%d)=%d: %w", i, j, c, ErrNegativeCost)
			case c > limit:
				return nil, fmt.Errorf("entry (%d,%d)=%d exceeds %d: %w", i, j, c, limit, ErrCostOverflow)
			}
			g.w[i*n+j] = c
		}
	}

	return g, nil
}

// MustNew is like New but panics on invalid input. Intended for tests and
// examples with literal matrices.
func MustNew(rows [][]int64) *Graph {
	g, err := New(rows)
	if err != nil {
		panic(err)
	}

	return g
}

// N returns the number of vertices.
func (g *Graph) N() int { return g.n }

// At returns the raw entry (u,v), including zeros and the Unreachable sentinel.
// It panics if u or v is out of range, like a slice index.
func (g *Graph) At(u, v int) int64 { return g.w[u*g.n+v] }

// Cost reports the cost of edge u→v and whether it is traversable.
// Self-loops, zero entries and Unreachable entries are not traversable.
func (g *Graph) Cost(u, v int) (int64, bool) {
	c := g.w[u*g.n+v]
	if c <= 0 {
		return 0, false
	}

	return c, true
}

// Degree returns the number of traversable out-edges of u.
func (g *Graph) Degree(u int) int {
	var d, v int
	for v = 0; v < g.n; v++ {
		if _, ok := g.Cost(u, v); ok {
			d++
		}
	}

	return d
}

// Rows returns a fresh copy of the matrix as a slice of rows.
func (g *Graph) Rows() [][]int64 {
	out := make([][]int64, g.n)
	for i := 0; i < g.n; i++ {
		out[i] = make([]int64, g.n)
		copy(out[i], g.w[i*g.n:(i+1)*g.n])
	}

	return out
}

// String renders the matrix with right-aligned columns; unreachable entries print as "-".
func (g *Graph) String() string {
	width := 1
	for _, c := range g.w {
		if c == Unreachable {
			continue
		}
		if l := len(strconv.FormatInt(c, 10)); l > width {
			width = l
		}
	}

	var b strings.Builder
	var i, j int
	for i = 0; i < g.n; i++ {
		for j = 0; j < g.n; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			cell := "-"
			if c := g.w[i*g.n+j]; c != Unreachable {
				cell = strconv.FormatInt(c, 10)
			}
			b.WriteString(strings.Repeat(" ", width-len(cell)))
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}

	return b.String()
}
