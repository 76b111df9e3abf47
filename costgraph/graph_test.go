// SPDX-License-Identifier: MIT
package costgraph_test

import (
	"math"
	"strings"
	"testing"

	"github.com/katalvlaran/pathbnb/costgraph"
	"github.com/stretchr/testify/require"
)

func TestNew_Valid(t *testing.T) {
	g, err := costgraph.New([][]int64{
		{0, 2, costgraph.Unreachable},
		{3, 0, 1},
		{0, 4, 0},
	})
	require.NoError(t, err)
	require.Equal(t, 3, g.N())

	c, ok := g.Cost(0, 1)
	require.True(t, ok)
	require.EqualValues(t, 2, c)

	// Sentinel, zero off-diagonal and self-loops are not traversable.
	_, ok = g.Cost(0, 2)
	require.False(t, ok)
	_, ok = g.Cost(2, 0)
	require.False(t, ok)
	_, ok = g.Cost(1, 1)
	require.False(t, ok)

	require.Equal(t, costgraph.Unreachable, g.At(0, 2))
	require.Equal(t, 1, g.Degree(0))
	require.Equal(t, 2, g.Degree(1))
}

func TestNew_Errors(t *testing.T) {
	cases := []struct {
		name string
		rows [][]int64
		want error
	}{
		{"empty", nil, costgraph.ErrEmpty},
		{"ragged", [][]int64{{0, 1}, {1}}, costgraph.ErrNonSquare},
		{"diagonal", [][]int64{{1, 1}, {1, 0}}, costgraph.ErrDiagonal},
		{"negative", [][]int64{{0, -5}, {1, 0}}, costgraph.ErrNegativeCost},
		{"overflow", [][]int64{{0, 1, math.MaxInt64}, {1, 0, 1}, {1, 1, 0}}, costgraph.ErrCostOverflow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := costgraph.New(tc.rows)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	rows := [][]int64{{0, 7}, {7, 0}}
	g := costgraph.MustNew(rows)
	rows[0][1] = 1

	require.EqualValues(t, 7, g.At(0, 1))

	out := g.Rows()
	out[1][0] = 99
	require.EqualValues(t, 7, g.At(1, 0))
}

func TestString_RendersSentinel(t *testing.T) {
	g := costgraph.MustNew([][]int64{{0, 12}, {costgraph.Unreachable, 0}})
	s := g.String()

	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, " 0 12", lines[0])
	require.Equal(t, " -  0", lines[1])
}

func TestRandom_Deterministic(t *testing.T) {
	a, err := costgraph.Random(8, costgraph.WithSeed(42))
	require.NoError(t, err)
	b, err := costgraph.Random(8, costgraph.WithSeed(42))
	require.NoError(t, err)
	require.Equal(t, a.Rows(), b.Rows())

	c, err := costgraph.Random(8, costgraph.WithSeed(43))
	require.NoError(t, err)
	require.NotEqual(t, a.Rows(), c.Rows())
}

func TestRandom_Shape(t *testing.T) {
	g, err := costgraph.Random(10, costgraph.WithSeed(7), costgraph.WithCostRange(3, 5))
	require.NoError(t, err)

	var i, j int
	for i = 0; i < g.N(); i++ {
		for j = 0; j < g.N(); j++ {
			if i == j {
				require.Zero(t, g.At(i, j))
				continue
			}
			require.GreaterOrEqual(t, g.At(i, j), int64(3))
			require.LessOrEqual(t, g.At(i, j), int64(5))
		}
	}
}

func TestRandom_UnreachableRatio(t *testing.T) {
	g, err := costgraph.Random(30, costgraph.WithSeed(3), costgraph.WithUnreachableRatio(0.5))
	require.NoError(t, err)

	var missing int
	for i := 0; i < g.N(); i++ {
		missing += g.N() - 1 - g.Degree(i)
	}
	// 870 off-diagonal entries at p=0.5; allow a wide band.
	require.Greater(t, missing, 300)
	require.Less(t, missing, 570)
}

func TestRandom_Errors(t *testing.T) {
	_, err := costgraph.Random(1)
	require.ErrorIs(t, err, costgraph.ErrInvalidSize)

	_, err = costgraph.Random(4, costgraph.WithCostRange(5, 2))
	require.ErrorIs(t, err, costgraph.ErrInvalidRange)

	_, err = costgraph.Random(4, costgraph.WithCostRange(0, 2))
	require.ErrorIs(t, err, costgraph.ErrInvalidRange)

	_, err = costgraph.Random(4, costgraph.WithUnreachableRatio(1))
	require.ErrorIs(t, err, costgraph.ErrInvalidRange)
}

func TestDeriveSeed_Streams(t *testing.T) {
	a := costgraph.DeriveSeed(1, 2)
	require.Equal(t, a, costgraph.DeriveSeed(1, 2))
	require.NotEqual(t, a, costgraph.DeriveSeed(1, 3))
	require.NotEqual(t, a, costgraph.DeriveSeed(2, 2))
}
