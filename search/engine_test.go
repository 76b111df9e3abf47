// SPDX-License-Identifier: MIT
package search_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/katalvlaran/pathbnb/costgraph"
	"github.com/katalvlaran/pathbnb/search"
	"github.com/stretchr/testify/require"
)

func TestRun_Scenario_AllPolicies(t *testing.T) {
	g := scenarioGraph()
	for _, pc := range allPolicies() {
		t.Run(pc.name, func(t *testing.T) {
			opts := append([]search.Option{search.WithPathTracking()}, pc.opts...)
			res := mustRun(t, g, 0, 3, opts...)
			require.True(t, res.Found)
			require.EqualValues(t, 4, res.Distance)
			require.Equal(t, []int{0, 1, 2, 3}, res.Path)
		})
	}
}

func TestRun_CrossPolicyEquivalence(t *testing.T) {
	ratios := []float64{0, 0.3, 0.6}
	for n := 2; n <= 8; n++ {
		for _, ratio := range ratios {
			for seed := int64(1); seed <= 3; seed++ {
				g, err := costgraph.Random(n,
					costgraph.WithSeed(seed*101+int64(n)),
					costgraph.WithUnreachableRatio(ratio),
				)
				require.NoError(t, err)
				want, wantFound := bruteForce(g, 0, n-1)

				for _, pc := range allPolicies() {
					name := fmt.Sprintf("n=%d/p=%.1f/seed=%d/%s", n, ratio, seed, pc.name)
					res := mustRun(t, g, 0, n-1, pc.opts...)
					require.Equal(t, wantFound, res.Found, name)
					if wantFound {
						require.Equal(t, want, res.Distance, name)
					}
				}
			}
		}
	}
}

func TestRun_OrderingAndSeedDoNotChangeResult(t *testing.T) {
	g, err := costgraph.Random(9, costgraph.WithSeed(77), costgraph.WithCostRange(1, 50))
	require.NoError(t, err)
	want, _ := bruteForce(g, 2, 6)

	variants := [][]search.Option{
		{search.WithOrdering(search.CheapestFirst)},
		{search.WithGreedySeed()},
		{search.WithGreedySeed(), search.WithOrdering(search.CheapestFirst)},
		{search.WithGreedySeed(), search.WithPolicy(search.DepthBounded), search.WithMaxSpawnDepth(2)},
		{search.WithOrdering(search.CheapestFirst), search.WithPolicy(search.FanOut), search.WithWorkers(3)},
	}
	for i, opts := range variants {
		opts = append(opts, search.WithPathTracking())
		res := mustRun(t, g, 2, 6, opts...)
		require.True(t, res.Found, "variant %d", i)
		require.Equal(t, want, res.Distance, "variant %d", i)
		require.Equal(t, 2, res.Path[0])
		require.Equal(t, 6, res.Path[len(res.Path)-1])
		require.Equal(t, res.Distance, pathCost(t, g, res.Path), "variant %d", i)
	}
}

func TestRun_TwoVertices(t *testing.T) {
	g := costgraph.MustNew([][]int64{{0, 7}, {3, 0}})
	for _, pc := range allPolicies() {
		res := mustRun(t, g, 0, 1, pc.opts...)
		require.True(t, res.Found, pc.name)
		require.EqualValues(t, 7, res.Distance, pc.name)

		res = mustRun(t, g, 1, 0, pc.opts...)
		require.EqualValues(t, 3, res.Distance, pc.name)
	}
}

func TestRun_InvalidInput(t *testing.T) {
	g := scenarioGraph()

	_, err := search.Run(g, 2, 2)
	require.ErrorIs(t, err, search.ErrInvalidInput)

	_, err = search.Run(g, -1, 2)
	require.ErrorIs(t, err, search.ErrInvalidInput)

	_, err = search.Run(g, 0, 4)
	require.ErrorIs(t, err, search.ErrInvalidInput)

	_, err = search.Run(nil, 0, 1)
	require.ErrorIs(t, err, search.ErrGraphNil)
}

func TestRun_InvalidOptions(t *testing.T) {
	g := scenarioGraph()
	bad := [][]search.Option{
		{search.WithWorkers(0)},
		{search.WithMaxSpawnDepth(-1)},
		{search.WithMaxTasks(-3)},
		{search.WithPolicy(search.Policy(42))},
		{search.WithOrdering(search.Ordering(9))},
		{search.WithProgressRate(0)},
		{search.WithProgressEvery(1000)},
	}
	for i, opts := range bad {
		_, err := search.Run(g, 0, 3, opts...)
		require.ErrorIs(t, err, search.ErrInvalidOptions, "case %d", i)
	}
}

func TestRun_UnreachableSink_NotFound(t *testing.T) {
	g := costgraph.MustNew([][]int64{
		{0, 1, 1, u},
		{1, 0, 1, u},
		{1, 1, 0, u},
		{1, 1, 1, 0},
	})
	for _, pc := range allPolicies() {
		res := mustRun(t, g, 0, 3, pc.opts...)
		require.False(t, res.Found, pc.name)
		_, ok := res.Value()
		require.False(t, ok)
		require.Equal(t, "not found", res.String())
	}
}

func TestRun_AllOnes(t *testing.T) {
	const n = 7
	rows := make([][]int64, n)
	for i := range rows {
		rows[i] = make([]int64, n)
		for j := range rows[i] {
			if i != j {
				rows[i][j] = 1
			}
		}
	}
	g := costgraph.MustNew(rows)

	for _, pc := range allPolicies() {
		for _, pair := range [][2]int{{0, n - 1}, {3, 1}, {6, 0}} {
			res := mustRun(t, g, pair[0], pair[1], pc.opts...)
			require.True(t, res.Found)
			require.EqualValues(t, 1, res.Distance, "%s %v", pc.name, pair)
		}
	}
}

func TestRun_RepeatedRunsAgree(t *testing.T) {
	g, err := costgraph.Random(9, costgraph.WithSeed(5), costgraph.WithUnreachableRatio(0.2))
	require.NoError(t, err)

	for _, pc := range allPolicies() {
		first := mustRun(t, g, 0, 8, pc.opts...)
		for i := 0; i < 3; i++ {
			again := mustRun(t, g, 0, 8, pc.opts...)
			require.Equal(t, first.Found, again.Found, pc.name)
			require.Equal(t, first.Distance, again.Distance, pc.name)
		}
	}
}

func TestRun_TighterEarlyBoundExpandsLess(t *testing.T) {
	// Sequential search visits branches in a fixed order, so a better bound
	// available from the start can only remove expansions.
	g, err := costgraph.Random(9, costgraph.WithSeed(11), costgraph.WithCostRange(1, 100))
	require.NoError(t, err)

	plain := mustRun(t, g, 0, 8)
	seeded := mustRun(t, g, 0, 8, search.WithGreedySeed())

	require.Equal(t, plain.Distance, seeded.Distance)
	require.LessOrEqual(t, seeded.Stats.Visited, plain.Stats.Visited)
	require.Positive(t, plain.Stats.Pruned)
}

func TestRun_ProgressCountersNeverDecrease(t *testing.T) {
	g, err := costgraph.Random(9, costgraph.WithSeed(11), costgraph.WithCostRange(1, 100))
	require.NoError(t, err)

	var snaps []search.Snapshot
	rep := search.ReporterFunc(func(s search.Snapshot) { snaps = append(snaps, s) })

	res := mustRun(t, g, 0, 8,
		search.WithReporter(rep), search.WithProgressEvery(1), search.WithProgressRate(1e9),
	)
	require.Greater(t, len(snaps), 1)

	for i := 1; i < len(snaps); i++ {
		prev, cur := snaps[i-1], snaps[i]
		require.GreaterOrEqual(t, cur.Visited, prev.Visited, "snapshot %d", i)
		require.GreaterOrEqual(t, cur.Pruned, prev.Pruned, "snapshot %d", i)
		if prev.BestFound {
			require.True(t, cur.BestFound)
			require.LessOrEqual(t, cur.Best, prev.Best, "snapshot %d", i)
		}
	}
	last := snaps[len(snaps)-1]
	require.LessOrEqual(t, last.Visited, res.Stats.Visited)
	require.LessOrEqual(t, last.Pruned, res.Stats.Pruned)
}

func TestRun_WorkerPoolLogsCompletedTasks(t *testing.T) {
	g := expensiveSinkGraph(6)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	res := mustRun(t, g, 0, 5,
		search.WithPolicy(search.WorkerPool), search.WithWorkers(2), search.WithLogger(log))
	require.True(t, res.Found)

	require.Contains(t, buf.String(), "worker pool drained")
	require.Contains(t, buf.String(), fmt.Sprintf("completed=%d", res.Stats.Tasks))
}

func TestRun_Stats(t *testing.T) {
	g := expensiveSinkGraph(7)

	seq := mustRun(t, g, 0, 6)
	require.Equal(t, search.Sequential, seq.Stats.Policy)
	require.Zero(t, seq.Stats.Tasks)
	require.Equal(t, 1, seq.Stats.Workers)
	require.Positive(t, seq.Stats.Visited)

	unb := mustRun(t, g, 0, 6, search.WithPolicy(search.Unbounded))
	require.EqualValues(t, g.Degree(0), unb.Stats.Tasks)

	pool := mustRun(t, g, 0, 6, search.WithPolicy(search.WorkerPool), search.WithWorkers(3))
	require.Equal(t, 3, pool.Stats.Workers)
	require.EqualValues(t, g.Degree(0), pool.Stats.Tasks)

	db := mustRun(t, g, 0, 6, search.WithPolicy(search.DepthBounded), search.WithMaxSpawnDepth(2))
	require.Equal(t, 2, db.Stats.SpawnDepth)
	require.Greater(t, db.Stats.Tasks, int64(g.Degree(0)))
}

func TestRun_MaxTasksIsReported(t *testing.T) {
	g := expensiveSinkGraph(6)

	_, err := search.Run(g, 0, 5, search.WithPolicy(search.Unbounded), search.WithMaxTasks(2))
	require.ErrorIs(t, err, search.ErrResourceExhaustion)

	_, err = search.Run(g, 0, 5,
		search.WithPolicy(search.DepthBounded), search.WithMaxSpawnDepth(3), search.WithMaxTasks(10))
	require.ErrorIs(t, err, search.ErrResourceExhaustion)

	// A limit that fits is not an error.
	res, err := search.Run(g, 0, 5, search.WithPolicy(search.Unbounded), search.WithMaxTasks(5))
	require.NoError(t, err)
	require.True(t, res.Found)
	require.EqualValues(t, 100, res.Distance)
}

func TestRun_ProgressReports(t *testing.T) {
	g, err := costgraph.Random(8, costgraph.WithSeed(4))
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		snaps []search.Snapshot
	)
	rep := search.ReporterFunc(func(s search.Snapshot) {
		mu.Lock()
		snaps = append(snaps, s)
		mu.Unlock()
	})

	res := mustRun(t, g, 0, 7,
		search.WithPolicy(search.WorkerPool), search.WithWorkers(2),
		search.WithReporter(rep), search.WithProgressEvery(1), search.WithProgressRate(1e9),
	)
	require.True(t, res.Found)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, snaps)
	for _, s := range snaps {
		require.GreaterOrEqual(t, s.Node, 0)
		require.Less(t, s.Node, 8)
		require.NotEqual(t, 7, s.Node, "sink is never expanded")
		if s.BestFound {
			require.GreaterOrEqual(t, s.Best, res.Distance)
		}
	}
}

func TestRun_ProgressIsRateLimited(t *testing.T) {
	g, err := costgraph.Random(9, costgraph.WithSeed(8))
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		count int
	)
	rep := search.ReporterFunc(func(search.Snapshot) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	start := time.Now()
	mustRun(t, g, 0, 8,
		search.WithPolicy(search.Unbounded),
		search.WithReporter(rep), search.WithProgressEvery(1), search.WithProgressRate(2),
	)
	elapsed := time.Since(start)

	mu.Lock()
	defer mu.Unlock()
	// Burst of one plus two tokens per second.
	require.LessOrEqual(t, count, 1+int(2*elapsed.Seconds())+1)
	require.GreaterOrEqual(t, count, 1)
}

func TestPolicy_Names(t *testing.T) {
	for _, p := range search.Policies() {
		got, err := search.ParsePolicy(p.String())
		require.NoError(t, err)
		require.Equal(t, p, got)
	}
	got, err := search.ParsePolicy("  Worker-Pool ")
	require.NoError(t, err)
	require.Equal(t, search.WorkerPool, got)

	_, err = search.ParsePolicy("greedy")
	require.ErrorIs(t, err, search.ErrInvalidOptions)
	require.Equal(t, "policy(42)", search.Policy(42).String())
}

func TestSpawnDepthFor(t *testing.T) {
	require.Equal(t, 1, search.SpawnDepthFor(1, 8))
	require.Equal(t, 1, search.SpawnDepthFor(10, 1))
	require.Equal(t, 1, search.SpawnDepthFor(40, 8))
	require.Equal(t, 2, search.SpawnDepthFor(19, 8))
	require.Equal(t, 3, search.SpawnDepthFor(3, 16))
	require.Equal(t, 3, search.SpawnDepthFor(2, 64))
}
