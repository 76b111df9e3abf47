// SPDX-License-Identifier: MIT
package progress_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/katalvlaran/pathbnb/costgraph"
	"github.com/katalvlaran/pathbnb/internal/progress"
	"github.com/katalvlaran/pathbnb/search"
	"github.com/stretchr/testify/require"
)

func TestLogReporter_Formats(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	rep := progress.NewLogReporter(l, "size", 12, "policy", "fan-out")

	rep.Report(search.Snapshot{Node: 3, Depth: 2, Distance: 17, Best: 1234567, BestFound: true, Pruned: 98765})
	rep.Report(search.Snapshot{Node: 1, Depth: 1, Distance: 4})

	out := buf.String()
	require.Contains(t, out, "size=12")
	require.Contains(t, out, "policy=fan-out")
	require.Contains(t, out, "best=1,234,567")
	require.Contains(t, out, "pruned=98,765")
	require.Contains(t, out, "best=none")
}

func TestRecorderAndTee_WithEngine(t *testing.T) {
	g, err := costgraph.Random(8, costgraph.WithSeed(21))
	require.NoError(t, err)

	a, b := &progress.Recorder{}, &progress.Recorder{}
	_, err = search.Run(g, 0, 7,
		search.WithPolicy(search.DepthBounded),
		search.WithReporter(progress.Tee(a, nil, b)),
		search.WithProgressEvery(1),
		search.WithProgressRate(1e9),
	)
	require.NoError(t, err)

	require.NotEmpty(t, a.Snapshots())
	require.Equal(t, len(a.Snapshots()), len(b.Snapshots()))
}

func TestChannel_DropsWhenFull(t *testing.T) {
	c := progress.NewChannel(2)
	for i := 0; i < 5; i++ {
		c.Report(search.Snapshot{Node: i})
	}
	c.Close()
	c.Report(search.Snapshot{Node: 99})

	var got []int
	for s := range c.C() {
		got = append(got, s.Node)
	}
	require.Equal(t, []int{0, 1}, got)
	require.EqualValues(t, 3, c.Dropped())
}
