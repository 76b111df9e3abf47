// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/pathbnb/costgraph"
	"github.com/katalvlaran/pathbnb/internal/progress"
	"github.com/katalvlaran/pathbnb/search"
)

type solveFlags struct {
	matrix      string
	size        int
	seed        int64
	minCost     int64
	maxCost     int64
	unreachable float64
	source      int
	sink        int
	policy      string
	workers     int
	spawnDepth  int
	order       string
	greedySeed  bool
	printMatrix bool

	progress      bool
	progressEvery uint32
	progressRate  float64
}

func newSolveCmd(g *globalFlags) *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find the minimum-cost path in one graph",
		Long: `solve runs a single search on a random graph, or on a matrix read from a
YAML file holding a list of rows. Use -1 for a missing edge.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return f.run(cmd.OutOrStdout(), cmd.ErrOrStderr(), g)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.matrix, "matrix", "m", "", "YAML file with the cost matrix")
	fs.IntVarP(&f.size, "size", "n", 8, "Vertices of the random graph")
	fs.Int64Var(&f.seed, "seed", 1, "Random graph seed")
	fs.Int64Var(&f.minCost, "min-cost", costgraph.DefaultMinCost, "Smallest edge cost")
	fs.Int64Var(&f.maxCost, "max-cost", costgraph.DefaultMaxCost, "Largest edge cost")
	fs.Float64Var(&f.unreachable, "unreachable", 0, "Share of missing edges in [0,1)")
	fs.IntVar(&f.source, "source", 0, "Source vertex")
	fs.IntVar(&f.sink, "sink", -1, "Sink vertex (-1 for the last vertex)")
	fs.StringVarP(&f.policy, "policy", "p", search.Sequential.String(), "Scheduling policy")
	fs.IntVarP(&f.workers, "workers", "j", 0, "Concurrency bound (0 for GOMAXPROCS)")
	fs.IntVar(&f.spawnDepth, "spawn-depth", 0, "Depth below which branches run inline (0 derives it)")
	fs.StringVar(&f.order, "order", "index", "Branch order (index, cheapest)")
	fs.BoolVar(&f.greedySeed, "greedy-seed", false, "Seed the bound with a greedy path")
	fs.BoolVar(&f.printMatrix, "print-matrix", false, "Print the cost matrix before solving")
	fs.BoolVar(&f.progress, "progress", false, "Log search progress and print the last snapshot")
	fs.Uint32Var(&f.progressEvery, "progress-every", search.DefaultProgressEvery, "Expansions between progress samples (power of two)")
	fs.Float64Var(&f.progressRate, "progress-rate", search.DefaultProgressRate, "Progress reports per second")

	return cmd
}

func (f *solveFlags) graph() (*costgraph.Graph, error) {
	if f.matrix == "" {
		return costgraph.Random(f.size,
			costgraph.WithSeed(f.seed),
			costgraph.WithCostRange(f.minCost, f.maxCost),
			costgraph.WithUnreachableRatio(f.unreachable),
		)
	}

	data, err := os.ReadFile(f.matrix)
	if err != nil {
		return nil, fmt.Errorf("matrix: %w", err)
	}
	var rows [][]int64
	if err = yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("matrix %s: %w", f.matrix, err)
	}

	return costgraph.New(rows)
}

func (f *solveFlags) options(g *globalFlags, w io.Writer) ([]search.Option, error) {
	policy, err := search.ParsePolicy(f.policy)
	if err != nil {
		return nil, err
	}
	order := search.IndexOrder
	switch strings.ToLower(f.order) {
	case "index":
	case "cheapest":
		order = search.CheapestFirst
	default:
		return nil, fmt.Errorf("unknown order %q: %w", f.order, search.ErrInvalidOptions)
	}
	workers := f.workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	opts := []search.Option{
		search.WithPolicy(policy),
		search.WithWorkers(workers),
		search.WithMaxSpawnDepth(f.spawnDepth),
		search.WithOrdering(order),
		search.WithPathTracking(),
		search.WithLogger(g.logger(w)),
	}
	if f.greedySeed {
		opts = append(opts, search.WithGreedySeed())
	}

	return opts, nil
}

func (f *solveFlags) run(out, errOut io.Writer, g *globalFlags) error {
	graph, err := f.graph()
	if err != nil {
		return err
	}
	opts, err := f.options(g, errOut)
	if err != nil {
		return err
	}
	sink := f.sink
	if sink < 0 {
		sink = graph.N() - 1
	}

	if f.printMatrix {
		fmt.Fprintf(out, "%s\n", graph)
	}

	var watch *progressWatch
	if f.progress {
		watch = startProgressWatch(g.logger(errOut).With(slog.String("policy", f.policy)))
		opts = append(opts,
			search.WithReporter(watch.reporter()),
			search.WithProgressEvery(f.progressEvery),
			search.WithProgressRate(f.progressRate),
		)
	}

	res, err := search.Run(graph, f.source, sink, opts...)
	if watch != nil {
		watch.stop()
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d -> %d: %s\n", f.source, sink, res)
	if res.Found {
		fmt.Fprintf(out, "path: %s\n", formatPath(res.Path))
	}
	st := res.Stats
	_, err = fmt.Fprintf(out, "%s in %s, visited %s, pruned %s, tasks %s, workers %d\n",
		st.Policy, st.Elapsed, humanize.Comma(st.Visited), humanize.Comma(st.Pruned),
		humanize.Comma(st.Tasks), st.Workers)
	if err != nil || watch == nil {
		return err
	}

	return watch.summary(out)
}

// progressWatch logs snapshots off the search goroutines and keeps them for
// the final summary.
type progressWatch struct {
	feed    *progress.Channel
	rec     *progress.Recorder
	drained chan struct{}
}

func startProgressWatch(log *slog.Logger) *progressWatch {
	w := &progressWatch{
		feed:    progress.NewChannel(64),
		rec:     &progress.Recorder{},
		drained: make(chan struct{}),
	}
	logRep := progress.NewLogReporter(log)
	go func() {
		defer close(w.drained)
		for s := range w.feed.C() {
			logRep.Report(s)
		}
	}()

	return w
}

func (w *progressWatch) reporter() search.Reporter {
	return progress.Tee(w.feed, w.rec)
}

// stop closes the feed and waits for the logger to drain it.
func (w *progressWatch) stop() {
	w.feed.Close()
	<-w.drained
}

func (w *progressWatch) summary(out io.Writer) error {
	snaps := w.rec.Snapshots()
	if len(snaps) == 0 {
		_, err := fmt.Fprintln(out, "progress: no snapshots")
		return err
	}
	last := snaps[len(snaps)-1]
	_, err := fmt.Fprintf(out, "progress: %d snapshots (%d not logged), last at vertex %d depth %d, visited %s, pruned %s\n",
		len(snaps), w.feed.Dropped(), last.Node, last.Depth,
		humanize.Comma(last.Visited), humanize.Comma(last.Pruned))

	return err
}

func formatPath(path []int) string {
	parts := make([]string, len(path))
	for i, v := range path {
		parts[i] = fmt.Sprint(v)
	}

	return strings.Join(parts, " -> ")
}
