// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/pathbnb/internal/bench"
	"github.com/katalvlaran/pathbnb/internal/config"
	"github.com/katalvlaran/pathbnb/internal/export"
	"github.com/katalvlaran/pathbnb/internal/metrics"
	"github.com/katalvlaran/pathbnb/internal/report"
	"github.com/katalvlaran/pathbnb/internal/telemetry"
)

type runFlags struct {
	configPath string
	trace      string
	quiet      bool

	cfg config.Config
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{cfg: config.Default()}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Benchmark every policy over a range of graph sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return runBatch(cmd.Context(), cfg, f, g.logger(cmd.ErrOrStderr()), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "Batch config file (.yaml, .yml, .hcl)")
	fs.StringVar(&f.trace, "trace", "", `Export spans as JSON to this file ("-" for stderr)`)
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "Do not print the result table")

	d := &f.cfg
	fs.IntVar(&d.MinSize, "min-size", d.MinSize, "Smallest graph size")
	fs.IntVar(&d.MaxSize, "max-size", d.MaxSize, "Largest graph size")
	fs.IntVar(&d.Source, "source", d.Source, "Source vertex")
	fs.IntVar(&d.Sink, "sink", d.Sink, "Sink vertex (-1 for the last vertex)")
	fs.StringSliceVarP(&d.Policies, "policies", "p", d.Policies, "Policies compared with the sequential baseline")
	fs.IntVarP(&d.Workers, "workers", "j", d.Workers, "Concurrency bound (0 for GOMAXPROCS)")
	fs.IntVar(&d.MaxSpawnDepth, "spawn-depth", d.MaxSpawnDepth, "Depth below which branches run inline (0 derives it)")
	fs.IntVar(&d.MaxTasks, "max-tasks", d.MaxTasks, "Limit on concurrent tasks per run (0 for none)")
	fs.StringVar(&d.Ordering, "order", d.Ordering, "Branch order (index, cheapest)")
	fs.BoolVar(&d.GreedySeed, "greedy-seed", d.GreedySeed, "Seed the bound with a greedy path")
	fs.BoolVar(&d.Verify, "verify", d.Verify, "Check each baseline against Dijkstra distances")
	fs.Int64Var(&d.Seed, "seed", d.Seed, "Batch seed; each size derives its own")
	fs.Int64Var(&d.MinCost, "min-cost", d.MinCost, "Smallest edge cost")
	fs.Int64Var(&d.MaxCost, "max-cost", d.MaxCost, "Largest edge cost")
	fs.Float64Var(&d.UnreachableRatio, "unreachable", d.UnreachableRatio, "Share of missing edges in [0,1)")
	fs.StringVarP(&d.CSVPath, "csv", "o", d.CSVPath, "CSV output path (empty to skip)")
	fs.StringVar(&d.MetricsFile, "metrics-file", d.MetricsFile, "Prometheus textfile output path")
	fs.BoolVar(&d.Plot, "plot", d.Plot, "Run the chart command on the CSV afterwards")
	fs.StringSliceVar(&d.PlotCommand, "plot-command", d.PlotCommand, "Chart command; the CSV path is appended (default: generate_charts.py, which reads results/benchmark_results.csv)")
	fs.BoolVar(&d.Progress, "progress", d.Progress, "Log rate-limited search progress")
	fs.Float64Var(&d.ProgressRate, "progress-rate", d.ProgressRate, "Progress reports per second")

	return cmd
}

// resolve loads the config file, if any, and applies the flags that were
// set explicitly on top of it.
func (f *runFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	if f.configPath == "" {
		return f.cfg, f.cfg.Validate()
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	fs := cmd.Flags()
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	d := f.cfg
	set("min-size", func() { cfg.MinSize = d.MinSize })
	set("max-size", func() { cfg.MaxSize = d.MaxSize })
	set("source", func() { cfg.Source = d.Source })
	set("sink", func() { cfg.Sink = d.Sink })
	set("policies", func() { cfg.Policies = d.Policies })
	set("workers", func() { cfg.Workers = d.Workers })
	set("spawn-depth", func() { cfg.MaxSpawnDepth = d.MaxSpawnDepth })
	set("max-tasks", func() { cfg.MaxTasks = d.MaxTasks })
	set("order", func() { cfg.Ordering = d.Ordering })
	set("greedy-seed", func() { cfg.GreedySeed = d.GreedySeed })
	set("verify", func() { cfg.Verify = d.Verify })
	set("seed", func() { cfg.Seed = d.Seed })
	set("min-cost", func() { cfg.MinCost = d.MinCost })
	set("max-cost", func() { cfg.MaxCost = d.MaxCost })
	set("unreachable", func() { cfg.UnreachableRatio = d.UnreachableRatio })
	set("csv", func() { cfg.CSVPath = d.CSVPath })
	set("metrics-file", func() { cfg.MetricsFile = d.MetricsFile })
	set("plot", func() { cfg.Plot = d.Plot })
	set("plot-command", func() { cfg.PlotCommand = d.PlotCommand })
	set("progress", func() { cfg.Progress = d.Progress })
	set("progress-rate", func() { cfg.ProgressRate = d.ProgressRate })

	return cfg, cfg.Validate()
}

func runBatch(ctx context.Context, cfg config.Config, f *runFlags, log *slog.Logger, stdout, stderr io.Writer) (err error) {
	if f.trace != "" {
		var shutdown func(context.Context) error
		if shutdown, err = startTracing(f.trace, stderr); err != nil {
			return err
		}
		defer func() {
			if serr := shutdown(context.Background()); serr != nil && err == nil {
				err = serr
			}
		}()
	}

	m := metrics.New()
	runner, err := bench.NewRunner(cfg, bench.WithLogger(log), bench.WithMetrics(m))
	if err != nil {
		return err
	}

	records, runErr := runner.Run(ctx)
	if len(records) == 0 {
		return runErr
	}
	if !f.quiet {
		if err = report.Print(stdout, records); err != nil {
			return err
		}
	}

	// Partial results are still exported.
	var eg errgroup.Group
	if cfg.CSVPath != "" {
		eg.Go(func() error { return export.WriteCSVFile(cfg.CSVPath, records) })
	}
	if cfg.MetricsFile != "" {
		eg.Go(func() error { return m.WriteTextfile(cfg.MetricsFile) })
	}
	if err = eg.Wait(); err != nil {
		return err
	}
	log.Info("results written",
		slog.String("run_id", runner.RunID()),
		slog.String("csv", cfg.CSVPath),
		slog.String("metrics", cfg.MetricsFile),
	)
	if runErr != nil {
		return runErr
	}

	if cfg.Plot && cfg.CSVPath != "" {
		p := export.Plotter{Command: cfg.PlotCommand, Logger: log}
		return p.Plot(ctx, cfg.CSVPath)
	}

	return nil
}

// startTracing exports spans to path, or to stderr when path is "-".
// The returned shutdown flushes spans and closes the file.
func startTracing(path string, stderr io.Writer) (func(context.Context) error, error) {
	if path == "-" {
		return telemetry.Init(stderr, version)
	}

	tf, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trace file: %w", err)
	}
	shutdown, err := telemetry.Init(tf, version)
	if err != nil {
		_ = tf.Close()
		return nil, err
	}

	return func(ctx context.Context) error {
		serr := shutdown(ctx)
		if cerr := tf.Close(); serr == nil {
			serr = cerr
		}
		return serr
	}, nil
}
