// SPDX-License-Identifier: MIT

// pathbnb finds minimum-cost simple paths by branch and bound and compares
// concurrent scheduling policies on random graphs.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pathbnb/internal/logging"
)

const version = "0.3.0"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
}

func (g *globalFlags) logger(w io.Writer) *slog.Logger {
	return logging.NewLoggerWithWriter(logging.ParseLevel(g.logLevel), g.logFormat, w)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:     "pathbnb",
		Short:   "Branch-and-bound shortest simple paths with pluggable concurrency",
		Version: version,
		Long: `pathbnb searches a dense cost matrix for the cheapest simple path
between two vertices and benchmarks the concurrency policies of the engine.

Examples:
  # Benchmark sizes 2..12 with every policy, writing results/benchmark_results.csv
  pathbnb run

  # Benchmark from a config file and render charts afterwards
  pathbnb run --config batch.yaml --plot

  # Solve one random graph and print the optimal path
  pathbnb solve --size 10 --seed 7 --policy fan-out --print-matrix
`,
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(newRunCmd(g))
	root.AddCommand(newSolveCmd(g))
	root.AddCommand(newPoliciesCmd())

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
