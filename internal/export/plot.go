// SPDX-License-Identifier: MIT
package export

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	// ErrNoCommand is returned by Plot when the command line is empty.
	ErrNoCommand = errors.New("export: empty plot command")

	// ErrChartsPath is returned when the default chart script would not
	// read the CSV that was written.
	ErrChartsPath = errors.New("export: chart script reads a different csv")

	// ErrPlotFailed is returned when the plotter exits 0 but reports an error.
	ErrPlotFailed = errors.New("export: plotter reported an error")
)

// DefaultPlotCommand is the chart script. It takes no arguments and always
// reads ChartsCSV relative to its working directory.
var DefaultPlotCommand = []string{"python3", "generate_charts.py"}

// ChartsCSV is the file DefaultPlotCommand reads.
var ChartsCSV = filepath.Join("results", "benchmark_results.csv")

// Plotter runs an external chart generator on a CSV file.
type Plotter struct {
	// Command is the program and its leading arguments; the CSV path is
	// appended. Nil runs DefaultPlotCommand without arguments.
	Command []string

	// Dir is the working directory; empty means the current one.
	Dir string

	Logger *slog.Logger
}

// Plot runs the chart command for csvPath and waits for it.
//
// A non-zero exit, or an output line starting with "Error", is a failure;
// the chart script reports its errors that way and still exits 0. The
// combined output is logged at debug level and included in the error.
func (p Plotter) Plot(ctx context.Context, csvPath string) error {
	argv := p.Command
	if argv == nil {
		if err := p.checkChartsCSV(csvPath); err != nil {
			return err
		}
		argv = DefaultPlotCommand
	} else {
		argv = append(argv[:len(argv):len(argv)], csvPath)
	}
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return ErrNoCommand
	}
	log := p.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = p.Dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	log.Info("generating charts", slog.String("command", strings.Join(cmd.Args, " ")))
	err := cmd.Run()
	text := strings.TrimSpace(out.String())
	if text != "" {
		log.Debug("plotter output", slog.String("output", text))
	}
	if err != nil {
		return fmt.Errorf("export: plot %s: %w: %s", argv[0], err, text)
	}
	if line, ok := errorLine(text); ok {
		return fmt.Errorf("export: plot %s: %w: %s", argv[0], ErrPlotFailed, line)
	}

	return nil
}

// checkChartsCSV makes sure csvPath is the file the default script reads
// from Dir.
func (p Plotter) checkChartsCSV(csvPath string) error {
	want, err := filepath.Abs(filepath.Join(p.Dir, ChartsCSV))
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	got, err := filepath.Abs(csvPath)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if got != want {
		return fmt.Errorf("%w: wrote %s, script reads %s", ErrChartsPath, got, want)
	}

	return nil
}

func errorLine(text string) (string, bool) {
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); strings.HasPrefix(line, "Error") {
			return line, true
		}
	}

	return "", false
}
