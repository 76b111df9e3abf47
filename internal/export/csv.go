// SPDX-License-Identifier: MIT

// Package export writes batch records for external tools: a CSV file and an
// optional chart process that reads it.
//
// The CSV layout is the one the chart script (generate_charts.py) reads:
// its column names and the two execution labels are fixed by that script.
// Columns it does not know (policy, workers, run id) are appended after them.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/katalvlaran/pathbnb/internal/bench"
)

// Column names read by the chart script.
const (
	ColSize     = "Tamaño de Matriz"
	ColMode     = "Tipo de Ejecución"
	ColDistance = "Distancia Mínima"
	ColTime     = "Tiempo (s)"
	ColVisited  = "Celdas Visitadas"
	ColPruned   = "Caminos Podados"
	ColThreads  = "Hilos Creados"
	ColSpeedup  = "Speedup"
)

// Extra columns, ignored by the chart script.
const (
	ColPolicy  = "Policy"
	ColWorkers = "Workers"
	ColRunID   = "RunID"
)

// Execution labels in the ColMode column. Every concurrent policy is
// "Paralelo"; ColPolicy tells them apart.
const (
	ModeSequential = "Secuencial"
	ModeParallel   = "Paralelo"
)

// NotApplicable fills cells that have no value for a row, such as the
// speedup of the sequential baseline. The chart script coerces it to NaN.
const NotApplicable = "N/A"

// NotFound fills the distance cell when the sink is unreachable.
const NotFound = "No encontrada"

// Header is the first CSV line.
var Header = []string{
	ColSize, ColMode, ColDistance, ColTime, ColVisited, ColPruned,
	ColThreads, ColSpeedup, ColPolicy, ColWorkers, ColRunID,
}

// WriteCSV writes Header followed by one line per record.
func WriteCSV(w io.Writer, records []bench.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}
	for i, rec := range records {
		if err := cw.Write(row(rec)); err != nil {
			return fmt.Errorf("export: record %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}

	return nil
}

// WriteCSVFile writes records to path, creating parent directories.
func WriteCSVFile(path string, records []bench.Record) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export: close %s: %w", path, cerr)
		}
	}()

	return WriteCSV(f, records)
}

func row(rec bench.Record) []string {
	dist := NotFound
	if rec.Found {
		dist = strconv.FormatInt(rec.MinDistance, 10)
	}
	mode := ModeSequential
	threads, workers, speedup := NotApplicable, NotApplicable, NotApplicable
	if !rec.Baseline() {
		mode = ModeParallel
		threads = strconv.FormatInt(rec.Threads, 10)
		workers = strconv.Itoa(rec.Workers)
		speedup = strconv.FormatFloat(rec.Speedup, 'f', 2, 64)
	}

	return []string{
		strconv.Itoa(rec.Size),
		mode,
		dist,
		strconv.FormatFloat(rec.Elapsed.Seconds(), 'f', 6, 64),
		strconv.FormatInt(rec.Visited, 10),
		strconv.FormatInt(rec.Pruned, 10),
		threads,
		speedup,
		rec.Mode.String(),
		workers,
		rec.RunID,
	}
}
