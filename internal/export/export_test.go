// SPDX-License-Identifier: MIT
package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pathbnb/internal/bench"
	"github.com/katalvlaran/pathbnb/internal/export"
	"github.com/katalvlaran/pathbnb/search"
)

func sampleRecords() []bench.Record {
	return []bench.Record{
		{RunID: "r1", Size: 4, Mode: search.Sequential, Found: true, MinDistance: 4,
			Elapsed: 1500 * time.Microsecond, Visited: 9, Pruned: 2},
		{RunID: "r1", Size: 4, Mode: search.FanOut, Found: true, MinDistance: 4,
			Elapsed: 500 * time.Microsecond, Visited: 11, Pruned: 3, Threads: 6, Workers: 4, Speedup: 3},
		{RunID: "r1", Size: 5, Mode: search.Sequential, Elapsed: time.Millisecond},
	}
}

func TestWriteCSV_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, export.Header, rows[0])
	require.Equal(t, []string{"4", "Secuencial", "4", "0.001500", "9", "2", "N/A", "N/A", "sequential", "N/A", "r1"}, rows[1])
	require.Equal(t, []string{"4", "Paralelo", "4", "0.000500", "11", "3", "6", "3.00", "fan-out", "4", "r1"}, rows[2])
	require.Equal(t, "No encontrada", rows[3][2])
}

// generate_charts.py indexes these columns and filters on these labels.
func TestHeader_MatchesChartScript(t *testing.T) {
	chartColumns := []string{
		"Tamaño de Matriz",
		"Tipo de Ejecución",
		"Distancia Mínima",
		"Tiempo (s)",
		"Hilos Creados",
		"Celdas Visitadas",
		"Caminos Podados",
		"Speedup",
	}
	for _, col := range chartColumns {
		require.Contains(t, export.Header, col)
	}
	require.Equal(t, "Secuencial", export.ModeSequential)
	require.Equal(t, "Paralelo", export.ModeParallel)

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleRecords()))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	modeCol := slices.Index(rows[0], "Tipo de Ejecución")
	require.GreaterOrEqual(t, modeCol, 0)
	for _, r := range rows[1:] {
		require.Contains(t, []string{"Secuencial", "Paralelo"}, r[modeCol])
	}
}

func TestWriteCSVFile_CreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "nested", "bench.csv")
	require.NoError(t, export.WriteCSVFile(path, sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("Tamaño de Matriz,Tipo de Ejecución,")))
}

func TestPlotter_RunsCommandWithCSVPath(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	marker := filepath.Join(dir, "called")

	p := export.Plotter{Command: []string{sh, "-c", `echo "$0" > ` + marker}, Dir: dir}
	require.NoError(t, p.Plot(context.Background(), "bench.csv"))

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	require.Equal(t, "bench.csv\n", string(data))
}

func TestPlotter_Failure(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	p := export.Plotter{Command: []string{sh, "-c", "echo broken >&2; exit 3"}}
	err = p.Plot(context.Background(), "x.csv")
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken")
}

func TestPlotter_EmptyCommand(t *testing.T) {
	p := export.Plotter{Command: []string{}}
	require.ErrorIs(t, p.Plot(context.Background(), "x.csv"), export.ErrNoCommand)
}

func TestPlotter_ErrorOutputIsFailure(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	p := export.Plotter{Command: []string{sh, "-c", "echo 'Error al generar graficos: KeyError'; exit 0"}}
	err = p.Plot(context.Background(), "x.csv")
	require.ErrorIs(t, err, export.ErrPlotFailed)
	require.Contains(t, err.Error(), "KeyError")
}

func TestPlotter_DefaultCommandNeedsChartsCSV(t *testing.T) {
	dir := t.TempDir()
	p := export.Plotter{Dir: dir}

	err := p.Plot(context.Background(), filepath.Join(dir, "elsewhere.csv"))
	require.ErrorIs(t, err, export.ErrChartsPath)
}
