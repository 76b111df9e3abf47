// SPDX-License-Identifier: MIT

// Package report renders batch records for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/katalvlaran/pathbnb/internal/bench"
	"github.com/katalvlaran/pathbnb/search"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorMuted  = lipgloss.Color("#2C4A54")
	colorGood   = lipgloss.Color("#2CD7C7")
	colorBad    = lipgloss.Color("#E74C3C")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)

var headers = []string{"Size", "Mode", "Distance", "Elapsed", "Visited", "Pruned", "Tasks", "Speedup"}

// columns rendered right-aligned
var numeric = map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true}

const speedupCol = 7

// Table renders records as a bordered table.
func Table(records []bench.Record) string {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = cells(rec)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			st := cellStyle
			if numeric[col] {
				st = numberStyle
			}
			if col == speedupCol && row >= 0 && row < len(records) && !records[row].Baseline() {
				if records[row].Speedup >= 1 {
					st = st.Foreground(colorGood)
				} else {
					st = st.Foreground(colorBad)
				}
			}

			return st
		})

	return t.String()
}

func cells(rec bench.Record) []string {
	dist := "-"
	if rec.Found {
		dist = humanize.Comma(rec.MinDistance)
	}
	tasks, speedup := "-", "-"
	if !rec.Baseline() {
		tasks = humanize.Comma(rec.Threads)
		speedup = strconv.FormatFloat(rec.Speedup, 'f', 2, 64) + "x"
	}

	return []string{
		strconv.Itoa(rec.Size),
		rec.Mode.String(),
		dist,
		rec.Elapsed.Round(time.Microsecond).String(),
		humanize.Comma(rec.Visited),
		humanize.Comma(rec.Pruned),
		tasks,
		speedup,
	}
}

// Summary names the fastest concurrent policy per size and the overall
// expansion count.
func Summary(records []bench.Record) string {
	type best struct {
		policy  search.Policy
		speedup float64
	}
	var (
		order   []int
		fastest = map[int]best{}
		visited int64
	)
	for _, rec := range records {
		visited += rec.Visited
		if rec.Baseline() {
			order = append(order, rec.Size)
			continue
		}
		if b, ok := fastest[rec.Size]; !ok || rec.Speedup > b.speedup {
			fastest[rec.Size] = best{rec.Mode, rec.Speedup}
		}
	}

	out := titleStyle.Render(fmt.Sprintf("%d runs, %s vertices expanded", len(records), humanize.Comma(visited))) + "\n"
	for _, n := range order {
		if b, ok := fastest[n]; ok {
			out += fmt.Sprintf("  size %-3d fastest %-13s %.2fx\n", n, b.policy, b.speedup)
		}
	}

	return out
}

// Print writes the table and the summary to w.
func Print(w io.Writer, records []bench.Record) error {
	_, err := fmt.Fprintf(w, "%s\n%s", Table(records), Summary(records))
	return err
}
