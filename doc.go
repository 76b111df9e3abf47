// Package pathbnb finds the minimum-cost simple path between two vertices
// of a dense directed cost matrix by branch and bound, and compares the
// concurrency policies that can drive that search.
//
// What is inside?
//
//	• Cost matrices: validated, immutable, with a seeded random generator
//	• One search engine, five scheduling policies:
//		sequential, unbounded, depth-bounded, worker-pool, fan-out
//	• A shared best-distance bound that only ever decreases
//	• Rate-limited progress snapshots
//	• A batch runner with CSV, Prometheus textfile and trace output
//
// Layout:
//
//	costgraph/          — cost matrix, validation, random generation
//	search/             — engine, bound, schedulers, options
//	internal/workpool/  — fixed-size FIFO worker pool
//	internal/bench/     — size sweep comparing policies
//	internal/config/    — YAML/HCL batch config
//	internal/export/    — CSV writer and chart process
//	internal/report/    — terminal table
//	internal/metrics/   — Prometheus textfile metrics
//	internal/telemetry/ — OpenTelemetry span export
//	internal/logging/   — slog setup
//	internal/progress/  — progress reporters
//	cmd/pathbnb/        — CLI (run, solve, policies)
//
// Quick example, costs as a matrix:
//
//	     0   1   2   3
//	0    0   2   5  10
//	1    2   0   1   4
//	2    5   1   0   1
//	3   10   4   1   0
//
// The cheapest 0→3 path is 0→1→2→3 with cost 4, whatever the policy.
//
//	go install github.com/katalvlaran/pathbnb/cmd/pathbnb@latest
package pathbnb
