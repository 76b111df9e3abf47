// SPDX-License-Identifier: MIT

// Package config loads batch settings for the pathbnb CLI.
//
// A config file is YAML (.yaml, .yml) or HCL (.hcl). Missing keys keep the
// values from Default; the merged result is checked by Validate.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/pathbnb/costgraph"
	"github.com/katalvlaran/pathbnb/search"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Ordering names accepted in Config.Ordering.
const (
	OrderIndex    = "index"
	OrderCheapest = "cheapest"
)

// Config describes one benchmark batch.
type Config struct {
	// Sweep bounds (inclusive).
	MinSize int `yaml:"min_size" hcl:"min_size,optional" validate:"min=2,max=64"`
	MaxSize int `yaml:"max_size" hcl:"max_size,optional" validate:"gtefield=MinSize,max=64"`

	// Source vertex; Sink of -1 means the last vertex of each graph.
	Source int `yaml:"source" hcl:"source,optional" validate:"min=0"`
	Sink   int `yaml:"sink" hcl:"sink,optional" validate:"min=-1"`

	// Concurrent policies compared against the sequential baseline.
	Policies []string `yaml:"policies" hcl:"policies,optional" validate:"min=1,dive,policy"`

	Workers       int    `yaml:"workers" hcl:"workers,optional" validate:"min=0"`
	MaxSpawnDepth int    `yaml:"max_spawn_depth" hcl:"max_spawn_depth,optional" validate:"min=0"`
	MaxTasks      int    `yaml:"max_tasks" hcl:"max_tasks,optional" validate:"min=0"`
	Ordering      string `yaml:"ordering" hcl:"ordering,optional" validate:"oneof=index cheapest"`
	GreedySeed    bool   `yaml:"greedy_seed" hcl:"greedy_seed,optional"`

	// Verify checks every baseline against Dijkstra distances.
	Verify bool `yaml:"verify" hcl:"verify,optional"`

	// Graph generation.
	Seed             int64   `yaml:"seed" hcl:"seed,optional"`
	MinCost          int64   `yaml:"min_cost" hcl:"min_cost,optional" validate:"min=1"`
	MaxCost          int64   `yaml:"max_cost" hcl:"max_cost,optional" validate:"gtefield=MinCost"`
	UnreachableRatio float64 `yaml:"unreachable_ratio" hcl:"unreachable_ratio,optional" validate:"gte=0,lt=1"`

	// Output.
	CSVPath      string   `yaml:"csv_path" hcl:"csv_path,optional"`
	MetricsFile  string   `yaml:"metrics_file" hcl:"metrics_file,optional"`
	Plot         bool     `yaml:"plot" hcl:"plot,optional"`
	PlotCommand  []string `yaml:"plot_command" hcl:"plot_command,optional"` // nil: generate_charts.py
	ProgressRate float64  `yaml:"progress_rate" hcl:"progress_rate,optional" validate:"gt=0"`
	Progress     bool     `yaml:"progress" hcl:"progress,optional"`
}

// Default returns the stock batch: sizes 2..12, every concurrent policy,
// costs in [1,10], verified baselines, results/benchmark_results.csv.
func Default() Config {
	return Config{
		MinSize:      2,
		MaxSize:      12,
		Source:       0,
		Sink:         -1,
		Policies:     concurrentPolicies(),
		Ordering:     OrderIndex,
		Verify:       true,
		Seed:         1,
		MinCost:      costgraph.DefaultMinCost,
		MaxCost:      costgraph.DefaultMaxCost,
		CSVPath:      filepath.Join("results", "benchmark_results.csv"),
		ProgressRate: search.DefaultProgressRate,
	}
}

func concurrentPolicies() []string {
	var out []string
	for _, p := range search.Policies() {
		if p != search.Sequential {
			out = append(out, p.String())
		}
	}

	return out
}

// Load reads path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(path, &cfg)
	case ".hcl":
		err = decodeHCL(path, &cfg)
	default:
		return Config{}, fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}
	if err != nil {
		return Config{}, err
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func decodeYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty document leaves the defaults untouched.
	if err = dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	return nil
}

func decodeHCL(path string, cfg *Config) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("config: parse %s: %w", path, diags)
	}

	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return fmt.Errorf("config: decode %s: %w", path, diags)
	}

	return nil
}
