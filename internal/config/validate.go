// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"runtime"

	"github.com/go-playground/validator/v10"

	"github.com/katalvlaran/pathbnb/search"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("policy", validatePolicy); err != nil {
		panic(fmt.Sprintf("config: register policy validation: %v", err))
	}
}

// validatePolicy accepts any name understood by search.ParsePolicy.
func validatePolicy(fl validator.FieldLevel) bool {
	_, err := search.ParsePolicy(fl.Field().String())
	return err == nil
}

// Validate checks field constraints and the source/sink pair against the
// smallest graph of the sweep.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	sink := c.SinkFor(c.MinSize)
	switch {
	case c.Source >= c.MinSize:
		return fmt.Errorf("%w: source %d outside graph of size %d", ErrInvalid, c.Source, c.MinSize)
	case sink >= c.MinSize:
		return fmt.Errorf("%w: sink %d outside graph of size %d", ErrInvalid, sink, c.MinSize)
	case sink == c.Source:
		return fmt.Errorf("%w: source and sink are both %d at size %d", ErrInvalid, sink, c.MinSize)
	}

	return nil
}

// SinkFor resolves the sink vertex for a graph with n vertices.
func (c Config) SinkFor(n int) int {
	if c.Sink < 0 {
		return n - 1
	}

	return c.Sink
}

// SearchPolicies parses Policies in order, dropping duplicates and the
// sequential baseline which always runs first.
func (c Config) SearchPolicies() ([]search.Policy, error) {
	seen := make(map[search.Policy]bool, len(c.Policies))
	out := make([]search.Policy, 0, len(c.Policies))
	for _, name := range c.Policies {
		p, err := search.ParsePolicy(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		if p == search.Sequential || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}

	return out, nil
}

// SearchOptions maps the engine settings to search options. The policy is
// left for the caller.
func (c Config) SearchOptions() []search.Option {
	workers := c.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	order := search.IndexOrder
	if c.Ordering == OrderCheapest {
		order = search.CheapestFirst
	}

	opts := []search.Option{
		search.WithWorkers(workers),
		search.WithMaxSpawnDepth(c.MaxSpawnDepth),
		search.WithMaxTasks(c.MaxTasks),
		search.WithOrdering(order),
		search.WithProgressRate(c.ProgressRate),
	}
	if c.GreedySeed {
		opts = append(opts, search.WithGreedySeed())
	}

	return opts
}
