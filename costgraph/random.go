// SPDX-License-Identifier: MIT
package costgraph

import "fmt"

// Generator defaults match the benchmark the engine was first measured with.
const (
	DefaultMinCost int64 = 1
	DefaultMaxCost int64 = 10
)

// Option configures Random.
type Option func(*GenOptions)

// GenOptions holds the parameters of Random.
type GenOptions struct {
	// Seed selects the random stream; 0 means a fixed default seed.
	Seed int64

	// MinCost and MaxCost bound the uniform cost distribution (inclusive).
	MinCost int64
	MaxCost int64

	// UnreachableRatio is the probability in [0,1) that an off-diagonal
	// entry is replaced by Unreachable.
	UnreachableRatio float64
}

// DefaultGenOptions returns seed 0, costs in [1,10] and no unreachable entries.
func DefaultGenOptions() GenOptions {
	return GenOptions{
		Seed:             0,
		MinCost:          DefaultMinCost,
		MaxCost:          DefaultMaxCost,
		UnreachableRatio: 0,
	}
}

// WithSeed sets the generator seed.
func WithSeed(seed int64) Option {
	return func(o *GenOptions) { o.Seed = seed }
}

// WithCostRange sets the inclusive cost range.
func WithCostRange(lo, hi int64) Option {
	return func(o *GenOptions) {
		o.MinCost = lo
		o.MaxCost = hi
	}
}

// WithUnreachableRatio sets the probability of an Unreachable entry.
func WithUnreachableRatio(p float64) Option {
	return func(o *GenOptions) { o.UnreachableRatio = p }
}

// Random returns an n×n Graph with a zero diagonal and uniform costs.
//
// Determinism: entries are drawn in row-major order from one stream, so the
// same (n, options) always yields the same matrix.
//
// Complexity: O(n²).
func Random(n int, opts ...Option) (*Graph, error) {
	// 1. Options.
	o := DefaultGenOptions()
	for _, fn := range opts {
		fn(&o)
	}

	// 2. Validate parameters.
	if n < 2 {
		return nil, fmt.Errorf("Random: n=%d: %w", n, ErrInvalidSize)
	}
	if o.MinCost < 1 || o.MaxCost < o.MinCost {
		return nil, fmt.Errorf("Random: cost range [%d,%d]: %w", o.MinCost, o.MaxCost, ErrInvalidRange)
	}
	if o.UnreachableRatio < 0 || o.UnreachableRatio >= 1 {
		return nil, fmt.Errorf("Random: unreachable ratio %.3f: %w", o.UnreachableRatio, ErrInvalidRange)
	}

	// 3. Draw entries row-major.
	rng := rngFromSeed(o.Seed)
	span := o.MaxCost - o.MinCost + 1
	rows := make([][]int64, n)
	var i, j int
	for i = 0; i < n; i++ {
		rows[i] = make([]int64, n)
		for j = 0; j < n; j++ {
			if i == j {
				continue
			}
			if o.UnreachableRatio > 0 && rng.Float64() < o.UnreachableRatio {
				rows[i][j] = Unreachable
				continue
			}
			rows[i][j] = o.MinCost + rng.Int63n(span)
		}
	}

	// 4. Reuse the strict constructor (overflow guard included).
	return New(rows)
}
