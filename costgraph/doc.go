// SPDX-License-Identifier: MIT
// Package costgraph provides the immutable cost matrix searched by package search.
//
// A Graph is an n×n matrix of non-negative int64 costs with a zero diagonal.
// Two encodings mean "no edge":
//
//   - Unreachable (-1), the explicit sentinel; never a valid cost.
//   - An off-diagonal zero, which the search never traverses.
//
// Graphs are validated and copied on construction and never mutated
// afterwards, so a single *Graph may be read by any number of goroutines
// without synchronization.
//
// Constructors:
//
//   - New(rows)            validates and copies a caller-supplied matrix.
//   - Random(n, opts...)   draws uniform costs from a deterministic seed.
//
// Errors:
//
//   - ErrEmpty, ErrNonSquare, ErrDiagonal, ErrNegativeCost, ErrCostOverflow
//     for malformed matrices.
//   - ErrInvalidSize, ErrInvalidRange for generator parameters.
//
// Complexity:
//
//   - New, Random: O(n²) time and memory.
//   - Cost, At: O(1).
package costgraph
