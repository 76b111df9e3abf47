// SPDX-License-Identifier: MIT
package costgraph

import "errors"

// Unreachable marks a matrix entry that is not a traversable edge.
// It is distinct from every valid cost because valid costs are non-negative.
const Unreachable int64 = -1

var (
	// ErrEmpty is returned when the matrix has no rows.
	ErrEmpty = errors.New("costgraph: empty matrix")

	// ErrNonSquare is returned when some row length differs from the row count.
	ErrNonSquare = errors.New("costgraph: matrix is not square")

	// ErrDiagonal is returned when a diagonal entry is not zero.
	ErrDiagonal = errors.New("costgraph: non-zero diagonal entry")

	// ErrNegativeCost is returned for a negative cost other than Unreachable.
	ErrNegativeCost = errors.New("costgraph: negative cost")

	// ErrCostOverflow is returned when a cost is so large that a simple path
	// over all vertices could overflow int64.
	ErrCostOverflow = errors.New("costgraph: cost may overflow path sum")

	// ErrInvalidSize is returned by Random for n < 2.
	ErrInvalidSize = errors.New("costgraph: size must be at least 2")

	// ErrInvalidRange is returned by Random for an empty or negative cost
	// range, or an unreachable ratio outside [0,1).
	ErrInvalidRange = errors.New("costgraph: invalid generator range")

	// ErrVertex is returned for a vertex index outside [0, n).
	ErrVertex = errors.New("costgraph: vertex out of range")
)
