// SPDX-License-Identifier: MIT

package support

import "errors"

var (
	// ErrOutOfRange indicates that a support references a node or feature index
	// outside the N×D shape it is being materialized for.
	ErrOutOfRange = errors.New("support: index out of range")

	// ErrBadShape is returned when a mask tensor is requested for a non-positive
	// shape, including Apply on an empty matrix.
	ErrBadShape = errors.New("support: invalid shape")
)

// panicNegativeIndex is raised by IndexSet constructors on programmer error.
const panicNegativeIndex = "support: negative index"
