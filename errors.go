// SPDX-License-Identifier: MIT

package zorro

import (
	"errors"

	"github.com/katalvlaran/zorro/fidelity"
	"github.com/katalvlaran/zorro/policy"
)

// Sentinels are matched with errors.Is. Context is attached with %w at the
// detection site; the sentinel identity is always preserved.
var (
	// ErrInvalidConfiguration: bad sample count, threshold outside [0,1],
	// non-positive depth limit, unknown mode, bad noise range.
	ErrInvalidConfiguration = fidelity.ErrInvalidConfiguration

	// ErrShapeMismatch: the feature tensor does not match the configured node
	// or feature counts, a batched input does not hold exactly one matrix, or
	// the policy returned outputs of the wrong shape.
	ErrShapeMismatch = policy.ErrShapeMismatch

	// ErrNilPolicy: a nil policy was passed to an entry point.
	ErrNilPolicy = policy.ErrNilPolicy

	// ErrEmptyCandidateSet: the selector received no candidates.
	ErrEmptyCandidateSet = errors.New("zorro: empty candidate set")

	// ErrRecursionLimitExceeded: the search went deeper than the depth limit.
	ErrRecursionLimitExceeded = errors.New("zorro: recursion limit exceeded")

	// ErrBudgetExhausted: the evaluation count or wall-clock budget ran out.
	ErrBudgetExhausted = errors.New("zorro: search budget exhausted")
)
