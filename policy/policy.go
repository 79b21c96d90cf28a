// Package policy defines the capability the explanation engine needs from a
// trained GNN policy, plus small helpers to read its decisions.
//
// The engine never depends on a concrete model: anything that maps a batch of
// N×D feature matrices and an opaque adjacency value to a batch×A output matrix
// is a Policy. The adjacency value is passed through unchanged and never inspected.
package policy

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNilPolicy indicates that a nil Policy was handed to the engine.
	ErrNilPolicy = errors.New("policy: nil policy")

	// ErrShapeMismatch indicates that inputs or outputs do not have the shape the
	// contract requires (e.g. output rows != batch size, empty action space).
	ErrShapeMismatch = errors.New("policy: shape mismatch")
)

// Policy evaluates a batch of feature matrices over a fixed graph.
//
// Contract:
//   - every element of batch is an N×D matrix;
//   - the returned outputs matrix has len(batch) rows and A>0 columns, row b
//     holding the action values for batch[b];
//   - the auxiliary value is policy-specific and ignored by the engine;
//   - implementations must not retain or mutate batch.
type Policy interface {
	Evaluate(ctx context.Context, batch []*mat.Dense, adjacency any) (outputs *mat.Dense, aux any, err error)
}

// Func adapts an ordinary function to the Policy interface.
type Func func(ctx context.Context, batch []*mat.Dense, adjacency any) (*mat.Dense, any, error)

// Evaluate calls f.
func (f Func) Evaluate(ctx context.Context, batch []*mat.Dense, adjacency any) (*mat.Dense, any, error) {
	return f(ctx, batch, adjacency)
}

// Argmax returns the index of the largest value, the first one on ties.
// Returns -1 for an empty row.
func Argmax(row []float64) int {
	if len(row) == 0 {
		return -1
	}

	return floats.MaxIdx(row)
}

// Actions returns the argmax of every row of outputs.
func Actions(outputs mat.Matrix) []int {
	r, _ := outputs.Dims()
	out := make([]int, r)
	for i := 0; i < r; i++ {
		out[i] = Argmax(mat.Row(nil, i, outputs))
	}

	return out
}

// Run evaluates batch and validates the output shape against the contract.
func Run(ctx context.Context, p Policy, batch []*mat.Dense, adjacency any) (*mat.Dense, error) {
	if p == nil {
		return nil, ErrNilPolicy
	}
	outputs, _, err := p.Evaluate(ctx, batch, adjacency)
	if err != nil {
		return nil, fmt.Errorf("policy: evaluate batch of %d: %w", len(batch), err)
	}
	if outputs == nil {
		return nil, fmt.Errorf("nil outputs: %w", ErrShapeMismatch)
	}
	r, c := outputs.Dims()
	if r != len(batch) || c == 0 {
		return nil, fmt.Errorf("outputs %dx%d for batch of %d: %w", r, c, len(batch), ErrShapeMismatch)
	}

	return outputs, nil
}

// Predict evaluates a single input and returns its action and action values.
func Predict(ctx context.Context, p Policy, x *mat.Dense, adjacency any) (int, []float64, error) {
	outputs, err := Run(ctx, p, []*mat.Dense{x}, adjacency)
	if err != nil {
		return 0, nil, err
	}
	row := mat.Row(nil, 0, outputs)

	return Argmax(row), row, nil
}
