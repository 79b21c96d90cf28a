package zorro

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/zorro/fidelity"
	"github.com/katalvlaran/zorro/policy"
	"github.com/katalvlaran/zorro/support"
)

// Explain searches explanations of the policy's decision on x.
//
// x is the N×D feature matrix; adjacency is passed to the policy untouched.
// Pools start as the full index ranges [0,N) and [0,D).
//
// Errors:
//   - ErrInvalidConfiguration, ErrNilPolicy.
//   - ErrShapeMismatch when x is empty or does not match WithNodes/WithFeatures.
//   - any error from Search or the policy.
func Explain(ctx context.Context, p policy.Policy, x mat.Matrix, adjacency any, opts ...Option) (out []Candidate, err error) {
	o, err := gatherOptions(opts...)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNilPolicy
	}
	n, d, err := checkShape(x, o)
	if err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, o.tracerProvider, "Explain",
		attribute.Int("zorro.nodes", n),
		attribute.Int("zorro.features", d),
		attribute.String("zorro.mode", o.fidelity.Mode.String()),
		attribute.Int("zorro.samples", o.fidelity.Samples),
	)
	defer func() { endSpan(span, err) }()

	est, err := fidelity.NewEstimator(ctx, p, x, adjacency, o.fidelity)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("zorro.action", est.Action()))

	return search(ctx, est, support.Range(n), support.Range(d), o)
}

// ExplainBatch accepts the batched (1, N, D) form of the input: xs must hold
// exactly one feature matrix.
func ExplainBatch(ctx context.Context, p policy.Policy, xs []*mat.Dense, adjacency any, opts ...Option) ([]Candidate, error) {
	if len(xs) != 1 || xs[0] == nil {
		return nil, fmt.Errorf("batch of %d inputs, want 1: %w", len(xs), ErrShapeMismatch)
	}

	return Explain(ctx, p, xs[0], adjacency, opts...)
}

// checkShape returns (N, D) or ErrShapeMismatch.
func checkShape(x mat.Matrix, o Options) (int, int, error) {
	if x == nil {
		return 0, 0, fmt.Errorf("nil features: %w", ErrShapeMismatch)
	}
	n, d := x.Dims()
	if n == 0 || d == 0 {
		return 0, 0, fmt.Errorf("features %dx%d: %w", n, d, ErrShapeMismatch)
	}
	if (o.nodes > 0 && n != o.nodes) || (o.features > 0 && d != o.features) {
		return 0, 0, fmt.Errorf("features %dx%d, configured %dx%d: %w", n, d, o.nodes, o.features, ErrShapeMismatch)
	}

	return n, d, nil
}
