// SPDX-License-Identifier: MIT

// Package fidelity - Estimator.
//
// Algorithm (sampled modes):
//  1. Evaluate the unmodified input once (NewEstimator) → baseline q, action a.
//  2. For a support S: base = mask(S) ⊙ X; unkept = offsets of cells ∉ S.
//  3. Build Samples copies of base, filling unkept cells with fresh uniform noise
//     from the stream derived from (Seed, fingerprint(S)).
//  4. Evaluate all copies with ONE policy call.
//  5. ActionAgreement:  |{s : argmax(q_s) == a}| / Samples.
//     OutputSimilarity: -(1/Samples)·Σ_s mean_a (q − q_s)².
//
// Deterministic mode skips 2–4: it evaluates mask(S) ⊙ X once and returns
// -mean_a (q − q')².
package fidelity

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/zorro/policy"
	"github.com/katalvlaran/zorro/support"
)

// Estimator scores supports of one fixed (policy, input, adjacency) triple.
// It is not safe for concurrent use.
type Estimator struct {
	policy    policy.Policy
	adjacency any

	x    *mat.Dense // private copy of the explained input
	n, d int        // node and feature counts

	baseline []float64 // action values on the unmodified input
	action   int       // argmax of baseline

	opts        Options
	log         *zap.Logger
	ins         instruments
	evaluations int // policy calls issued through Fidelity (baseline excluded)
}

// NewEstimator validates opts, copies x and evaluates the unmodified input once.
//
// Errors:
//   - ErrInvalidConfiguration for bad options.
//   - policy.ErrNilPolicy, policy.ErrShapeMismatch, or the policy's own error.
func NewEstimator(ctx context.Context, p policy.Policy, x mat.Matrix, adjacency any, opts Options) (*Estimator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, policy.ErrNilPolicy
	}
	if x == nil {
		return nil, fmt.Errorf("nil features: %w", policy.ErrShapeMismatch)
	}
	n, d := x.Dims()
	if n == 0 || d == 0 {
		return nil, fmt.Errorf("features %dx%d: %w", n, d, policy.ErrShapeMismatch)
	}
	opts = opts.withFallbacks()

	xc := mat.DenseCopyOf(x)
	action, baseline, err := policy.Predict(ctx, p, xc, adjacency)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("fidelity: baseline evaluated",
		zap.Int("nodes", n),
		zap.Int("features", d),
		zap.Int("action", action),
		zap.Stringer("mode", opts.Mode),
		zap.Int("samples", opts.Samples),
	)

	return &Estimator{
		policy:    p,
		adjacency: adjacency,
		x:         xc,
		n:         n,
		d:         d,
		baseline:  baseline,
		action:    action,
		opts:      opts,
		log:       opts.Logger,
		ins:       newInstruments(opts.MeterProvider),
	}, nil
}

// Shape returns (N, D) of the explained input.
func (e *Estimator) Shape() (nodes, features int) { return e.n, e.d }

// Action returns the policy's action on the unmodified input.
func (e *Estimator) Action() int { return e.action }

// Baseline returns a copy of the action values on the unmodified input.
func (e *Estimator) Baseline() []float64 { return append([]float64(nil), e.baseline...) }

// Input returns a copy of the explained input.
func (e *Estimator) Input() *mat.Dense { return mat.DenseCopyOf(e.x) }

// Options returns the effective options.
func (e *Estimator) Options() Options { return e.opts }

// Evaluations returns the number of policy calls issued by Fidelity so far.
func (e *Estimator) Evaluations() int { return e.evaluations }

// Fidelity scores s with the configured mode.
func (e *Estimator) Fidelity(ctx context.Context, s support.Support) (float64, error) {
	return e.Score(ctx, s, e.opts.Mode)
}

// Score scores s with an explicit mode, independent of the configured one.
func (e *Estimator) Score(ctx context.Context, s support.Support, mode Mode) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var (
		fid     float64
		samples int
		err     error
	)
	switch mode {
	case ActionAgreement, OutputSimilarity:
		samples = e.opts.Samples
		fid, err = e.sampled(ctx, s, mode)
	case Deterministic:
		samples = 1
		fid, err = e.deterministic(ctx, s)
	default:
		return 0, fmt.Errorf("%s: %w", mode, ErrInvalidConfiguration)
	}
	if err != nil {
		return 0, err
	}
	e.evaluations++
	e.ins.record(ctx, mode, samples, fid)

	return fid, nil
}

// sampled implements ActionAgreement and OutputSimilarity.
func (e *Estimator) sampled(ctx context.Context, s support.Support, mode Mode) (float64, error) {
	// Stage 1: masked base and the offsets that receive noise.
	base, err := s.Apply(e.x)
	if err != nil {
		return 0, err
	}
	unkept, err := s.Offsets(e.n, e.d)
	if err != nil {
		return 0, err
	}
	raw := base.RawMatrix().Data // fresh Dense: stride == d, len == n*d

	// Stage 2: noisy batch from the support's own stream.
	rng := streamRNG(e.opts.Seed, s.Fingerprint())
	batch := make([]*mat.Dense, e.opts.Samples)

	var k int
	for k = 0; k < e.opts.Samples; k++ {
		data := make([]float64, len(raw))
		copy(data, raw)
		for _, off := range unkept {
			data[off] = uniform(rng, e.opts.NoiseLow, e.opts.NoiseHigh)
		}
		batch[k] = mat.NewDense(e.n, e.d, data)
	}

	// Stage 3: one batched evaluation.
	outputs, err := policy.Run(ctx, e.policy, batch, e.adjacency)
	if err != nil {
		return 0, err
	}
	if _, c := outputs.Dims(); c != len(e.baseline) {
		return 0, fmt.Errorf("outputs have %d actions, baseline %d: %w", c, len(e.baseline), policy.ErrShapeMismatch)
	}

	// Stage 4: compare.
	if mode == ActionAgreement {
		agree := 0
		for _, a := range policy.Actions(outputs) {
			if a == e.action {
				agree++
			}
		}

		return float64(agree) / float64(e.opts.Samples), nil
	}

	var total float64
	row := make([]float64, len(e.baseline))
	for k = 0; k < e.opts.Samples; k++ {
		mat.Row(row, k, outputs)
		total += meanSquaredError(e.baseline, row)
	}

	return -total / float64(e.opts.Samples), nil
}

// deterministic implements the single-shot zero-masking mode.
func (e *Estimator) deterministic(ctx context.Context, s support.Support) (float64, error) {
	masked, err := s.Apply(e.x)
	if err != nil {
		return 0, err
	}
	_, q, err := policy.Predict(ctx, e.policy, masked, e.adjacency)
	if err != nil {
		return 0, err
	}
	if len(q) != len(e.baseline) {
		return 0, fmt.Errorf("outputs have %d actions, baseline %d: %w", len(q), len(e.baseline), policy.ErrShapeMismatch)
	}

	return -meanSquaredError(e.baseline, q), nil
}

// meanSquaredError returns mean_i (a_i − b_i)². Lengths must match.
func meanSquaredError(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}

	return sum / float64(len(a))
}

// Compute is the one-shot form fidelity(policy, X, A, support): it builds a
// throwaway Estimator and scores s once.
func Compute(ctx context.Context, p policy.Policy, x mat.Matrix, adjacency any, s support.Support, opts Options) (float64, error) {
	est, err := NewEstimator(ctx, p, x, adjacency, opts)
	if err != nil {
		return 0, err
	}

	return est.Fidelity(ctx, s)
}
