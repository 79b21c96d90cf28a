// SPDX-License-Identifier: MIT

// Recursive support search.
//
// Per frame (pool V_p × F_p):
//  1. New discrete mask over the pool; Init picks the best single node and feature.
//  2. While fidelity < threshold and elements remain: rank, grow by one node and
//     one feature, rescore. Greedy, no backtracking inside a frame.
//  3. Exit table:
//
//     fidelity ≥ τ | remaining | result
//     -------------+-----------+-------------------------------------------------
//     yes          | no        | [(V_s, F_s, fid)]             (V_s=V_p, F_s=F_p)
//     no           | no        | [(best_V, best_F, best_fid)]
//     yes          | yes       | [(V_s, F_s, fid)] ++ frame(V_s, F_r) ++ frame(V_r, F_s)
//     no           | yes       | unreachable (loop continues)
//
// Termination: in the split case both children strictly shrink one pool axis
// relative to the parent (V_s ≠ ∅ whenever V_p ≠ ∅, likewise for F), so every
// path is finite. The depth limit and the optional evaluation/time budgets are
// additional guards.

package zorro

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/katalvlaran/zorro/mask"
	"github.com/katalvlaran/zorro/support"
)

// deadlineEvery is how many evaluations pass between two wall-clock checks.
const deadlineEvery = 16

// Candidate is one explanation emitted by the search.
type Candidate struct {
	Support  support.Support
	Fidelity float64
}

// String renders "V={...} F={...} fidelity=0.930".
func (c Candidate) String() string {
	return fmt.Sprintf("%s fidelity=%.3f", c.Support, c.Fidelity)
}

// engine holds all search policies and counters of one Search call. It wraps
// the caller's scorer so that every estimate passes the budget checks.
type engine struct {
	scorer    mask.Scorer
	threshold float64
	maxDepth  int

	// Budgets
	maxEvaluations int
	evaluations    int
	useDeadline    bool
	deadline       time.Time

	frames int
	log    *zap.Logger
}

// Fidelity implements mask.Scorer with context, evaluation-count and deadline checks.
func (e *engine) Fidelity(ctx context.Context, s support.Support) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if e.maxEvaluations > 0 && e.evaluations >= e.maxEvaluations {
		return 0, fmt.Errorf("%d evaluations: %w", e.evaluations, ErrBudgetExhausted)
	}
	if e.useDeadline && e.evaluations%deadlineEvery == 0 && time.Now().After(e.deadline) {
		return 0, fmt.Errorf("deadline after %d evaluations: %w", e.evaluations, ErrBudgetExhausted)
	}
	e.evaluations++

	return e.scorer.Fidelity(ctx, s)
}

// search runs one frame over the pool (nodes, features) at the given depth.
func (e *engine) search(ctx context.Context, nodes, features support.IndexSet, depth int) ([]Candidate, error) {
	if depth >= e.maxDepth {
		return nil, fmt.Errorf("depth %d with pool V=%s F=%s: %w", depth, nodes, features, ErrRecursionLimitExceeded)
	}
	e.frames++

	m := mask.New(nodes, features, e)
	remaining, err := m.Init(ctx)
	if err != nil {
		return nil, err
	}
	fid, err := m.Fidelity(ctx)
	if err != nil {
		return nil, err
	}

	for fid < e.threshold && remaining {
		e.log.Debug("zorro: growing mask",
			zap.Int("depth", depth),
			zap.Stringer("selected", m.Selected()),
			zap.Stringer("remaining", m.Remaining()),
			zap.Float64("fidelity", fid),
		)
		rankNodes, rankFeatures, err := m.Ranking(ctx)
		if err != nil {
			return nil, err
		}
		remaining = m.Grow(rankNodes, rankFeatures)
		if fid, err = m.Fidelity(ctx); err != nil {
			return nil, err
		}
	}
	if err = m.Validate(); err != nil {
		return nil, err
	}

	switch {
	case fid >= e.threshold && !remaining:
		return []Candidate{{Support: m.Selected(), Fidelity: fid}}, nil

	case !remaining:
		best, bestFid := m.Best()
		e.log.Debug("zorro: threshold not reached, keeping best",
			zap.Int("depth", depth),
			zap.Stringer("best", best),
			zap.Float64("fidelity", bestFid),
		)
		return []Candidate{{Support: best, Fidelity: bestFid}}, nil
	}

	sel, rem := m.Selected(), m.Remaining()
	e.log.Debug("zorro: threshold reached, splitting",
		zap.Int("depth", depth),
		zap.Stringer("selected", sel),
		zap.Stringer("remaining", rem),
		zap.Float64("fidelity", fid),
	)
	out := []Candidate{{Support: sel, Fidelity: fid}}

	left, err := e.search(ctx, sel.Nodes, rem.Features, depth+1)
	if err != nil {
		return nil, err
	}
	right, err := e.search(ctx, rem.Nodes, sel.Features, depth+1)
	if err != nil {
		return nil, err
	}
	out = append(out, left...)

	return append(out, right...), nil
}

// Search runs the recursive search over the pool (nodes, features) with the
// given scorer. The scorer is typically a *fidelity.Estimator; any mask.Scorer
// works, which keeps the search testable without a policy.
//
// Errors:
//   - ErrInvalidConfiguration for bad options.
//   - ErrRecursionLimitExceeded, ErrBudgetExhausted, ctx errors, scorer errors.
func Search(ctx context.Context, scorer mask.Scorer, nodes, features support.IndexSet, opts ...Option) ([]Candidate, error) {
	o, err := gatherOptions(opts...)
	if err != nil {
		return nil, err
	}

	return search(ctx, scorer, nodes, features, o)
}

// search is Search with resolved options.
func search(ctx context.Context, scorer mask.Scorer, nodes, features support.IndexSet, o Options) (out []Candidate, err error) {
	run := uuid.NewString()
	ctx, span := startSpan(ctx, o.tracerProvider, "Search",
		attribute.String("zorro.run", run),
		attribute.Int("zorro.pool.nodes", nodes.Len()),
		attribute.Int("zorro.pool.features", features.Len()),
		attribute.Float64("zorro.threshold", o.threshold),
	)
	e := &engine{
		scorer:         scorer,
		threshold:      o.threshold,
		maxDepth:       o.maxDepth,
		maxEvaluations: o.maxEvaluations,
		log:            o.logger.With(zap.String("run", run)),
	}
	start := time.Now()
	if o.timeLimit > 0 {
		e.useDeadline = true
		e.deadline = start.Add(o.timeLimit)
	}
	defer func() {
		newSearchMetrics(o.meterProvider).record(ctx, e.frames, len(out), time.Since(start), err)
		span.SetAttributes(
			attribute.Int("zorro.frames", e.frames),
			attribute.Int("zorro.evaluations", e.evaluations),
			attribute.Int("zorro.candidates", len(out)),
		)
		endSpan(span, err)
	}()

	out, err = e.search(ctx, nodes, features, 0)
	if err != nil {
		e.log.Info("zorro: search failed", zap.Error(err), zap.Int("frames", e.frames))
		return nil, err
	}
	e.log.Info("zorro: search finished",
		zap.Int("candidates", len(out)),
		zap.Int("frames", e.frames),
		zap.Int("evaluations", e.evaluations),
		zap.Duration("took", time.Since(start)),
	)

	return out, nil
}
