// SPDX-License-Identifier: MIT

package zorro

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/zorro/fidelity"
	"github.com/katalvlaran/zorro/policy"
	"github.com/katalvlaran/zorro/support"
)

// NoTarget disables target-action matching in SelectBest and ExplainBest.
const NoTarget = -1

// Selection is the winner of SelectBest.
type Selection struct {
	Candidate

	// Explanation is mask ⊙ x for the chosen support (unkept cells zeroed).
	Explanation *mat.Dense

	// Action and Outputs are the policy's decision on Explanation.
	Action  int
	Outputs []float64

	// MatchesTarget reports whether Action equals the requested target.
	MatchesTarget bool
}

// SelectBest evaluates every candidate's masked input once and picks:
//  1. the highest-fidelity candidate whose masked input yields target, if any;
//  2. otherwise the highest-fidelity candidate overall.
//
// Ties keep the earliest candidate. With target == NoTarget rule 1 never applies.
//
// Errors: ErrEmptyCandidateSet for an empty list; shape and policy errors.
func SelectBest(ctx context.Context, p policy.Policy, x mat.Matrix, adjacency any, candidates []Candidate, target int) (Selection, error) {
	if len(candidates) == 0 {
		return Selection{}, ErrEmptyCandidateSet
	}
	if p == nil {
		return Selection{}, ErrNilPolicy
	}

	var (
		bestAny, bestMatch Selection
		haveAny, haveMatch bool
	)
	for i, c := range candidates {
		explanation, err := c.Support.Apply(x)
		if err != nil {
			return Selection{}, fmt.Errorf("candidate %d: %w", i, err)
		}
		action, outputs, err := policy.Predict(ctx, p, explanation, adjacency)
		if err != nil {
			return Selection{}, fmt.Errorf("candidate %d: %w", i, err)
		}
		sel := Selection{
			Candidate:     c,
			Explanation:   explanation,
			Action:        action,
			Outputs:       outputs,
			MatchesTarget: target != NoTarget && action == target,
		}
		if !haveAny || c.Fidelity > bestAny.Fidelity {
			bestAny, haveAny = sel, true
		}
		if sel.MatchesTarget && (!haveMatch || c.Fidelity > bestMatch.Fidelity) {
			bestMatch, haveMatch = sel, true
		}
	}
	if haveMatch {
		return bestMatch, nil
	}

	return bestAny, nil
}

// ExplainBest runs Explain and SelectBest: the single best explanation of the
// policy's decision on x for the given target action.
func ExplainBest(ctx context.Context, p policy.Policy, x mat.Matrix, adjacency any, target int, opts ...Option) (Selection, error) {
	candidates, err := Explain(ctx, p, x, adjacency, opts...)
	if err != nil {
		return Selection{}, err
	}

	return SelectBest(ctx, p, x, adjacency, candidates, target)
}

// ModeScorer scores a support with an explicit mode. *fidelity.Estimator
// implements it.
type ModeScorer interface {
	Score(ctx context.Context, s support.Support, mode fidelity.Mode) (float64, error)
}

// Rescore returns a copy of candidates whose Fidelity is replaced by the
// single-shot Deterministic score (unkept cells zeroed, negated MSE). Use it to
// compare complete candidates without sampling noise.
func Rescore(ctx context.Context, s ModeScorer, candidates []Candidate) ([]Candidate, error) {
	out := make([]Candidate, len(candidates))
	for i, c := range candidates {
		fid, err := s.Score(ctx, c.Support, fidelity.Deterministic)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		out[i] = Candidate{Support: c.Support, Fidelity: fid}
	}

	return out, nil
}
