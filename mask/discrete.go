// SPDX-License-Identifier: MIT

package mask

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/zorro/support"
)

// ErrPartition reports a breach of V_p = V_s ⊎ V_r or F_p = F_s ⊎ F_r.
var ErrPartition = errors.New("mask: partition invariant violated")

// Scorer scores a support; higher is better. *fidelity.Estimator implements it.
type Scorer interface {
	Fidelity(ctx context.Context, s support.Support) (float64, error)
}

// Ranked is one scored candidate index (a node or a feature).
type Ranked struct {
	Index    int
	Fidelity float64
}

// Discrete is the mutable state of one search branch.
type Discrete struct {
	scorer Scorer

	poolNodes, poolFeatures support.IndexSet // fixed for the lifetime of the mask
	selNodes, selFeatures   support.IndexSet
	remNodes, remFeatures   support.IndexSet

	best         support.Support
	bestFidelity float64
}

// New creates a mask over the pool (nodes, features) with an empty selection.
func New(nodes, features support.IndexSet, scorer Scorer) *Discrete {
	return &Discrete{
		scorer:       scorer,
		poolNodes:    nodes,
		poolFeatures: features,
		remNodes:     nodes,
		remFeatures:  features,
		bestFidelity: math.Inf(-1),
	}
}

// Pool returns (V_p, F_p).
func (m *Discrete) Pool() support.Support {
	return support.Support{Nodes: m.poolNodes, Features: m.poolFeatures}
}

// Selected returns (V_s, F_s).
func (m *Discrete) Selected() support.Support {
	return support.Support{Nodes: m.selNodes, Features: m.selFeatures}
}

// Remaining returns (V_r, F_r).
func (m *Discrete) Remaining() support.Support {
	return support.Support{Nodes: m.remNodes, Features: m.remFeatures}
}

// Best returns the best support observed by Fidelity and its score.
// Before any Fidelity call it is the empty support with -Inf.
func (m *Discrete) Best() (support.Support, float64) {
	return m.best, m.bestFidelity
}

// HasRemaining reports whether V_r or F_r is non-empty.
func (m *Discrete) HasRemaining() bool {
	return !m.remNodes.Empty() || !m.remFeatures.Empty()
}

// Init seeds the selection with the single best node and the single best feature.
//
// Scoring of single-element candidates:
//   - node v     → fidelity({v}, F_p)
//   - feature f  → fidelity(V_p, {f})
//
// The other axis is held at its full pool so that a lone element is not scored
// against the all-zero mask. The top node and the top feature (ties → lowest
// index) are moved from remaining to selected. An empty pool axis contributes
// nothing (node-only or feature-only explanation).
//
// Returns whether any element remains to grow into.
func (m *Discrete) Init(ctx context.Context) (bool, error) {
	var err error
	var nodeRank, featureRank []Ranked

	nodeRank, err = m.rank(ctx, m.remNodes, func(v int) support.Support {
		return support.Support{Nodes: support.NewIndexSet(v), Features: m.poolFeatures}
	})
	if err != nil {
		return false, err
	}
	featureRank, err = m.rank(ctx, m.remFeatures, func(f int) support.Support {
		return support.Support{Nodes: m.poolNodes, Features: support.NewIndexSet(f)}
	})
	if err != nil {
		return false, err
	}

	return m.Grow(nodeRank, featureRank), nil
}

// Fidelity scores the current selection and records it as best when it is
// strictly better than the stored best.
func (m *Discrete) Fidelity(ctx context.Context) (float64, error) {
	sel := m.Selected()
	fid, err := m.scorer.Fidelity(ctx, sel)
	if err != nil {
		return 0, err
	}
	if fid > m.bestFidelity {
		m.best = sel
		m.bestFidelity = fid
	}

	return fid, nil
}

// Ranking scores every remaining candidate against the current selection:
//   - node v ∈ V_r    → fidelity(V_s ∪ {v}, F_s)
//   - feature f ∈ F_r → fidelity(V_s, F_s ∪ {f})
//
// Both lists are sorted by descending fidelity; ties keep ascending index order.
func (m *Discrete) Ranking(ctx context.Context) (nodes, features []Ranked, err error) {
	nodes, err = m.rank(ctx, m.remNodes, func(v int) support.Support {
		return support.Support{Nodes: m.selNodes.With(v), Features: m.selFeatures}
	})
	if err != nil {
		return nil, nil, err
	}
	features, err = m.rank(ctx, m.remFeatures, func(f int) support.Support {
		return support.Support{Nodes: m.selNodes, Features: m.selFeatures.With(f)}
	})
	if err != nil {
		return nil, nil, err
	}

	return nodes, features, nil
}

// rank scores candidate(i) for every i in pool (ascending) and sorts stably.
func (m *Discrete) rank(ctx context.Context, pool support.IndexSet, candidate func(int) support.Support) ([]Ranked, error) {
	out := make([]Ranked, 0, pool.Len())
	for _, i := range pool.Indices() {
		fid, err := m.scorer.Fidelity(ctx, candidate(i))
		if err != nil {
			return nil, err
		}
		out = append(out, Ranked{Index: i, Fidelity: fid})
	}
	// Candidates arrive in ascending index order; a stable sort keeps it on ties.
	sort.SliceStable(out, func(a, b int) bool { return out[a].Fidelity > out[b].Fidelity })

	return out, nil
}

// Grow moves the top-ranked remaining node and the top-ranked remaining feature
// into the selection in one step. Entries that are no longer remaining are
// skipped. When both remaining pools are empty this is a no-op.
//
// Returns whether any element remains to grow into.
func (m *Discrete) Grow(nodes, features []Ranked) bool {
	if v, ok := firstRemaining(nodes, m.remNodes); ok {
		m.selNodes = m.selNodes.With(v)
		m.remNodes = m.remNodes.Without(v)
	}
	if f, ok := firstRemaining(features, m.remFeatures); ok {
		m.selFeatures = m.selFeatures.With(f)
		m.remFeatures = m.remFeatures.Without(f)
	}

	return m.HasRemaining()
}

func firstRemaining(ranking []Ranked, remaining support.IndexSet) (int, bool) {
	for _, r := range ranking {
		if remaining.Contains(r.Index) {
			return r.Index, true
		}
	}

	return 0, false
}

// Validate checks the partition invariant on both axes.
func (m *Discrete) Validate() error {
	if !m.selNodes.Disjoint(m.remNodes) || !m.selNodes.Union(m.remNodes).Equal(m.poolNodes) {
		return fmt.Errorf("nodes: selected %s remaining %s pool %s: %w",
			m.selNodes, m.remNodes, m.poolNodes, ErrPartition)
	}
	if !m.selFeatures.Disjoint(m.remFeatures) || !m.selFeatures.Union(m.remFeatures).Equal(m.poolFeatures) {
		return fmt.Errorf("features: selected %s remaining %s pool %s: %w",
			m.selFeatures, m.remFeatures, m.poolFeatures, ErrPartition)
	}

	return nil
}
