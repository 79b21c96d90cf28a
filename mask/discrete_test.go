package mask_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/zorro/mask"
	"github.com/katalvlaran/zorro/support"
)

// scorerFunc adapts a pure function to mask.Scorer.
type scorerFunc func(support.Support) float64

func (f scorerFunc) Fidelity(_ context.Context, s support.Support) (float64, error) {
	return f(s), nil
}

// weights scores a support by summing per-node and per-feature weights.
func weights(nodes, features []float64) scorerFunc {
	return func(s support.Support) float64 {
		var sum float64
		s.Nodes.Each(func(v int) { sum += nodes[v] })
		s.Features.Each(func(f int) { sum += features[f] })
		return sum
	}
}

func indices(r []mask.Ranked) []int {
	out := make([]int, len(r))
	for i := range r {
		out[i] = r[i].Index
	}
	return out
}

// TestInit_PicksTopNodeAndFeature: ties go to the lowest index.
func TestInit_PicksTopNodeAndFeature(t *testing.T) {
	sc := weights([]float64{0.1, 0.5, 0.5, 0.2}, []float64{0.3, 0.1, 0.3})
	m := mask.New(support.Range(4), support.Range(3), sc)

	remaining, err := m.Init(context.Background())
	require.NoError(t, err)
	assert.True(t, remaining)

	assert.True(t, m.Selected().Equal(support.New([]int{1}, []int{0})), "selected %s", m.Selected())
	assert.True(t, m.Remaining().Equal(support.New([]int{0, 2, 3}, []int{1, 2})), "remaining %s", m.Remaining())
	assert.True(t, m.Pool().Equal(support.Full(4, 3)))
	require.NoError(t, m.Validate())
}

// TestRanking_OrderAndGrow ranks by descending fidelity and grows by one
// element per axis.
func TestRanking_OrderAndGrow(t *testing.T) {
	sc := weights([]float64{0.1, 0.5, 0.5, 0.2}, []float64{0.3, 0.1, 0.3})
	m := mask.New(support.Range(4), support.Range(3), sc)
	ctx := context.Background()

	_, err := m.Init(ctx)
	require.NoError(t, err)

	nodes, features, err := m.Ranking(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 0}, indices(nodes))
	assert.Equal(t, []int{2, 1}, indices(features))
	assert.InDelta(t, 0.5+0.5+0.3, nodes[0].Fidelity, 1e-12, "scored as V_s ∪ {2} with F_s")

	assert.True(t, m.Grow(nodes, features))
	assert.True(t, m.Selected().Equal(support.New([]int{1, 2}, []int{0, 2})))
	assert.True(t, m.Remaining().Equal(support.New([]int{0, 3}, []int{1})))
	require.NoError(t, m.Validate())
}

// TestRanking_TiesKeepIndexOrder: a constant scorer ranks in ascending index order.
func TestRanking_TiesKeepIndexOrder(t *testing.T) {
	m := mask.New(support.Range(6), support.Range(4), scorerFunc(func(support.Support) float64 { return 1 }))
	ctx := context.Background()

	_, err := m.Init(ctx)
	require.NoError(t, err)
	assert.True(t, m.Selected().Equal(support.New([]int{0}, []int{0})))

	nodes, features, err := m.Ranking(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, indices(nodes))
	assert.Equal(t, []int{1, 2, 3}, indices(features))

	again, _, err := m.Ranking(ctx)
	require.NoError(t, err)
	assert.Equal(t, nodes, again, "ranking is deterministic")
}

// TestGrow_PartitionHoldsUntilExhausted grows until nothing remains and
// checks V_p = V_s ⊎ V_r and F_p = F_s ⊎ F_r after every step.
func TestGrow_PartitionHoldsUntilExhausted(t *testing.T) {
	sc := weights([]float64{0.9, 0.1, 0.4, 0.3, 0.8}, []float64{0.2, 0.6})
	nodes := support.NewIndexSet(0, 1, 2, 3, 4)
	features := support.NewIndexSet(0, 1)
	m := mask.New(nodes, features, sc)
	ctx := context.Background()

	remaining, err := m.Init(ctx)
	require.NoError(t, err)
	steps := 0
	for remaining {
		require.NoError(t, m.Validate())
		rn, rf, err := m.Ranking(ctx)
		require.NoError(t, err)
		before := m.Selected().Nodes.Len() + m.Selected().Features.Len()
		remaining = m.Grow(rn, rf)
		after := m.Selected().Nodes.Len() + m.Selected().Features.Len()
		assert.Greater(t, after, before, "every step adds an element")
		steps++
		require.Less(t, steps, 10)
	}
	require.NoError(t, m.Validate())
	assert.True(t, m.Selected().Equal(support.Support{Nodes: nodes, Features: features}))
	assert.False(t, m.HasRemaining())

	// Nothing left: Grow is a no-op.
	assert.False(t, m.Grow(nil, nil))
	assert.False(t, m.Grow([]mask.Ranked{{Index: 0}}, []mask.Ranked{{Index: 1}}))
	require.NoError(t, m.Validate())
}

// TestGrow_SkipsStaleEntries: already-selected indices in a ranking are ignored.
func TestGrow_SkipsStaleEntries(t *testing.T) {
	m := mask.New(support.Range(3), support.Range(2), scorerFunc(func(support.Support) float64 { return 0 }))
	_, err := m.Init(context.Background())
	require.NoError(t, err)

	m.Grow([]mask.Ranked{{Index: 0}, {Index: 2}}, []mask.Ranked{{Index: 0}})
	assert.True(t, m.Selected().Equal(support.New([]int{0, 2}, []int{0})))
	assert.True(t, m.Remaining().Equal(support.New([]int{1}, []int{1})))
}

// TestFidelity_TracksBest keeps the strictly best support seen.
func TestFidelity_TracksBest(t *testing.T) {
	sc := scorerFunc(func(s support.Support) float64 {
		if s.Cells() == 1 {
			return 0.7
		}
		return 0.3
	})
	m := mask.New(support.Range(2), support.Range(2), sc)
	ctx := context.Background()

	_, fid := m.Best()
	assert.True(t, math.IsInf(fid, -1), "no score yet")

	_, err := m.Init(ctx)
	require.NoError(t, err)
	fid, err = m.Fidelity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.7, fid)

	rn, rf, err := m.Ranking(ctx)
	require.NoError(t, err)
	assert.False(t, m.Grow(rn, rf))
	fid, err = m.Fidelity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.3, fid)

	best, bestFid := m.Best()
	assert.True(t, best.Equal(support.New([]int{0}, []int{0})), "best %s", best)
	assert.Equal(t, 0.7, bestFid)
}

// TestInit_EmptyFeaturePool yields a node-only selection.
func TestInit_EmptyFeaturePool(t *testing.T) {
	sc := weights([]float64{0.2, 0.9, 0.4}, nil)
	m := mask.New(support.Range(3), support.IndexSet{}, sc)

	remaining, err := m.Init(context.Background())
	require.NoError(t, err)
	assert.True(t, remaining)
	assert.True(t, m.Selected().Equal(support.New([]int{1}, nil)))
	assert.True(t, m.Selected().Features.Empty())
	require.NoError(t, m.Validate())
}

// TestInit_ScorerError propagates unchanged.
func TestInit_ScorerError(t *testing.T) {
	boom := errors.New("policy down")
	m := mask.New(support.Range(2), support.Range(2), failing{err: boom})

	_, err := m.Init(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, m.Selected().Empty(), "selection untouched on error")
}

type failing struct{ err error }

func (f failing) Fidelity(context.Context, support.Support) (float64, error) { return 0, f.err }
