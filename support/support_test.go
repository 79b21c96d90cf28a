package support_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/zorro/support"
)

// TestIndexSet_Basics covers construction, membership and ascending iteration.
func TestIndexSet_Basics(t *testing.T) {
	var empty support.IndexSet
	assert.True(t, empty.Empty(), "zero value is empty")
	assert.Equal(t, 0, empty.Len())
	assert.False(t, empty.Contains(0))
	assert.Equal(t, []int{}, empty.Indices())
	assert.Equal(t, "{}", empty.String())

	s := support.NewIndexSet(5, 1, 3, 1)
	assert.Equal(t, 3, s.Len(), "duplicates are ignored")
	assert.Equal(t, []int{1, 3, 5}, s.Indices(), "iteration is ascending")
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(-1), "negative indices are never members")
	assert.Equal(t, "{1, 3, 5}", s.String())

	lo, ok := s.Min()
	require.True(t, ok)
	assert.Equal(t, 1, lo)
	hi, ok := s.Max()
	require.True(t, ok)
	assert.Equal(t, 5, hi)

	assert.Equal(t, []int{0, 1, 2, 3}, support.Range(4).Indices())
	assert.True(t, support.Range(0).Empty())
}

// TestIndexSet_Immutable verifies that With/Without never touch the receiver.
func TestIndexSet_Immutable(t *testing.T) {
	s := support.NewIndexSet(1, 2)
	w := s.With(7)
	wo := s.Without(1)

	assert.Equal(t, []int{1, 2}, s.Indices(), "receiver unchanged")
	assert.Equal(t, []int{1, 2, 7}, w.Indices())
	assert.Equal(t, []int{2}, wo.Indices())
	assert.Equal(t, []int{1, 2}, s.Without(9).Indices(), "removing a non-member is a no-op")
}

// TestIndexSet_Algebra covers union, intersection, difference and equality
// across sets of different backing capacity.
func TestIndexSet_Algebra(t *testing.T) {
	a := support.NewIndexSet(0, 1, 2)
	b := support.NewIndexSet(2, 3, 100)

	assert.Equal(t, []int{0, 1, 2, 3, 100}, a.Union(b).Indices())
	assert.Equal(t, []int{2}, a.Intersect(b).Indices())
	assert.Equal(t, []int{0, 1}, a.Difference(b).Indices())
	assert.False(t, a.Disjoint(b))
	assert.True(t, a.Disjoint(support.NewIndexSet(50)))
	assert.True(t, a.Disjoint(support.IndexSet{}))

	// Same members, different capacities.
	big := support.NewIndexSet(0, 1, 2, 200).Without(200)
	assert.True(t, a.Equal(big))
	assert.True(t, support.IndexSet{}.Equal(support.Range(0)))
	assert.False(t, a.Equal(b))
}

// TestIndexSet_NegativePanics documents the programmer-error policy.
func TestIndexSet_NegativePanics(t *testing.T) {
	assert.Panics(t, func() { support.NewIndexSet(-1) })
	assert.Panics(t, func() { support.NewIndexSet(1).With(-3) })
}

// TestSupport_EmptyAxisGivesZeroMask: V_s=∅ or F_s=∅ ⇒ all-zero mask.
func TestSupport_EmptyAxisGivesZeroMask(t *testing.T) {
	cases := []support.Support{
		{},
		support.New(nil, []int{0, 1}),
		support.New([]int{0, 2, 3}, nil),
	}
	for _, s := range cases {
		m, err := s.Tensor(4, 2)
		require.NoError(t, err)
		assert.True(t, s.Empty())
		assert.Equal(t, 0, s.Cells())
		assert.True(t, mat.Equal(m, mat.NewDense(4, 2, nil)), "mask for %s must be all zero", s)
	}
}

// TestSupport_Tensor checks the cell rule (n,f)=1 ⇔ n∈V_s ∧ f∈F_s.
func TestSupport_Tensor(t *testing.T) {
	s := support.New([]int{0, 2}, []int{1})
	m, err := s.Tensor(3, 2)
	require.NoError(t, err)

	want := mat.NewDense(3, 2, []float64{
		0, 1,
		0, 0,
		0, 1,
	})
	assert.True(t, mat.Equal(want, m), "got\n%v", mat.Formatted(m))
	assert.Equal(t, 2, s.Cells())
}

// TestSupport_TensorErrors covers shape and range sentinels.
func TestSupport_TensorErrors(t *testing.T) {
	_, err := support.New([]int{0}, []int{0}).Tensor(0, 2)
	assert.ErrorIs(t, err, support.ErrBadShape)

	_, err = support.New([]int{3}, []int{0}).Tensor(3, 2)
	assert.ErrorIs(t, err, support.ErrOutOfRange)

	_, err = support.New([]int{0}, []int{2}).Tensor(3, 2)
	assert.ErrorIs(t, err, support.ErrOutOfRange)
}

// TestSupport_ApplyAndOffsets verifies masking and the complement offsets.
func TestSupport_ApplyAndOffsets(t *testing.T) {
	x := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	s := support.New([]int{1}, []int{0, 2})

	got, err := s.Apply(x)
	require.NoError(t, err)
	want := mat.NewDense(2, 3, []float64{
		0, 0, 0,
		4, 0, 6,
	})
	assert.True(t, mat.Equal(want, got))
	assert.Equal(t, 1.0, x.At(0, 0), "input must not be modified")

	off, err := s.Offsets(2, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 4}, off)

	full, err := support.Full(2, 3).Offsets(2, 3)
	require.NoError(t, err)
	assert.Empty(t, full)
}

// TestSupport_Fingerprint depends on members only, and separates the axes.
func TestSupport_Fingerprint(t *testing.T) {
	a := support.New([]int{3, 1}, []int{2})
	b := support.Support{Nodes: support.NewIndexSet(1).With(3), Features: support.NewIndexSet(2)}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "insertion order must not matter")

	c := support.New([]int{1}, []int{2})
	d := support.New([]int{1, 2}, nil)
	assert.NotEqual(t, c.Fingerprint(), d.Fingerprint(), "axes must not collide")
}

// TestSupport_Overlaps: two supports overlap iff they share a kept cell.
func TestSupport_Overlaps(t *testing.T) {
	a := support.New([]int{0, 1}, []int{0})
	assert.True(t, a.Overlaps(support.New([]int{1}, []int{0, 1})))
	assert.False(t, a.Overlaps(support.New([]int{1}, []int{1})))
	assert.False(t, a.Overlaps(support.New([]int{0}, nil)))
	assert.True(t, a.Equal(support.New([]int{1, 0}, []int{0})))
	assert.Equal(t, "V={0, 1} F={0}", a.String())
}
