// SPDX-License-Identifier: MIT

// Package support - IndexSet, an immutable bitset over node or feature indices.
//
// Purpose:
//   - Represent pools, selections and remainders of one search branch as
//     arena-style integer sets (index i ⇔ bit i).
//   - Make the partition invariant (V_p = V_s ⊎ V_r) cheap to assert.
//
// Semantics:
//   - Value type. Every operation that "modifies" a set returns a new set; the
//     receiver is never mutated, so sets may be shared freely across branches.
//   - The zero value is the empty set.
//
// Complexity quicksheet (w = words of the larger operand):
//   - Contains: O(1); Len: O(w); With/Without/Union/Difference/Intersect: O(w);
//     Indices: O(w + k) for k members.
package support

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// IndexSet is an immutable set of non-negative indices.
type IndexSet struct {
	b *bitset.BitSet // nil means empty; never mutated after construction
}

// NewIndexSet builds a set from the given indices. Duplicates are ignored.
// Panics on a negative index (programmer error).
func NewIndexSet(indices ...int) IndexSet {
	if len(indices) == 0 {
		return IndexSet{}
	}
	b := bitset.New(0)
	for _, i := range indices {
		if i < 0 {
			panic(panicNegativeIndex)
		}
		b.Set(uint(i))
	}

	return IndexSet{b: b}
}

// Range returns the set {0, 1, ..., n-1}. Range(0) (or negative n) is empty.
// Complexity: O(n/64).
func Range(n int) IndexSet {
	if n <= 0 {
		return IndexSet{}
	}
	b := bitset.New(uint(n))
	b.FlipRange(0, uint(n)) // set every bit of [0, n)

	return IndexSet{b: b}
}

// bits returns the backing bitset, or an empty one for the zero value.
func (s IndexSet) bits() *bitset.BitSet {
	if s.b == nil {
		return bitset.New(0)
	}

	return s.b
}

// Len returns the number of members.
func (s IndexSet) Len() int {
	if s.b == nil {
		return 0
	}

	return int(s.b.Count())
}

// Empty reports whether the set has no members.
func (s IndexSet) Empty() bool { return s.Len() == 0 }

// Contains reports whether i is a member. Negative indices are never members.
func (s IndexSet) Contains(i int) bool {
	if s.b == nil || i < 0 {
		return false
	}

	return s.b.Test(uint(i))
}

// With returns s ∪ {i}. Panics on a negative index.
func (s IndexSet) With(i int) IndexSet {
	if i < 0 {
		panic(panicNegativeIndex)
	}
	b := s.bits().Clone()
	b.Set(uint(i))

	return IndexSet{b: b}
}

// Without returns s \ {i}.
func (s IndexSet) Without(i int) IndexSet {
	if !s.Contains(i) {
		return s
	}
	b := s.b.Clone()
	b.Clear(uint(i))

	return IndexSet{b: b}
}

// Union returns s ∪ o.
func (s IndexSet) Union(o IndexSet) IndexSet {
	return IndexSet{b: s.bits().Union(o.bits())}
}

// Intersect returns s ∩ o.
func (s IndexSet) Intersect(o IndexSet) IndexSet {
	return IndexSet{b: s.bits().Intersection(o.bits())}
}

// Difference returns s \ o.
func (s IndexSet) Difference(o IndexSet) IndexSet {
	return IndexSet{b: s.bits().Difference(o.bits())}
}

// Disjoint reports whether s ∩ o = ∅.
func (s IndexSet) Disjoint(o IndexSet) bool {
	if s.b == nil || o.b == nil {
		return true
	}

	return s.b.IntersectionCardinality(o.b) == 0
}

// Equal reports whether both sets hold exactly the same members, independent
// of the capacity of the backing bitsets.
func (s IndexSet) Equal(o IndexSet) bool {
	n := s.Len()
	if n != o.Len() {
		return false
	}
	if n == 0 {
		return true
	}

	return int(s.b.IntersectionCardinality(o.b)) == n
}

// Min returns the smallest member, or (0, false) for the empty set.
func (s IndexSet) Min() (int, bool) {
	if s.b == nil {
		return 0, false
	}
	i, ok := s.b.NextSet(0)

	return int(i), ok
}

// Max returns the largest member, or (-1, false) for the empty set.
func (s IndexSet) Max() (int, bool) {
	idx := s.Indices()
	if len(idx) == 0 {
		return -1, false
	}

	return idx[len(idx)-1], true
}

// Indices returns the members in ascending order. The slice is freshly
// allocated; callers may keep or modify it.
func (s IndexSet) Indices() []int {
	out := make([]int, 0, s.Len())
	if s.b == nil {
		return out
	}
	for i, ok := s.b.NextSet(0); ok; i, ok = s.b.NextSet(i + 1) {
		out = append(out, int(i))
	}

	return out
}

// Each calls f for every member in ascending order.
func (s IndexSet) Each(f func(i int)) {
	if s.b == nil {
		return
	}
	for i, ok := s.b.NextSet(0); ok; i, ok = s.b.NextSet(i + 1) {
		f(int(i))
	}
}

// String renders the set as "{0, 2, 5}".
func (s IndexSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	s.Each(func(i int) {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(strconv.Itoa(i))
	})
	sb.WriteByte('}')

	return sb.String()
}
