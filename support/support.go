// SPDX-License-Identifier: MIT

// Package support - Support pairs, mask tensors and fingerprints.
//
// Mask contract:
//
//	cell (n, f) of the N×D mask is 1 iff n ∈ Nodes and f ∈ Features, else 0.
//	A support with an empty axis therefore yields the all-zero mask.
package support

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/mat"
)

// fingerprintSeparator splits the node and feature sections of a fingerprint so
// that ({1},{2}) and ({1,2},{}) never hash the same byte stream.
const fingerprintSeparator = ^uint64(0)

// Support is a candidate explanation region: the kept cells are Nodes × Features.
type Support struct {
	Nodes    IndexSet // V_s
	Features IndexSet // F_s
}

// New builds a Support from explicit index lists.
func New(nodes, features []int) Support {
	return Support{Nodes: NewIndexSet(nodes...), Features: NewIndexSet(features...)}
}

// Full returns the support covering every cell of an n×d input.
func Full(n, d int) Support {
	return Support{Nodes: Range(n), Features: Range(d)}
}

// Empty reports whether the support keeps no cell.
func (s Support) Empty() bool { return s.Nodes.Empty() || s.Features.Empty() }

// Cells returns |Nodes|·|Features|, the number of kept cells.
func (s Support) Cells() int { return s.Nodes.Len() * s.Features.Len() }

// Equal reports member-wise equality on both axes.
func (s Support) Equal(o Support) bool {
	return s.Nodes.Equal(o.Nodes) && s.Features.Equal(o.Features)
}

// Overlaps reports whether the two supports share at least one kept cell.
func (s Support) Overlaps(o Support) bool {
	return !s.Nodes.Disjoint(o.Nodes) && !s.Features.Disjoint(o.Features)
}

// String renders the support as "V={...} F={...}".
func (s Support) String() string {
	return fmt.Sprintf("V=%s F=%s", s.Nodes, s.Features)
}

// checkBounds verifies that every member fits into an n×d shape.
func (s Support) checkBounds(n, d int) error {
	if i, ok := s.Nodes.Max(); ok && i >= n {
		return fmt.Errorf("node %d of %d: %w", i, n, ErrOutOfRange)
	}
	if j, ok := s.Features.Max(); ok && j >= d {
		return fmt.Errorf("feature %d of %d: %w", j, d, ErrOutOfRange)
	}

	return nil
}

// Tensor materializes the binary n×d mask of the support.
//
// Errors:
//   - ErrBadShape when n<=0 or d<=0.
//   - ErrOutOfRange when a member does not fit the shape.
//
// Complexity: O(n·d) to allocate, O(|V_s|·|F_s|) to fill.
func (s Support) Tensor(n, d int) (*mat.Dense, error) {
	if n <= 0 || d <= 0 {
		return nil, ErrBadShape
	}
	if err := s.checkBounds(n, d); err != nil {
		return nil, err
	}
	m := mat.NewDense(n, d, nil)
	s.Nodes.Each(func(i int) {
		s.Features.Each(func(j int) {
			m.Set(i, j, 1)
		})
	})

	return m, nil
}

// Apply returns mask ⊙ x: kept cells copy x, all other cells are zero.
// x is not modified.
func (s Support) Apply(x mat.Matrix) (*mat.Dense, error) {
	n, d := x.Dims()
	mask, err := s.Tensor(n, d)
	if err != nil {
		return nil, err
	}
	mask.MulElem(mask, x)

	return mask, nil
}

// Offsets returns the row-major offsets (i*d + j) of the cells that are NOT kept,
// in ascending order. The fidelity estimator fills exactly these with noise.
func (s Support) Offsets(n, d int) ([]int, error) {
	if n <= 0 || d <= 0 {
		return nil, ErrBadShape
	}
	if err := s.checkBounds(n, d); err != nil {
		return nil, err
	}
	out := make([]int, 0, n*d-s.Cells())

	var i, j int
	for i = 0; i < n; i++ {
		keptRow := s.Nodes.Contains(i)
		for j = 0; j < d; j++ {
			if keptRow && s.Features.Contains(j) {
				continue
			}
			out = append(out, i*d+j)
		}
	}

	return out, nil
}

// Fingerprint returns a 64-bit digest that depends only on the members of both
// axes. It seeds per-support noise streams, so equal supports see equal noise.
func (s Support) Fingerprint() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 8*(s.Nodes.Len()+s.Features.Len()+1))
	s.Nodes.Each(func(i int) { buf = binary.LittleEndian.AppendUint64(buf, uint64(i)) })
	buf = binary.LittleEndian.AppendUint64(buf, fingerprintSeparator)
	s.Features.Each(func(j int) { buf = binary.LittleEndian.AppendUint64(buf, uint64(j)) })
	_, _ = d.Write(buf)

	return d.Sum64()
}
