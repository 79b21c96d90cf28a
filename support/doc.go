// Package support models the (node, feature) supports that zorro explanations
// are made of.
//
// A Support is a pair of index sets (V_s, F_s). The Cartesian product of the two
// sets is the set of kept cells of an N×D feature matrix; every other cell is
// masked out (replaced by noise or zero by the fidelity estimator).
//
// The package provides:
//
//   - IndexSet: an immutable, bitset-backed set of non-negative indices with
//     ascending iteration order, so that disjointness and partition checks are
//     cheap and fully deterministic.
//   - Support: the pair (Nodes, Features) with helpers to build the binary mask
//     tensor, apply it to a feature matrix and fingerprint it.
//
// Determinism:
//
//	IndexSet never exposes map iteration; Indices() is always ascending. The
//	Fingerprint of a support depends only on its members, never on insertion order.
package support
