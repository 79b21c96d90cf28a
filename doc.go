// Package zorro explains the decisions of graph neural network policies.
//
// 🚀 What is zorro?
//
//	A GNN policy reads a fixed graph and an N×D node-feature matrix and picks a
//	discrete action. zorro searches for small supports (V_s, F_s), a set of
//	nodes and a set of features, such that keeping only the cells V_s × F_s and
//	replacing everything else with noise still reproduces the decision with a
//	target fidelity.
//
// ✨ How it works:
//   - fidelity/: Monte-Carlo (or single-shot) estimation of how well a support
//     preserves the decision; one batched policy call per estimate.
//   - mask/    : one search branch: greedy ranking and growth of a support over
//     a pool, with best-so-far tracking.
//   - zorro    : the recursive search (Search / Explain) that splits the pool into
//     disjoint sub-problems, and the selector (SelectBest / ExplainBest).
//   - support/ : bitset index sets, supports and mask tensors.
//   - policy/  : the capability interface a trained model must satisfy.
//
// Quick example:
//
//	cands, err := zorro.Explain(ctx, gnn, x, adj, zorro.WithThreshold(0.9))
//	best, err := zorro.SelectBest(ctx, gnn, x, adj, cands, target)
//
// Determinism:
//
//	For a deterministic policy and a fixed seed the candidate list is fully
//	reproducible: noise streams are derived per support, rankings break ties by
//	index, and pools are iterated in ascending order.
//
// Concurrency:
//
//	Single-threaded and synchronous. The policy is the only blocking call; it is
//	invoked once per estimate with the whole noisy batch.
package zorro
