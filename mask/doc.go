// Package mask holds the state of one branch of the zorro search.
//
// A Discrete mask owns three pairs of index sets over a fixed pool (V_p, F_p):
//
//	selected  (V_s, F_s): the support grown so far, initially empty;
//	remaining (V_r, F_r): candidates not yet selected, initially the pool;
//	best      (V_b, F_b): highest-fidelity support observed, with its score.
//
// Invariant (checked by Validate): V_p = V_s ⊎ V_r and F_p = F_s ⊎ F_r at
// every point of the mask's lifetime.
//
// A mask is created per recursion frame, mutated by Init / Ranking / Grow, and
// dropped once its candidates are emitted. It is never shared across branches.
package mask
