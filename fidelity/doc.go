// Package fidelity estimates how well a support preserves a policy's decision.
//
// 🚀 What is fidelity?
//
//	Keep the cells of a support (V_s × F_s), replace every other cell of the
//	feature matrix by noise, and ask the policy again. If it still picks the
//	same action, the support "explains" the decision. Fidelity is the fraction
//	of noisy draws for which this holds.
//
// ✨ Modes:
//   - ActionAgreement : Monte-Carlo fraction of agreeing actions, in [0, 1].
//   - OutputSimilarity: Monte-Carlo negated MSE of the action values, ≤ 0.
//   - Deterministic   : single shot, unkept cells zeroed, negated MSE, ≤ 0.
//
// In every mode higher is better.
//
// ⚙️ Usage:
//
//	est, err := fidelity.NewEstimator(ctx, gnn, x, adj, fidelity.DefaultOptions())
//	f, err := est.Fidelity(ctx, support.New([]int{0, 3}, []int{1}))
//
// Cost model:
//
//	Every sampled evaluation performs exactly ONE batched policy call holding
//	Samples noisy inputs. The unmodified input is evaluated once per Estimator.
//
// Determinism:
//
//	The noise stream of an evaluation is derived from (Seed, support fingerprint),
//	so the same support always sees the same noise under the same seed, no matter
//	how many other supports were scored before it.
package fidelity
