// Package fidelity - RNG utilities for noise injection.
//
// Goals:
//   - Determinism: same seed and same support ⇒ identical noise on every platform.
//   - Encapsulation: a single factory; no time-based sources hidden anywhere.
//   - Independence: every support draws from its own derived stream, so the
//     order in which supports are scored never changes their scores.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Streams are created per evaluation
//     and never shared.
package fidelity

import "math/rand"

// defaultRNGSeed is the fixed seed used when callers pass seed==0.
const defaultRNGSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ defaultRNGSeed; otherwise the seed verbatim.
func rngFromSeed(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = defaultRNGSeed
	}

	return rand.New(rand.NewSource(s))
}

// deriveSeed mixes a parent seed and a stream identifier into a new 64-bit seed
// with a SplitMix64 finalizer, so that neighbouring fingerprints give
// uncorrelated streams.
func deriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// streamRNG returns the noise stream for one support fingerprint.
func streamRNG(seed int64, fingerprint uint64) *rand.Rand {
	parent := seed
	if parent == 0 {
		parent = defaultRNGSeed
	}

	return rngFromSeed(deriveSeed(parent, fingerprint))
}

// uniform draws from [lo, hi).
func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}
