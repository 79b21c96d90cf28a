// SPDX-License-Identifier: MIT

package fidelity

import (
	"errors"
	"fmt"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrInvalidConfiguration is returned for nonsensical options (non-positive
// sample count, unknown mode, empty or non-finite noise range).
var ErrInvalidConfiguration = errors.New("fidelity: invalid configuration")

// Mode selects how a support is scored.
type Mode int

const (
	// ActionAgreement scores the fraction of noisy samples whose argmax action
	// equals the action on the unmodified input. Range [0, 1].
	ActionAgreement Mode = iota

	// OutputSimilarity scores the negated mean squared error between the
	// unmodified action values and the noisy ones, averaged over samples.
	OutputSimilarity

	// Deterministic zeroes unkept cells instead of sampling noise and scores
	// the negated mean squared error of a single evaluation.
	Deterministic
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ActionAgreement:
		return "action"
	case OutputSimilarity:
		return "output"
	case Deterministic:
		return "deterministic"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "action", "":
		return ActionAgreement, nil
	case "output":
		return OutputSimilarity, nil
	case "deterministic":
		return Deterministic, nil
	default:
		return 0, fmt.Errorf("mode %q: %w", s, ErrInvalidConfiguration)
	}
}

// Defaults.
const (
	// DefaultSamples is the Monte-Carlo budget per evaluation.
	DefaultSamples = 250

	// DefaultNoiseLow and DefaultNoiseHigh bound the uniform noise [low, high).
	DefaultNoiseLow  = 0.0
	DefaultNoiseHigh = 1.0
)

// Options configures an Estimator.
type Options struct {
	// Samples is the number of noisy variants per evaluation. Must be > 0.
	// The fidelity is divided by exactly this number.
	Samples int

	// Mode selects the scoring rule (default ActionAgreement).
	Mode Mode

	// Seed drives the noise streams. 0 selects a fixed default seed.
	Seed int64

	// NoiseLow and NoiseHigh bound the uniform noise. Must be finite, Low < High.
	NoiseLow, NoiseHigh float64

	// Logger receives debug lines; nil means zap.NewNop().
	Logger *zap.Logger

	// MeterProvider receives evaluation metrics; nil means the global provider.
	MeterProvider metric.MeterProvider
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Samples:   DefaultSamples,
		Mode:      ActionAgreement,
		NoiseLow:  DefaultNoiseLow,
		NoiseHigh: DefaultNoiseHigh,
	}
}

// validate checks option consistency; it never mutates opts.
func (o Options) validate() error {
	if o.Samples <= 0 {
		return fmt.Errorf("samples=%d must be positive: %w", o.Samples, ErrInvalidConfiguration)
	}
	switch o.Mode {
	case ActionAgreement, OutputSimilarity, Deterministic:
		// ok
	default:
		return fmt.Errorf("%s: %w", o.Mode, ErrInvalidConfiguration)
	}
	if math.IsNaN(o.NoiseLow) || math.IsInf(o.NoiseLow, 0) ||
		math.IsNaN(o.NoiseHigh) || math.IsInf(o.NoiseHigh, 0) || o.NoiseLow >= o.NoiseHigh {
		return fmt.Errorf("noise range [%g, %g): %w", o.NoiseLow, o.NoiseHigh, ErrInvalidConfiguration)
	}

	return nil
}

// withFallbacks fills nil collaborators.
func (o Options) withFallbacks() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.MeterProvider == nil {
		o.MeterProvider = otel.GetMeterProvider()
	}

	return o
}
