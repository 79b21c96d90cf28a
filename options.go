// SPDX-License-Identifier: MIT

// Package zorro: functional configuration for the search and the estimator.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors,
//   - gatherOptions helper (internal) that enforces invariants.
//
// Out-of-range values are reported as ErrInvalidConfiguration, never panics.
package zorro

import (
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/katalvlaran/zorro/fidelity"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultThreshold is the fidelity a branch must reach before it splits.
	DefaultThreshold = 0.9

	// DefaultMaxDepth bounds the recursion depth of one search.
	DefaultMaxDepth = 256

	// DefaultMaxEvaluations bounds fidelity evaluations; 0 means unlimited.
	DefaultMaxEvaluations = 0

	// DefaultTimeLimit bounds wall-clock time; 0 means unlimited.
	DefaultTimeLimit time.Duration = 0
)

// Option mutates Options. Safe to apply repeatedly; last write wins.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept ...Option.
type Options struct {
	threshold      float64
	maxDepth       int
	maxEvaluations int
	timeLimit      time.Duration

	nodes, features int // expected input shape; 0 = infer from the input

	fidelity fidelity.Options

	logger         *zap.Logger
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
}

// defaultOptions returns the zero-configuration state.
func defaultOptions() Options {
	return Options{
		threshold:      DefaultThreshold,
		maxDepth:       DefaultMaxDepth,
		maxEvaluations: DefaultMaxEvaluations,
		timeLimit:      DefaultTimeLimit,
		fidelity:       fidelity.DefaultOptions(),
	}
}

// WithThreshold sets the target fidelity, in [0, 1].
func WithThreshold(t float64) Option { return func(o *Options) { o.threshold = t } }

// WithSamples sets the Monte-Carlo sample count per estimate (> 0).
func WithSamples(n int) Option { return func(o *Options) { o.fidelity.Samples = n } }

// WithSeed sets the noise seed; 0 selects the fixed default stream.
func WithSeed(seed int64) Option { return func(o *Options) { o.fidelity.Seed = seed } }

// WithMode selects the estimator mode used while ranking and growing.
func WithMode(m fidelity.Mode) Option { return func(o *Options) { o.fidelity.Mode = m } }

// WithNoiseRange sets the uniform noise bounds [lo, hi).
func WithNoiseRange(lo, hi float64) Option {
	return func(o *Options) {
		o.fidelity.NoiseLow = lo
		o.fidelity.NoiseHigh = hi
	}
}

// WithMaxDepth bounds the recursion depth (> 0).
func WithMaxDepth(d int) Option { return func(o *Options) { o.maxDepth = d } }

// WithMaxEvaluations bounds the number of fidelity estimates; 0 = unlimited.
func WithMaxEvaluations(n int) Option { return func(o *Options) { o.maxEvaluations = n } }

// WithTimeLimit bounds the wall-clock time of one search; 0 = unlimited.
func WithTimeLimit(d time.Duration) Option { return func(o *Options) { o.timeLimit = d } }

// WithNodes declares the expected node count N of the input.
func WithNodes(n int) Option { return func(o *Options) { o.nodes = n } }

// WithFeatures declares the expected feature count D of the input.
func WithFeatures(d int) Option { return func(o *Options) { o.features = d } }

// WithLogger routes debug and info lines to l.
func WithLogger(l *zap.Logger) Option { return func(o *Options) { o.logger = l } }

// WithMeterProvider overrides the global OpenTelemetry meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *Options) { o.meterProvider = mp }
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Options) { o.tracerProvider = tp }
}

// gatherOptions applies setters over the defaults, validates, and fills nil
// collaborators.
func gatherOptions(opts ...Option) (Options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.validate(); err != nil {
		return Options{}, err
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.meterProvider == nil {
		o.meterProvider = otel.GetMeterProvider()
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	o.fidelity.Logger = o.logger
	o.fidelity.MeterProvider = o.meterProvider

	return o, nil
}

// validate reports the first invalid field.
func (o Options) validate() error {
	if math.IsNaN(o.threshold) || o.threshold < 0 || o.threshold > 1 {
		return fmt.Errorf("threshold %g outside [0,1]: %w", o.threshold, ErrInvalidConfiguration)
	}
	if o.maxDepth <= 0 {
		return fmt.Errorf("max depth %d: %w", o.maxDepth, ErrInvalidConfiguration)
	}
	if o.maxEvaluations < 0 {
		return fmt.Errorf("max evaluations %d: %w", o.maxEvaluations, ErrInvalidConfiguration)
	}
	if o.timeLimit < 0 {
		return fmt.Errorf("time limit %s: %w", o.timeLimit, ErrInvalidConfiguration)
	}
	if o.nodes < 0 || o.features < 0 {
		return fmt.Errorf("expected shape %dx%d: %w", o.nodes, o.features, ErrInvalidConfiguration)
	}
	if o.fidelity.Samples <= 0 {
		return fmt.Errorf("samples=%d must be positive: %w", o.fidelity.Samples, ErrInvalidConfiguration)
	}

	return nil
}
