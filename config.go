package zorro

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/zorro/fidelity"
)

// Config is the serializable form of the search options, for applications that
// keep explainer settings next to their model configuration.
//
//	threshold: 0.9
//	samples: 250
//	mode: action          # action | output | deterministic
//	seed: 7
//	noise_low: 0
//	noise_high: 1
//	max_depth: 256
//	max_evaluations: 0    # 0 = unlimited
//	time_limit: 30s       # 0 = unlimited
type Config struct {
	Threshold      float64       `yaml:"threshold"`
	Samples        int           `yaml:"samples"`
	Mode           string        `yaml:"mode"`
	Seed           int64         `yaml:"seed"`
	NoiseLow       float64       `yaml:"noise_low"`
	NoiseHigh      float64       `yaml:"noise_high"`
	MaxDepth       int           `yaml:"max_depth"`
	MaxEvaluations int           `yaml:"max_evaluations"`
	TimeLimit      time.Duration `yaml:"time_limit"`
}

// DefaultConfig mirrors the package defaults.
func DefaultConfig() Config {
	return Config{
		Threshold:      DefaultThreshold,
		Samples:        fidelity.DefaultSamples,
		Mode:           fidelity.ActionAgreement.String(),
		NoiseLow:       fidelity.DefaultNoiseLow,
		NoiseHigh:      fidelity.DefaultNoiseHigh,
		MaxDepth:       DefaultMaxDepth,
		MaxEvaluations: DefaultMaxEvaluations,
		TimeLimit:      DefaultTimeLimit,
	}
}

// LoadConfig decodes a YAML document over DefaultConfig. Unknown keys are
// rejected; an empty document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("zorro: decode config: %w", err)
	}

	return cfg, nil
}

// Options converts the config into functional options. The values themselves
// are validated by the entry point that consumes them.
func (c Config) Options() ([]Option, error) {
	mode, err := fidelity.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}

	return []Option{
		WithThreshold(c.Threshold),
		WithSamples(c.Samples),
		WithMode(mode),
		WithSeed(c.Seed),
		WithNoiseRange(c.NoiseLow, c.NoiseHigh),
		WithMaxDepth(c.MaxDepth),
		WithMaxEvaluations(c.MaxEvaluations),
		WithTimeLimit(c.TimeLimit),
	}, nil
}
