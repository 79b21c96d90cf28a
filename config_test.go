package zorro_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/zorro"
	"github.com/katalvlaran/zorro/fidelity"
	"github.com/katalvlaran/zorro/support"
)

func TestLoadConfig(t *testing.T) {
	doc := `
threshold: 0.75
samples: 100
mode: output
seed: 42
time_limit: 2s
`
	cfg, err := zorro.LoadConfig(strings.NewReader(doc))
	require.NoError(t, err)

	want := zorro.DefaultConfig()
	want.Threshold = 0.75
	want.Samples = 100
	want.Mode = "output"
	want.Seed = 42
	want.TimeLimit = 2 * time.Second
	assert.Equal(t, want, cfg, "missing keys keep their defaults")
}

func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := zorro.LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, zorro.DefaultConfig(), cfg)
	assert.Equal(t, fidelity.DefaultSamples, cfg.Samples)
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	_, err := zorro.LoadConfig(strings.NewReader("treshold: 0.5\n"))
	assert.Error(t, err)
}

func TestConfig_Options(t *testing.T) {
	cfg := zorro.DefaultConfig()
	cfg.Mode = "mse"
	_, err := cfg.Options()
	assert.ErrorIs(t, err, zorro.ErrInvalidConfiguration)

	cfg = zorro.DefaultConfig()
	cfg.MaxDepth = 1
	opts, err := cfg.Options()
	require.NoError(t, err)

	// The converted options drive the search: depth 1 cannot split.
	_, err = zorro.Search(context.Background(), constant(1), support.Range(4), support.Range(2), opts...)
	assert.ErrorIs(t, err, zorro.ErrRecursionLimitExceeded)

	cfg = zorro.DefaultConfig()
	cfg.Threshold = 2
	opts, err = cfg.Options()
	require.NoError(t, err)
	_, err = zorro.Search(context.Background(), constant(1), support.Range(1), support.Range(1), opts...)
	assert.ErrorIs(t, err, zorro.ErrInvalidConfiguration, "values are validated by the entry point")
}
