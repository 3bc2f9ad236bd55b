package cubesketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.LatticeSize)
	assert.Equal(t, float32(1.5), cfg.LatticePadding)
	assert.Equal(t, float32(18), cfg.Wide)
	assert.Equal(t, float32(0.1), cfg.Near)
	assert.Equal(t, float32(100), cfg.Far)
	assert.Equal(t, float32(20), cfg.CameraDistance)
	assert.Equal(t, float32(2), cfg.MaxPixelRatio)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.WindowWidth = 0 }},
		{"negative height", func(c *Config) { c.WindowHeight = -1 }},
		{"sample count 2", func(c *Config) { c.SampleCount = 2 }},
		{"empty lattice", func(c *Config) { c.LatticeSize = 0 }},
		{"zero wide", func(c *Config) { c.Wide = 0 }},
		{"far before near", func(c *Config) { c.Far = 0.05 }},
		{"zero pixel ratio", func(c *Config) { c.MaxPixelRatio = 0 }},
		{"damping above one", func(c *Config) { c.DampingFactor = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
