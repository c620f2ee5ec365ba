package config

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/species"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "magnetar", cfg.Source)
	assert.Len(t, cfg.Species, 6)
	assert.Len(t, cfg.Windows, 3)
	require.NoError(t, cfg.Validate())
}

func TestPipelineConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Species = []string{"PI", " d+s "}
	p, err := cfg.Pipeline()
	require.NoError(t, err)
	assert.Equal(t, []species.Species{species.Pion, species.DsPlus}, p.Species)
	assert.Equal(t, cfg.Grids.Energy, p.Energy)

	cfg.Species = []string{"p"}
	_, err = cfg.Pipeline()
	assert.True(t, errors.Is(err, flux.ErrUnknownSpecies))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		target error
	}{
		{"unknown source", func(c *Config) { c.Source = "pulsar" }, flux.ErrUnknownModel},
		{"unknown magnetosphere", func(c *Config) { c.Magnetar.Magnetosphere = "plasma" }, flux.ErrUnknownModel},
		{"bad window", func(c *Config) { c.Windows[0].To = c.Windows[0].From }, flux.ErrParameterBounds},
		{"bad efficiency", func(c *Config) { c.Params.Efficiency = 2 }, flux.ErrParameterBounds},
		{"bad grid", func(c *Config) { c.Grids.Time.N = 1 }, flux.ErrInvalidGrid},
		{"unknown rule", func(c *Config) { c.Params.Rule = "gauss" }, flux.ErrUnknownModel},
		{"repeated species", func(c *Config) { c.Species = []string{"pi", "K", "PI"} }, flux.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nuflux.yaml")
	cfg := GetPreset("thesis-with")
	cfg.Species = []string{"pi", "k"}
	require.NoError(t, Save(path, cfg))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("source: nucleus\nparams:\n  optical_depth: true\n"))
	require.NoError(t, err)
	assert.Equal(t, "nucleus", cfg.Source)
	assert.True(t, cfg.Params.OpticalDepth)
	assert.Equal(t, DefaultConfig().Params.FoldSteps, cfg.Params.FoldSteps)
	assert.Equal(t, DefaultConfig().Magnetar, cfg.Magnetar)

	_, err = Parse([]byte("species: {"))
	assert.Error(t, err)
}

func TestPresets(t *testing.T) {
	with := GetPreset("thesis-with")
	without := GetPreset("thesis-without")
	require.NotNil(t, with)
	require.NotNil(t, without)
	assert.True(t, with.Params.OpticalDepth)
	assert.False(t, without.Params.OpticalDepth)
	assert.InDelta(t, math.Pow(10, 14.5), with.Magnetar.Field, 1)

	// presets are independent copies
	with.Species[0] = "k"
	assert.Equal(t, "pi", GetPreset("thesis-with").Species[0])

	assert.Equal(t, "nucleus", GetPreset("nucleus").Source)
	assert.Nil(t, GetPreset("missing"))

	names := ListPresets()
	assert.IsIncreasing(t, names)
	for _, name := range names {
		assert.NoError(t, GetPreset(name).Validate(), name)
	}
}

func TestClone(t *testing.T) {
	cfg := DefaultConfig()
	c := cfg.Clone()
	c.Windows[0].From = 5
	c.Species[0] = "k"
	assert.Equal(t, 1e3, cfg.Windows[0].From)
	assert.Equal(t, "pi", cfg.Species[0])
}

func TestOverlayKeepsBase(t *testing.T) {
	base := GetPreset("thesis-with")
	cfg, err := Overlay(base, []byte("workers: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.Params.OpticalDepth)
	assert.Equal(t, 0, base.Workers)
}
