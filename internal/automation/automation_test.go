package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/nuflux/internal/experiment"
	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/pipeline"
	"github.com/san-kum/nuflux/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallOverrides = `
      species: [pi]
      windows: [{from: 100, to: 1.0e+7}]
      grids:
        energy: {lo: 1.0e+5, hi: 1.0e+12, n: 10}
        time: {lo: 100, hi: 1.0e+7, n: 5}
        neutrino: {lo: 1.0e+5, hi: 1.0e+12, n: 6}
        proton: {lo: 1.0e+5, hi: 1.0e+12, n: 12}
      params:
        fold_steps: 60
        production:
          steps: 20
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: thesis
steps:
  - name: without
    preset: thesis-without
    until: neutrinos
  - preset: thesis-with
    config:
      params:
        efficiency: 0.2
`))
	require.NoError(t, err)
	assert.Equal(t, "thesis", sc.Name)
	require.Len(t, sc.Steps, 2)
	assert.Equal(t, pipeline.StageNeutrinos, sc.Steps[0].Until)

	cfg, err := sc.Steps[1].Resolve()
	require.NoError(t, err)
	assert.True(t, cfg.Params.OpticalDepth)
	assert.Equal(t, 0.2, cfg.Params.Efficiency)
	assert.Equal(t, 0.1, cfg.Params.Velocity)

	_, err = ParseScenario([]byte("name: empty\n"))
	assert.Error(t, err)
}

func TestResolveUnknownPreset(t *testing.T) {
	_, err := ScenarioStep{Preset: "missing"}.Resolve()
	assert.True(t, errors.Is(err, flux.ErrUnknownModel))
}

func TestRunScenario(t *testing.T) {
	dir := t.TempDir()
	plot := filepath.Join(dir, "nu.svg")
	sc, err := ParseScenario([]byte(`
name: small
steps:
  - name: magnetar
    preset: thesis-with
    save_as: ` + plot + `
    config:` + smallOverrides + `
  - name: nucleus
    preset: nucleus
    config:` + smallOverrides))
	require.NoError(t, err)

	store := storage.New(filepath.Join(dir, "runs"))
	results, err := RunScenario(context.Background(), sc, nil, experiment.WithStore(store))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, strings.HasPrefix(results[0].RunID, "magnetar_"))
	assert.True(t, strings.HasPrefix(results[1].RunID, "nucleus_"))
	assert.Equal(t, pipeline.StageIntegrate, results[0].Result.Last().Name)
	assert.Equal(t, pipeline.StageNucleus, results[1].Result.Last().Name)

	data, err := os.ReadFile(plot)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	runs, err := store.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestSweepValues(t *testing.T) {
	s := &ParameterSweep{Min: 1e14, Max: 1e16, NumSteps: 3, Log: true}
	v, err := s.Values()
	require.NoError(t, err)
	require.Len(t, v, 3)
	assert.InEpsilon(t, 1e15, v[1], 1e-9)

	s = &ParameterSweep{Min: 0.1, Max: 0.3, NumSteps: 3}
	v, err = s.Values()
	require.NoError(t, err)
	assert.InDelta(t, 0.2, v[1], 1e-12)

	s = &ParameterSweep{Min: 5, NumSteps: 1}
	v, err = s.Values()
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, v)
}

func TestRunSweepRejects(t *testing.T) {
	_, err := RunSweep(context.Background(), &ParameterSweep{Preset: "default", Param: "mass", NumSteps: 2, Min: 1, Max: 2}, nil)
	assert.True(t, errors.Is(err, flux.ErrUnknownModel))

	_, err = RunSweep(context.Background(), &ParameterSweep{Preset: "missing", Param: "field", NumSteps: 2, Min: 1, Max: 2}, nil)
	assert.True(t, errors.Is(err, flux.ErrUnknownModel))

	_, err = RunSweep(context.Background(), &ParameterSweep{Preset: "default", Param: "efficiency", NumSteps: 2, Min: 0.5, Max: 2}, nil)
	assert.True(t, errors.Is(err, flux.ErrParameterBounds))
}

func TestSweepParams(t *testing.T) {
	names := SweepParams()
	assert.Contains(t, names, "field")
	assert.IsIncreasing(t, names)
}
