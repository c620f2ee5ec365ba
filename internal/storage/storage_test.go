package storage

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/pipeline"
	"github.com/san-kum/nuflux/internal/species"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testTable(t *testing.T) *flux.Table {
	t.Helper()
	E, err := flux.LogGrid(1e5, 1e8, 4)
	require.NoError(t, err)
	times, err := flux.LogGrid(1e2, 1e4, 3)
	require.NoError(t, err)
	data := mat.NewDense(4, 3, []float64{
		1.5e-10, 2.25e-11, 0,
		3.125e-12, 1, math.Pi,
		1e-300, 7, 8,
		9, 10, 11,
	})
	tab, err := flux.WrapTable(E, times, data)
	require.NoError(t, err)
	return tab
}

func TestWriteReadTable(t *testing.T) {
	tab := testTable(t)
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, []string{"first", "second"}, tab.Data))

	assert.True(t, strings.HasPrefix(buf.String(), "# first\n# second\n"))

	m, header, err := ReadTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, header)
	assert.True(t, mat.Equal(tab.Data, m))
}

func TestReadTableRagged(t *testing.T) {
	_, _, err := ReadTable(strings.NewReader("1 2\n3\n"))
	assert.Error(t, err)

	_, _, err = ReadTable(strings.NewReader("# only a header\n"))
	assert.Error(t, err)

	_, _, err = ReadTable(strings.NewReader("1 x\n"))
	assert.Error(t, err)
}

func TestWriteAxesLabelCount(t *testing.T) {
	var buf bytes.Buffer
	err := WriteAxes(&buf, nil, []string{"a"}, [][]float64{{1}, {2}})
	assert.Error(t, err)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	require.NoError(t, s.Init())
	return s
}

func TestSaveStageAndLoadTable(t *testing.T) {
	s := newTestStore(t)
	meta, err := s.NewRun("magnetar", []string{"Magnetar:", "B = 1e+15 G"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(meta.ID, "magnetar_"))

	tab := testTable(t)
	stage := &pipeline.Stage{
		Name: pipeline.StageHadrons,
		Results: []pipeline.SpeciesResult{{
			Species: species.Pion,
			Table:   tab,
			Metrics: map[string]float64{"peak_energy": 1e6, "spectral_index": math.NaN()},
		}},
		Elapsed: 2 * time.Second,
	}
	require.NoError(t, s.SaveStage(meta, stage))

	assert.True(t, s.HasStage(meta.ID, pipeline.StageHadrons))
	assert.False(t, s.HasStage(meta.ID, pipeline.StageNeutrinos))

	loaded, err := s.LoadTable(meta.ID, pipeline.StageHadrons, species.Pion)
	require.NoError(t, err)
	assert.True(t, mat.Equal(tab.Data, loaded.Data))
	assert.Equal(t, tab.Rows.Points(), loaded.Rows.Points())
	assert.Equal(t, tab.Cols.Points(), loaded.Cols.Points())

	raw, err := os.ReadFile(filepath.Join(s.BaseDir(), meta.ID, pipeline.StageHadrons, species.Pion.File()+".txt"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Hadron Spectrum / 1/(GeVs) - 2024/03/01 12:00:00")
	assert.Contains(t, string(raw), "# B = 1e+15 G")

	back, err := s.Load(meta.ID)
	require.NoError(t, err)
	require.Len(t, back.Stages, 1)
	assert.Equal(t, []string{species.Pion.Tag()}, back.Stages[0].Species)
	assert.Equal(t, map[string]float64{"peak_energy": 1e6}, back.Stages[0].Metrics[species.Pion.Tag()])

	// saving the same stage again replaces its entry
	require.NoError(t, s.SaveStage(meta, stage))
	back, err = s.Load(meta.ID)
	require.NoError(t, err)
	assert.Len(t, back.Stages, 1)
}

func TestSaveSpectrumAndFluence(t *testing.T) {
	s := newTestStore(t)
	meta, err := s.NewRun("nucleus", nil)
	require.NoError(t, err)

	E, err := flux.LogGrid(1e5, 1e7, 3)
	require.NoError(t, err)
	spec, err := flux.NewSpectrum(E, []float64{1, 2, 3})
	require.NoError(t, err)
	stage := &pipeline.Stage{
		Name:    pipeline.StageIntegrate,
		Results: []pipeline.SpeciesResult{{Species: species.Kaon, Spectrum: spec}},
	}
	require.NoError(t, s.SaveStage(meta, stage))

	got, err := s.LoadSpectrum(meta.ID, pipeline.StageIntegrate, species.Kaon, 1)
	require.NoError(t, err)
	assert.Equal(t, spec.Values, got.Values)
	assert.Equal(t, E.Points(), got.Energy.Points())

	_, err = s.LoadSpectrum(meta.ID, pipeline.StageIntegrate, species.Kaon, 2)
	assert.ErrorIs(t, err, flux.ErrDimensionMismatch)

	fl := &pipeline.Fluence{
		Energy:  E,
		Windows: []pipeline.Window{{From: 1, To: 10}, {From: 10, To: 100}},
		Data:    mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}),
	}
	require.NoError(t, s.SaveFluence(meta, map[species.Species]*pipeline.Fluence{species.Kaon: fl}))

	f, err := os.Open(s.FluencePath(meta.ID, species.Kaon))
	require.NoError(t, err)
	defer f.Close()
	m, _, err := ReadTable(f)
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, E.At(2), m.At(2, 0))
	assert.Equal(t, 6.0, m.At(2, 2))
}

func TestListEmptyAndSorted(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	s = newTestStore(t)
	first, err := s.NewRun("magnetar", nil)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	second, err := s.NewRun("nucleus", nil)
	require.NoError(t, err)

	runs, err = s.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)

	require.NoError(t, s.Remove(first.ID))
	runs, err = s.List()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Error(t, s.Remove(first.ID))
}

func TestCatalog(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenCatalog(dir)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	older := &RunMetadata{
		ID: "magnetar_aaaa", Model: "magnetar",
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Stages: []StageInfo{
			{Name: "hadrons", Species: []string{"pi", "k"}, Elapsed: 1.5},
			{Name: "neutrinos", Species: []string{"pi", "k"}, Elapsed: 0.5},
		},
	}
	newer := &RunMetadata{
		ID: "nucleus_bbbb", Model: "nucleus",
		Timestamp: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.Record(ctx, older))
	require.NoError(t, c.Record(ctx, newer))

	all, err := c.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "nucleus_bbbb", all[0].ID)
	assert.Equal(t, []string{"hadrons", "neutrinos"}, all[1].Stages)
	assert.Equal(t, []string{"pi", "k"}, all[1].Species)
	assert.InDelta(t, 2.0, all[1].Elapsed, 1e-12)
	assert.Nil(t, all[0].Stages)

	only, err := c.List(ctx, "magnetar")
	require.NoError(t, err)
	require.Len(t, only, 1)

	older.Stages = older.Stages[:1]
	require.NoError(t, c.Record(ctx, older))
	only, err = c.List(ctx, "magnetar")
	require.NoError(t, err)
	assert.Equal(t, []string{"hadrons"}, only[0].Stages)

	require.NoError(t, c.Delete(ctx, "nucleus_bbbb"))
	all, err = c.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
