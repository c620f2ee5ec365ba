package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/nuflux/internal/config"
	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/pipeline"
	"github.com/san-kum/nuflux/internal/species"
	"github.com/san-kum/nuflux/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Species = []string{"pi", "k"}
	cfg.Grids.Energy = pipeline.GridSpec{Lo: 1e5, Hi: 1e12, N: 12}
	cfg.Grids.Time = pipeline.GridSpec{Lo: 1e2, Hi: 1e7, N: 6}
	cfg.Grids.Neutrino = pipeline.GridSpec{Lo: 1e5, Hi: 1e12, N: 8}
	cfg.Grids.Proton = pipeline.GridSpec{Lo: 1e5, Hi: 1e12, N: 20}
	cfg.Windows = []pipeline.Window{{From: 1e2, To: 1e7}}
	cfg.Params.Production.Steps = 20
	cfg.Params.FoldSteps = 100
	return cfg
}

func TestRunWithoutStore(t *testing.T) {
	e, err := New(smallConfig())
	require.NoError(t, err)
	assert.Equal(t, "magnetar", e.Source().Name())

	res, err := e.Run(context.Background(), pipeline.StageIntegrate)
	require.NoError(t, err)
	assert.Nil(t, res.Meta)
	require.Len(t, res.Stages, 3)
	assert.Equal(t, pipeline.StageIntegrate, res.Last().Name)
	assert.Len(t, res.Fluences, 2)
	assert.NotNil(t, res.Fluences[species.Pion])
}

func TestRunAndContinue(t *testing.T) {
	ctx := context.Background()
	store := storage.New(t.TempDir())
	catalog, err := storage.OpenCatalog(store.BaseDir())
	require.NoError(t, err)
	defer catalog.Close()

	e, err := New(smallConfig(), WithStore(store), WithCatalog(catalog))
	require.NoError(t, err)
	res, err := e.Run(ctx, pipeline.StageNeutrinos)
	require.NoError(t, err)
	require.NotNil(t, res.Meta)
	require.Len(t, res.Stages, 2)
	assert.True(t, store.HasStage(res.Meta.ID, pipeline.StageNeutrinos))
	assert.False(t, store.HasStage(res.Meta.ID, pipeline.StageIntegrate))

	stored, err := store.LoadTable(res.Meta.ID, pipeline.StageNeutrinos, species.Kaon)
	require.NoError(t, err)
	computed, ok := res.Last().Find(species.Kaon)
	require.True(t, ok)
	assert.True(t, mat.Equal(computed.Table.Data, stored.Data))

	more, err := Continue(ctx, store, res.Meta.ID, pipeline.StageIntegrate, WithCatalog(catalog))
	require.NoError(t, err)
	require.Len(t, more.Stages, 1)
	assert.Equal(t, pipeline.StageIntegrate, more.Last().Name)
	assert.True(t, store.HasStage(res.Meta.ID, pipeline.StageIntegrate))

	entries, err := catalog.List(ctx, "magnetar")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"hadrons", "neutrinos", "integrate"}, entries[0].Stages)

	meta, err := store.Load(res.Meta.ID)
	require.NoError(t, err)
	assert.Len(t, meta.Stages, 3)
}

func TestContinueErrors(t *testing.T) {
	ctx := context.Background()
	store := storage.New(t.TempDir())

	_, err := Continue(ctx, store, "missing", pipeline.StageNeutrinos)
	assert.Error(t, err)

	e, err := New(smallConfig(), WithStore(store))
	require.NoError(t, err)
	res, err := e.Run(ctx, pipeline.StageHadrons)
	require.NoError(t, err)

	_, err = Continue(ctx, store, res.Meta.ID, pipeline.StageHadrons)
	assert.True(t, errors.Is(err, flux.ErrParameterBounds))

	_, err = Continue(ctx, store, res.Meta.ID, "decay")
	assert.True(t, errors.Is(err, flux.ErrUnknownModel))
}

func TestNucleusRun(t *testing.T) {
	cfg := smallConfig()
	cfg.Source = "nucleus"
	e, err := New(cfg, WithStore(storage.New(t.TempDir())))
	require.NoError(t, err)

	res, err := e.Run(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, res.Stages, 1)
	assert.Equal(t, pipeline.StageNucleus, res.Last().Name)
	r, ok := res.Last().Find(species.Pion)
	require.True(t, ok)
	assert.NotNil(t, r.Spectrum)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Magnetar.Magnetosphere = "split monopole"
	_, err := New(cfg)
	assert.True(t, errors.Is(err, flux.ErrUnknownModel))

	e, err := New(smallConfig())
	require.NoError(t, err)
	_, err = e.Run(context.Background(), "decay")
	assert.True(t, errors.Is(err, flux.ErrUnknownModel))
}
