// Package experiment runs configured pipelines and persists every stage.
package experiment

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/san-kum/nuflux/internal/config"
	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/pipeline"
	"github.com/san-kum/nuflux/internal/source"
	"github.com/san-kum/nuflux/internal/species"
	"github.com/san-kum/nuflux/internal/storage"
	"go.uber.org/zap"
)

const configFile = "config.yaml"

// Stages of a magnetar run in execution order.
var magnetarStages = []string{pipeline.StageHadrons, pipeline.StageNeutrinos, pipeline.StageIntegrate}

type Experiment struct {
	cfg     *config.Config
	pipe    pipeline.Config
	src     source.Source
	runner  *pipeline.Runner
	store   *storage.Store
	catalog *storage.Catalog
	logger  *zap.Logger
}

type Option func(*Experiment)

// WithStore persists every finished stage under the store.
func WithStore(s *storage.Store) Option {
	return func(e *Experiment) { e.store = s }
}

func WithCatalog(c *storage.Catalog) Option {
	return func(e *Experiment) { e.catalog = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Experiment) {
		if l != nil {
			e.logger = l
		}
	}
}

// New validates cfg and builds its source.
func New(cfg *config.Config, opts ...Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pipe, err := cfg.Pipeline()
	if err != nil {
		return nil, err
	}
	src, err := source.NewRegistry().Get(cfg.Source, cfg.Sources())
	if err != nil {
		return nil, err
	}
	e := &Experiment{cfg: cfg.Clone(), pipe: pipe, src: src, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	e.runner = pipeline.NewRunner(pipeline.WithLogger(e.logger))
	return e, nil
}

func (e *Experiment) Source() source.Source { return e.src }

func (e *Experiment) Config() *config.Config { return e.cfg }

// Result holds the stages computed by one call.
type Result struct {
	Meta     *storage.RunMetadata
	Stages   []*pipeline.Stage
	Fluences map[species.Species]*pipeline.Fluence
}

// Last returns the most recent stage.
func (r *Result) Last() *pipeline.Stage {
	if len(r.Stages) == 0 {
		return nil
	}
	return r.Stages[len(r.Stages)-1]
}

// Run executes the stages of a fresh run up to and including until. Nucleus
// sources have a single stage and ignore until.
func (e *Experiment) Run(ctx context.Context, until string) (*Result, error) {
	n, nucleus := e.src.(*source.Nucleus)
	last := 0
	if !nucleus {
		var err error
		if last, err = stageIndex(until); err != nil {
			return nil, err
		}
	}
	res := &Result{}
	if err := e.begin(res); err != nil {
		return nil, err
	}

	if nucleus {
		stage, err := e.runner.NucleusNeutrinos(ctx, n, e.pipe)
		if err != nil {
			return res, err
		}
		return res, e.finish(ctx, res, stage)
	}

	stage, err := e.runner.Hadrons(ctx, e.src, e.pipe)
	if err != nil {
		return res, err
	}
	if err := e.finish(ctx, res, stage); err != nil {
		return res, err
	}
	return res, e.advance(ctx, res, stage, 1, last)
}

// advance runs stages from index next to last, starting from prev.
func (e *Experiment) advance(ctx context.Context, res *Result, prev *pipeline.Stage, next, last int) error {
	for i := next; i <= last; i++ {
		var (
			stage *pipeline.Stage
			err   error
		)
		switch magnetarStages[i] {
		case pipeline.StageNeutrinos:
			stage, err = e.runner.Neutrinos(ctx, prev, e.pipe)
		case pipeline.StageIntegrate:
			stage, res.Fluences, err = e.runner.Integrate(ctx, prev, e.pipe)
		}
		if err != nil {
			return err
		}
		if err := e.finish(ctx, res, stage); err != nil {
			return err
		}
		prev = stage
	}
	return nil
}

// Continue resumes a stored magnetar run, reusing the latest stored stage
// before until.
func Continue(ctx context.Context, store *storage.Store, runID, until string, opts ...Option) (*Result, error) {
	meta, err := store.Load(runID)
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	cfg, err := config.Load(filepath.Join(store.RunDir(runID), configFile))
	if err != nil {
		return nil, fmt.Errorf("loading config of %s: %w", runID, err)
	}
	e, err := New(cfg, append(opts, WithStore(store))...)
	if err != nil {
		return nil, err
	}
	last, err := stageIndex(until)
	if err != nil {
		return nil, err
	}
	if last == 0 {
		return nil, fmt.Errorf("%w: %s is the first stage and cannot be resumed", flux.ErrParameterBounds, until)
	}

	from := -1
	for i := last - 1; i >= 0; i-- {
		if store.HasStage(runID, magnetarStages[i]) {
			from = i
			break
		}
	}
	if from < 0 {
		return nil, fmt.Errorf("run %s has no stage before %s", runID, until)
	}
	prev, err := e.loadStage(runID, magnetarStages[from])
	if err != nil {
		return nil, err
	}

	res := &Result{Meta: meta}
	e.logger.Info("resuming run", zap.String("run", runID), zap.String("from", prev.Name), zap.String("until", until))
	return res, e.advance(ctx, res, prev, from+1, last)
}

func (e *Experiment) loadStage(runID, name string) (*pipeline.Stage, error) {
	stage := &pipeline.Stage{Name: name}
	for _, h := range e.pipe.Species {
		t, err := e.store.LoadTable(runID, name, h)
		if err != nil {
			return nil, fmt.Errorf("loading %s table of %s: %w", name, h, err)
		}
		stage.Results = append(stage.Results, pipeline.SpeciesResult{Species: h, Table: t})
	}
	return stage, nil
}

func (e *Experiment) begin(res *Result) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Init(); err != nil {
		return err
	}
	meta, err := e.store.NewRun(e.cfg.Source, e.src.Header())
	if err != nil {
		return err
	}
	res.Meta = meta
	e.logger.Info("created run", zap.String("run", meta.ID))
	return config.Save(filepath.Join(e.store.RunDir(meta.ID), configFile), e.cfg)
}

func (e *Experiment) finish(ctx context.Context, res *Result, stage *pipeline.Stage) error {
	res.Stages = append(res.Stages, stage)
	if e.store == nil || res.Meta == nil {
		return nil
	}
	if err := e.store.SaveStage(res.Meta, stage); err != nil {
		return fmt.Errorf("saving %s: %w", stage.Name, err)
	}
	if stage.Name == pipeline.StageIntegrate && res.Fluences != nil {
		if err := e.store.SaveFluence(res.Meta, res.Fluences); err != nil {
			return fmt.Errorf("saving fluence: %w", err)
		}
	}
	if e.catalog != nil {
		if err := e.catalog.Record(ctx, res.Meta); err != nil {
			return err
		}
	}
	return nil
}

// StageNames lists the stages a magnetar run can stop after.
func StageNames() []string {
	return append([]string(nil), magnetarStages...)
}

func stageIndex(name string) (int, error) {
	for i, s := range magnetarStages {
		if s == name {
			return i, nil
		}
	}
	return 0, &flux.DomainError{Kind: "stage", Tag: name, Allowed: magnetarStages, Wrapped: flux.ErrUnknownModel}
}
