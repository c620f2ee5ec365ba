package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/metrics"
	"github.com/san-kum/nuflux/internal/species"
	"github.com/san-kum/nuflux/internal/vector"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	StageHadrons   = "hadrons"
	StageNeutrinos = "neutrinos"
	StageIntegrate = "integrate"
	StageNucleus   = "nucleus"
)

// SpeciesResult is the output of one stage for one species. Exactly one of
// Table and Spectrum is set.
type SpeciesResult struct {
	Species  species.Species
	Table    *flux.Table
	Spectrum *flux.Spectrum
	Report   vector.Report
	Metrics  map[string]float64
}

type Stage struct {
	Name    string
	Results []SpeciesResult
	Elapsed time.Duration
}

// Find returns the result for h.
func (s *Stage) Find(h species.Species) (SpeciesResult, bool) {
	for _, r := range s.Results {
		if r.Species == h {
			return r, true
		}
	}
	return SpeciesResult{}, false
}

type Runner struct {
	logger  *zap.Logger
	metrics func() []metrics.Metric
}

type Option func(*Runner)

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics replaces the metric set computed for every species.
func WithMetrics(factory func() []metrics.Metric) Option {
	return func(r *Runner) { r.metrics = factory }
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{logger: zap.NewNop(), metrics: metrics.Default}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// distinct rejects species lists naming a hadron twice.
func distinct(list []species.Species) error {
	seen := make(map[species.Species]bool, len(list))
	for _, h := range list {
		if seen[h] {
			return fmt.Errorf("%w: species %s requested twice", flux.ErrParameterBounds, h.Tag())
		}
		seen[h] = true
	}
	return nil
}

// speciesFunc computes the result for list[i].
type speciesFunc func(ctx context.Context, i int, h species.Species) (SpeciesResult, error)

// each runs fn for every species with at most workers in flight.
func (r *Runner) each(ctx context.Context, stage string, list []species.Species, workers int, fn speciesFunc) (*Stage, error) {
	if err := distinct(list); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	start := time.Now()
	results := make([]SpeciesResult, len(list))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, h := range list {
		i, h := i, h
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := fn(gctx, i, h)
			if err != nil {
				return err
			}
			res.Species = h
			res.Metrics = r.observe(res)
			results[i] = res
			r.logResult(stage, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	r.logger.Info("stage complete",
		zap.String("stage", stage),
		zap.Int("species", len(list)),
		zap.Duration("elapsed", elapsed),
	)
	return &Stage{Name: stage, Results: results, Elapsed: elapsed}, nil
}

func (r *Runner) observe(res SpeciesResult) map[string]float64 {
	ms := r.metrics()
	for _, m := range ms {
		m.Reset()
	}
	switch {
	case res.Table != nil:
		for j := 0; j < res.Table.Cols.Len(); j++ {
			s := res.Table.Spectrum(j)
			for _, m := range ms {
				m.Observe(s)
			}
		}
	case res.Spectrum != nil:
		for _, m := range ms {
			m.Observe(res.Spectrum)
		}
	}
	return metrics.Collect(ms)
}

func (r *Runner) logResult(stage string, res SpeciesResult) {
	fields := []zap.Field{
		zap.String("stage", stage),
		zap.String("species", res.Species.Tag()),
		zap.Int("cells", res.Report.Cells),
	}
	rep := res.Report
	if rep.Outside == 0 && rep.Warned == 0 && rep.NonFinite == 0 {
		r.logger.Debug("species done", fields...)
		return
	}
	fields = append(fields,
		zap.Int("outside", rep.Outside),
		zap.Int("warned", rep.Warned),
		zap.Int("non_finite", rep.NonFinite),
		zap.Strings("samples", rep.Samples),
	)
	switch {
	case rep.NonFinite > 0:
		r.logger.Warn("non-finite values zeroed", fields...)
	case rep.Warned > 0:
		r.logger.Warn("parametrization evaluated outside its fitted range", fields...)
	default:
		r.logger.Debug("species done with zeroed cells", fields...)
	}
}
