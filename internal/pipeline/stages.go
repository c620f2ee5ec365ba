package pipeline

import (
	"context"
	"fmt"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/fold"
	"github.com/san-kum/nuflux/internal/physics"
	"github.com/san-kum/nuflux/internal/quadrature"
	"github.com/san-kum/nuflux/internal/source"
	"github.com/san-kum/nuflux/internal/species"
	"github.com/san-kum/nuflux/internal/vector"
	"gonum.org/v1/gonum/mat"
)

// Hadrons tabulates the hadron spectrum of src on the energy x time grid.
func (r *Runner) Hadrons(ctx context.Context, src source.Source, cfg Config) (*Stage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	E, _ := cfg.Energy.Grid()
	t, _ := cfg.Time.Grid()

	return r.each(ctx, StageHadrons, cfg.Species, cfg.Workers, func(ctx context.Context, i int, h species.Species) (SpeciesResult, error) {
		field, err := vector.Table(E.Points(), t.Points(), func(e, tt float64) (flux.Value, error) {
			return src.HadronSpectrum(tt, e, h, cfg.Params)
		})
		if err != nil {
			return SpeciesResult{}, fmt.Errorf("%s hadrons: %w", h, err)
		}
		m, err := field.Matrix()
		if err != nil {
			return SpeciesResult{}, err
		}
		table, err := flux.WrapTable(E, t, m)
		if err != nil {
			return SpeciesResult{}, err
		}
		return SpeciesResult{Table: table, Report: field.Report()}, nil
	})
}

// DecayKernel is the Enu x Eh matrix of decay spectra of h.
func DecayKernel(Enu, Eh flux.Grid, h species.Species) (*fold.Kernel, error) {
	field, err := vector.Table(Enu.Points(), Eh.Points(), func(nu, had float64) (flux.Value, error) {
		return physics.HadronDecay(nu, had, h)
	})
	if err != nil {
		return nil, err
	}
	return fold.NewKernel(field)
}

// Neutrinos folds every hadron table of the stage with its decay kernel.
func (r *Runner) Neutrinos(ctx context.Context, hadrons *Stage, cfg Config) (*Stage, error) {
	Enu, err := cfg.Neutrino.Grid()
	if err != nil {
		return nil, fmt.Errorf("neutrino grid: %w", err)
	}
	list := make([]species.Species, len(hadrons.Results))
	for i, res := range hadrons.Results {
		list[i] = res.Species
	}

	return r.each(ctx, StageNeutrinos, list, cfg.Workers, func(ctx context.Context, i int, h species.Species) (SpeciesResult, error) {
		had := hadrons.Results[i]
		if had.Table == nil {
			return SpeciesResult{}, fmt.Errorf("%w: no hadron table for %s", flux.ErrDimensionMismatch, h)
		}
		kernel, err := DecayKernel(Enu, had.Table.Rows, h)
		if err != nil {
			return SpeciesResult{}, err
		}
		out, err := fold.GridFold(kernel, had.Table.Rows, had.Table.Data)
		if err != nil {
			return SpeciesResult{}, fmt.Errorf("%s neutrinos: %w", h, err)
		}
		table, err := flux.WrapTable(Enu, had.Table.Cols, out)
		if err != nil {
			return SpeciesResult{}, err
		}
		return SpeciesResult{Table: table, Report: kernel.Report()}, nil
	})
}

// Fluence holds time-integrated spectra, one column per window.
type Fluence struct {
	Energy  flux.Grid
	Windows []Window
	Data    *mat.Dense
}

// IntegrateTime integrates every row of t over each window. Only grid
// times strictly inside a window contribute.
func IntegrateTime(t *flux.Table, windows []Window, rule quadrature.Rule) (*Fluence, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: no time windows", flux.ErrParameterBounds)
	}
	times := t.Cols.Points()
	out := mat.NewDense(t.Rows.Len(), len(windows), nil)
	for w, win := range windows {
		from, to := t.Cols.Window(win.From, win.To)
		for i := 0; i < t.Rows.Len(); i++ {
			row := t.Row(i)
			out.Set(i, w, rule.Integrate(times[from:to], row[from:to]))
		}
	}
	return &Fluence{Energy: t.Rows, Windows: windows, Data: out}, nil
}

// Integrate runs IntegrateTime for every neutrino table. The result holds
// one spectrum per species, integrated over the widest window.
func (r *Runner) Integrate(ctx context.Context, neutrinos *Stage, cfg Config) (*Stage, map[species.Species]*Fluence, error) {
	list := make([]species.Species, len(neutrinos.Results))
	for i, res := range neutrinos.Results {
		list[i] = res.Species
	}
	fluences := make([]*Fluence, len(list))

	stage, err := r.each(ctx, StageIntegrate, list, cfg.Workers, func(ctx context.Context, i int, h species.Species) (SpeciesResult, error) {
		nu := neutrinos.Results[i]
		if nu.Table == nil {
			return SpeciesResult{}, fmt.Errorf("%w: no neutrino table for %s", flux.ErrDimensionMismatch, h)
		}
		f, err := IntegrateTime(nu.Table, cfg.Windows, quadrature.Trapezoid{})
		if err != nil {
			return SpeciesResult{}, err
		}
		fluences[i] = f
		widest := widestWindow(cfg.Windows)
		return SpeciesResult{Spectrum: &flux.Spectrum{Energy: f.Energy, Values: mat.Col(nil, widest, f.Data)}}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	out := make(map[species.Species]*Fluence, len(list))
	for i, h := range list {
		out[h] = fluences[i]
	}
	return stage, out, nil
}

func widestWindow(ws []Window) int {
	best := 0
	for i, w := range ws {
		if w.To/w.From > ws[best].To/ws[best].From {
			best = i
		}
	}
	return best
}

// NucleusNeutrinos folds the steady injection of n through production,
// cooling and decay on fixed grids.
func (r *Runner) NucleusNeutrinos(ctx context.Context, n *source.Nucleus, cfg Config) (*Stage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	Ep, _ := cfg.Proton.Grid()
	Eh, _ := cfg.Energy.Grid()
	Enu, _ := cfg.Neutrino.Grid()

	injection := make([]float64, Ep.Len())
	for i, e := range Ep.Points() {
		injection[i] = n.Injection(e)
	}

	return r.each(ctx, StageNucleus, cfg.Species, cfg.Workers, func(ctx context.Context, i int, h species.Species) (SpeciesResult, error) {
		prodField, err := vector.Table(Eh.Points(), Ep.Points(), func(had, p float64) (flux.Value, error) {
			return cfg.Params.Production.Spectrum(had/p, p, h)
		})
		if err != nil {
			return SpeciesResult{}, fmt.Errorf("%s production: %w", h, err)
		}
		prod, err := fold.NewKernel(prodField)
		if err != nil {
			return SpeciesResult{}, err
		}
		hadrons, err := fold.FoldVector(prod, Ep, injection)
		if err != nil {
			return SpeciesResult{}, err
		}
		for i, e := range Eh.Points() {
			cf, err := n.CoolingFactor(e, h)
			if err != nil {
				return SpeciesResult{}, err
			}
			hadrons[i] *= cf
		}
		if err := ctx.Err(); err != nil {
			return SpeciesResult{}, err
		}

		decay, err := DecayKernel(Enu, Eh, h)
		if err != nil {
			return SpeciesResult{}, err
		}
		nu, err := fold.FoldVector(decay, Eh, hadrons)
		if err != nil {
			return SpeciesResult{}, err
		}
		spec, err := flux.NewSpectrum(Enu, nu)
		if err != nil {
			return SpeciesResult{}, err
		}
		return SpeciesResult{Spectrum: spec, Report: prod.Report().Merge(decay.Report())}, nil
	})
}
