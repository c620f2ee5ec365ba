package pipeline

import (
	"fmt"
	"math"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/source"
	"github.com/san-kum/nuflux/internal/species"
)

// GridSpec is a log-spaced grid of N points over [Lo, Hi].
type GridSpec struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
	N  int     `yaml:"n"`
}

func (g GridSpec) Grid() (flux.Grid, error) {
	return flux.LogGrid(g.Lo, g.Hi, g.N)
}

// Window is an open time interval (From, To) in s.
type Window struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
}

func (w Window) String() string {
	return fmt.Sprintf("%.0e s - %.0e s", w.From, w.To)
}

type Config struct {
	Species []species.Species
	// Energy is the hadron energy grid.
	Energy GridSpec
	// Time is the time grid of magnetar tables.
	Time GridSpec
	// Neutrino is the neutrino energy grid.
	Neutrino GridSpec
	// Proton is the injection grid of nucleus runs.
	Proton  GridSpec
	Windows []Window
	Params  source.Params
	// Workers bounds the species processed at once; 0 means GOMAXPROCS.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Species:  species.Hadrons.Members(),
		Energy:   GridSpec{Lo: 1e5, Hi: 1e12, N: 100},
		Time:     GridSpec{Lo: 1e1, Hi: 1e8, N: 500},
		Neutrino: GridSpec{Lo: 1e5, Hi: 1e12, N: 100},
		Proton:   GridSpec{Lo: 1e5, Hi: 1e12, N: 200},
		Windows: []Window{
			{From: 1e3, To: 1e4},
			{From: 1e4, To: 1e5},
			{From: 1e3, To: 1e7},
		},
		Params: source.DefaultParams(),
	}
}

// Validate checks species, grids, windows and parameters.
func (c Config) Validate() error {
	if len(c.Species) == 0 {
		return fmt.Errorf("%w: no species requested", flux.ErrParameterBounds)
	}
	for _, h := range c.Species {
		if err := species.Hadrons.Check(h); err != nil {
			return err
		}
	}
	if err := distinct(c.Species); err != nil {
		return err
	}
	grids := []struct {
		name string
		spec GridSpec
	}{{"energy", c.Energy}, {"time", c.Time}, {"neutrino", c.Neutrino}, {"proton", c.Proton}}
	for _, g := range grids {
		if _, err := g.spec.Grid(); err != nil {
			return fmt.Errorf("%s grid: %w", g.name, err)
		}
	}
	for _, w := range c.Windows {
		if !(w.From > 0) || math.IsInf(w.To, 0) {
			return fmt.Errorf("%w: time window %v must lie in (0, +Inf)", flux.ErrParameterBounds, w)
		}
		if !(w.To > w.From) {
			return fmt.Errorf("%w: empty time window %v", flux.ErrParameterBounds, w)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", flux.ErrParameterBounds, c.Workers)
	}
	return c.Params.Validate()
}
