package source

import (
	"fmt"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/fold"
	"github.com/san-kum/nuflux/internal/physics"
	"github.com/san-kum/nuflux/internal/quadrature"
)

// Params are the tunables of the production chain.
type Params struct {
	// Efficiency is the fraction of the potential drop the protons gain.
	Efficiency float64 `yaml:"efficiency"`
	// Velocity is the ejecta expansion speed as a fraction of c.
	Velocity float64 `yaml:"velocity"`
	// EjectaMass in solar masses.
	EjectaMass float64 `yaml:"ejecta_mass"`
	// FiniteEjecta limits the interaction path to the ejecta radius.
	FiniteEjecta bool `yaml:"finite_ejecta"`
	// OpticalDepth weights the attenuation by the proton optical depth.
	OpticalDepth bool `yaml:"optical_depth"`

	Production physics.Production `yaml:"production"`

	// FoldSteps is the grid size of the energy and time folds.
	FoldSteps int    `yaml:"fold_steps"`
	Rule      string `yaml:"rule"`
}

func DefaultParams() Params {
	return Params{
		Efficiency: 0.1,
		Velocity:   0.1,
		EjectaMass: 10,
		Production: physics.DefaultProduction(),
		FoldSteps:  1000,
		Rule:       "trapezoid",
	}
}

func (p Params) Validate() error {
	switch {
	case !(p.Efficiency > 0 && p.Efficiency <= 1):
		return fmt.Errorf("%w: efficiency must be in (0, 1], got %g", flux.ErrParameterBounds, p.Efficiency)
	case !(p.Velocity > 0 && p.Velocity < 1):
		return fmt.Errorf("%w: velocity must be in (0, 1), got %g", flux.ErrParameterBounds, p.Velocity)
	case !(p.EjectaMass > 0):
		return fmt.Errorf("%w: ejecta mass must be positive, got %g", flux.ErrParameterBounds, p.EjectaMass)
	case p.Production.Steps < 2:
		return fmt.Errorf("%w: production steps must be at least 2, got %d", flux.ErrParameterBounds, p.Production.Steps)
	case p.FoldSteps < 2:
		return fmt.Errorf("%w: fold steps must be at least 2, got %d", flux.ErrParameterBounds, p.FoldSteps)
	}
	_, err := quadrature.Lookup(p.Rule)
	return err
}

// folder builds the log-spaced scalar fold used for energy and time integrals.
func (p Params) folder() (fold.Scalar, error) {
	rule, err := quadrature.Lookup(p.Rule)
	if err != nil {
		return fold.Scalar{}, err
	}
	return fold.Scalar{Rule: rule, Steps: p.FoldSteps, Spacing: fold.Logarithmic}, nil
}

// resultValue carries fold warnings into the folded value.
func resultValue(res fold.Result) flux.Value {
	if res.Report.Warned > 0 && len(res.Report.Samples) > 0 {
		return flux.Warned(res.Value, res.Report.Samples[0])
	}
	return flux.Valid(res.Value)
}
