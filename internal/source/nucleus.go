package source

import (
	"fmt"
	"math"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/physics"
	"github.com/san-kum/nuflux/internal/species"
)

// NucleusConfig describes a steady power-law proton source behind a target
// of Density protons per cm^3 and Size cm.
type NucleusConfig struct {
	Density float64 `yaml:"density"`
	Size    float64 `yaml:"size"`
	Norm    float64 `yaml:"norm"`
	Index   float64 `yaml:"index"`
	EMin    float64 `yaml:"e_min"`
	EMax    float64 `yaml:"e_max"`
}

func DefaultNucleusConfig() NucleusConfig {
	return NucleusConfig{
		Density: 1e14,
		Size:    1e15,
		Norm:    1e30,
		Index:   2,
		EMin:    1e5,
		EMax:    1e12,
	}
}

type Nucleus struct {
	cfg NucleusConfig
}

func NewNucleus(cfg NucleusConfig) (*Nucleus, error) {
	switch {
	case !(cfg.Density > 0), !(cfg.Size > 0), !(cfg.Norm > 0):
		return nil, fmt.Errorf("%w: nucleus density, size and norm must be positive", flux.ErrParameterBounds)
	case !(cfg.EMin > 0 && cfg.EMax > cfg.EMin):
		return nil, fmt.Errorf("%w: nucleus energy range [%g, %g]", flux.ErrParameterBounds, cfg.EMin, cfg.EMax)
	}
	return &Nucleus{cfg: cfg}, nil
}

func (n *Nucleus) Name() string { return "nucleus" }

func (n *Nucleus) Config() NucleusConfig { return n.cfg }

func (n *Nucleus) MaxEnergy(float64, Params) float64 { return n.cfg.EMax }

// Injection is the rate of protons interacting in the target per unit
// energy: the power law weighted by the target optical depth.
func (n *Nucleus) Injection(Ep float64) float64 {
	if Ep < n.cfg.EMin || Ep > n.cfg.EMax {
		return 0
	}
	return n.cfg.Norm * math.Pow(Ep, -n.cfg.Index) * physics.OpticalDepth(Ep, n.cfg.Density, n.cfg.Size)
}

func (n *Nucleus) CoolingFactor(E float64, h species.Species) (float64, error) {
	return physics.CoolingFactor(E, n.cfg.Density, h, n.cfg.Size)
}

// HadronSpectrum folds the injection spectrum with hadron production and
// weights the result by the cooling factor. The source is steady, so t is
// ignored.
func (n *Nucleus) HadronSpectrum(_, Eh float64, h species.Species, p Params) (flux.Value, error) {
	if err := species.Hadrons.Check(h); err != nil {
		return flux.Value{}, err
	}
	folder, err := p.folder()
	if err != nil {
		return flux.Value{}, err
	}
	lo := math.Max(Eh, n.cfg.EMin)
	res, err := folder.Fold(lo, n.cfg.EMax, func(Ep float64) (flux.Value, error) {
		prod, err := p.Production.Spectrum(Eh/Ep, Ep, h)
		if err != nil {
			return flux.Value{}, err
		}
		return prod.Scale(n.Injection(Ep)), nil
	})
	if err != nil {
		return flux.Value{}, err
	}
	cf, err := n.CoolingFactor(Eh, h)
	if err != nil {
		return flux.Value{}, err
	}
	return resultValue(res).Scale(cf), nil
}

func (n *Nucleus) Header() []string {
	return []string{
		"Nucleus:",
		fmt.Sprintf("    n = %.3g 1 / cm**3", n.cfg.Density),
		fmt.Sprintf("    d = %.3g cm", n.cfg.Size),
		fmt.Sprintf("    spectrum = %.3g * E**-%.3g 1 / (GeV s)", n.cfg.Norm, n.cfg.Index),
		fmt.Sprintf("    E = [%.3g, %.3g] GeV", n.cfg.EMin, n.cfg.EMax),
	}
}
