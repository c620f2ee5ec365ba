package physics

import (
	"math"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/species"
)

const (
	mesonB0 = 0.25
	mesonA0 = 0.98
	mesonR0 = 2.6
	mesonC1 = 1.515
	mesonC2 = 0.206
	mesonC3 = 0.075
)

// MesonProduction is the spectrum dN/dE_h in 1/GeV of mesons carrying the
// energy fraction x of a proton with energy E.
func MesonProduction(x, E float64, h species.Species) (flux.Value, error) {
	if err := species.Mesons.Check(h); err != nil {
		return flux.Value{}, err
	}
	if !(x > 0 && x < 1) || !(E > 0) {
		return flux.Outside("energy fraction outside (0, 1)"), nil
	}
	p := species.MustLookup(h)
	if p.Mass >= x*E {
		return flux.Outside("below production threshold"), nil
	}

	l := math.Log(E)
	C := mesonC1 - mesonC2*l + mesonC3*l*l
	B := mesonB0 + C
	a := mesonA0 / math.Sqrt(C)
	r := mesonR0 / math.Sqrt(C)

	xa := math.Pow(x, a)
	u := math.Sqrt(1 - p.Mass/(x*E))
	v := 1 - xa
	w := 1 + r*xa*v
	// (v/w)^4 (1/v + r(1-2x^a)/w) with the 1/v folded in
	shape := v*v*v/(w*w*w*w) + math.Pow(v/w, 4)*r*(1-2*xa)/w
	F := 4 * a * B * math.Pow(x, a-1) * shape * u

	return flux.Valid(p.Production * F / E), nil
}

// CharmedHadronProduction is the spectrum dN/dE_h in 1/GeV of charmed
// hadrons: the differential cross section per inelastic proton-proton
// cross section, per unit proton energy.
func CharmedHadronProduction(x, E float64, h species.Species, steps int, c CharmModel) (flux.Value, error) {
	d, err := CharmedHadronDifferential(x, E, h, steps, c)
	if err != nil || d.IsOutside() {
		return d, err
	}
	sigma, err := InelasticHadronProton(MandelstamS(E, ProtonMass), species.Proton)
	if err != nil {
		return flux.Value{}, err
	}
	return d.Scale(1 / (sigma * E)), nil
}

// Production dispatches hadron production by species.
type Production struct {
	// Steps is the number of points of the fragmentation integral.
	Steps int        `yaml:"steps"`
	Charm CharmModel `yaml:"charm"`
}

func DefaultProduction() Production {
	return Production{Steps: 100, Charm: DefaultCharmModel()}
}

func (p Production) Spectrum(x, E float64, h species.Species) (flux.Value, error) {
	switch {
	case species.Mesons.Contains(h):
		return MesonProduction(x, E, h)
	case species.Charmed.Contains(h):
		return CharmedHadronProduction(x, E, h, p.Steps, p.Charm)
	default:
		return flux.Value{}, species.Hadrons.Check(h)
	}
}
