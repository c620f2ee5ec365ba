package physics

import (
	"math"

	"github.com/san-kum/nuflux/internal/species"
)

const (
	// coolingInelasticity is the energy fraction a hadron loses per collision.
	coolingInelasticity = 0.8
	// protonInelasticity is the same for the primary protons.
	protonInelasticity = 0.5
)

// CoolingFactor is the probability that a hadron of energy E interacts with
// target protons of density n before it decays. The path is the decay
// length, or the region size d when the region is smaller. d <= 0 or +Inf
// means an unbounded region.
func CoolingFactor(E, n float64, h species.Species, d float64) (float64, error) {
	if err := species.Hadrons.Check(h); err != nil {
		return 0, err
	}
	p := species.MustLookup(h)
	sigma, err := InelasticHadronProton(MandelstamS(E, p.Mass), p.CrossSection)
	if err != nil {
		return 0, err
	}
	if !(n > 0) || !(sigma > 0) {
		return 0, nil
	}

	decayLength := p.Lifetime * E / p.Mass * SpeedOfLight
	path := decayLength
	if d > 0 && !math.IsInf(d, 1) && d < decayLength {
		path = d
	}
	return -math.Expm1(-path * coolingInelasticity * sigma * MillibarnToCm2 * n), nil
}

// OpticalDepth of a target region of size d and density n for protons of
// energy E.
func OpticalDepth(E, n, d float64) float64 {
	sigma, _ := InelasticHadronProton(MandelstamS(E, ProtonMass), species.Proton)
	return d * protonInelasticity * sigma * MillibarnToCm2 * n
}
