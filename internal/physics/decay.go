package physics

import (
	"math"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/species"
)

const reasonDecayLimit = "neutrino energy fraction beyond kinematic limit"

func decayFraction(Enu, Eh, lambda float64) (float64, bool) {
	if !(Eh > 0) {
		return 0, false
	}
	y := Enu / Eh
	if y < 0 || y > 1-lambda {
		return y, false
	}
	return y, true
}

// MesonDecay is the muon-neutrino spectrum dN/dE_nu in 1/GeV of a two-body
// meson decay in flight.
func MesonDecay(Enu, Eh float64, h species.Species) (flux.Value, error) {
	if err := species.Mesons.Check(h); err != nil {
		return flux.Value{}, err
	}
	p := species.MustLookup(h)
	if _, ok := decayFraction(Enu, Eh, p.Lambda); !ok {
		return flux.Outside(reasonDecayLimit), nil
	}
	return flux.Valid(p.Branching / (Eh * (1 - p.Lambda))), nil
}

// CharmedHadronDecay is the neutrino spectrum dN/dE_nu in 1/GeV of a
// semileptonic three-body charmed hadron decay in flight.
func CharmedHadronDecay(Enu, Eh float64, h species.Species) (flux.Value, error) {
	if err := species.Charmed.Check(h); err != nil {
		return flux.Value{}, err
	}
	l := species.MustLookup(h).Lambda
	y, ok := decayFraction(Enu, Eh, l)
	if !ok {
		return flux.Outside(reasonDecayLimit), nil
	}

	a := 1 - l
	b := 1 - 2*l
	l2, l3 := l*l, l*l*l
	norm := 1 - 8*l - 12*l2*math.Log(l) + 8*l3 - l2*l2
	F := (6*b*a*a - 4*a*a*a - 12*l3*a + 12*l2*y - 6*b*y*y + 4*y*y*y + 12*l2*math.Log((1-y)/l)) / norm

	return flux.Valid(F / Eh), nil
}

func HadronDecay(Enu, Eh float64, h species.Species) (flux.Value, error) {
	switch {
	case species.Mesons.Contains(h):
		return MesonDecay(Enu, Eh, h)
	case species.Charmed.Contains(h):
		return CharmedHadronDecay(Enu, Eh, h)
	default:
		return flux.Value{}, species.Hadrons.Check(h)
	}
}

// DecayThreshold is the lowest hadron energy able to produce a neutrino of
// energy Enu.
func DecayThreshold(Enu float64, h species.Species) (float64, error) {
	if err := species.Hadrons.Check(h); err != nil {
		return 0, err
	}
	return Enu / (1 - species.MustLookup(h).Lambda), nil
}
