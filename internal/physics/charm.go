package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/fold"
	"github.com/san-kum/nuflux/internal/quadrature"
	"github.com/san-kum/nuflux/internal/species"
)

// CharmFit holds one set of constants of the charm quark x-distribution
// a x^b (1 - x^m)^n with a, b, n linear in ln E.
type CharmFit struct {
	A1 float64 `yaml:"a1"`
	A2 float64 `yaml:"a2"`
	B1 float64 `yaml:"b1"`
	B2 float64 `yaml:"b2"`
	N1 float64 `yaml:"n1"`
	N2 float64 `yaml:"n2"`
}

// CharmModel selects between two fits at Switch and records the energy
// range the fits were made on.
type CharmModel struct {
	Low      CharmFit `yaml:"low"`
	High     CharmFit `yaml:"high"`
	Switch   float64  `yaml:"switch"`
	M        float64  `yaml:"m"`
	Norm     float64  `yaml:"norm"`
	ValidMin float64  `yaml:"valid_min"`
	ValidMax float64  `yaml:"valid_max"`
}

func DefaultCharmModel() CharmModel {
	return CharmModel{
		Low:      CharmFit{A1: 0.826, A2: 8.411, B1: 0.197, B2: 0.016, N1: 1.061, N2: 0.107},
		High:     CharmFit{A1: 0.403, A2: 2.002, B1: 0.237, B2: 0.023, N1: 7.639, N2: 0.102},
		Switch:   1e8,
		M:        1.2,
		Norm:     14.5,
		ValidMin: 1e4,
		ValidMax: 1e11,
	}
}

const reasonCharmRange = "proton energy outside the charm fit range"

func (c CharmModel) inRange(E float64) bool {
	return E >= c.ValidMin && E <= c.ValidMax
}

// CharmQuarkDifferential is dsigma/dx of charm quark production in
// proton-proton collisions, in mb.
func CharmQuarkDifferential(x, E float64, c CharmModel) flux.Value {
	if !(x > 0 && x < 1) || !(E > 0) {
		return flux.Outside("momentum fraction outside (0, 1)")
	}
	f := c.Low
	if E >= c.Switch {
		f = c.High
	}
	l := math.Log(E)
	a := f.A1*l - f.A2
	b := f.B1 - f.B2*l - 1
	n := f.N1 + f.N2*l
	v := a * math.Pow(x, b) * math.Pow(1-math.Pow(x, c.M), n) / c.Norm

	if !c.inRange(E) {
		return flux.Warned(v, reasonCharmRange)
	}
	return flux.Valid(v)
}

type fragmentation struct {
	N, Eps float64
}

var fragmentations = map[species.Species]fragmentation{
	species.D0:      {N: 0.577, Eps: 0.101},
	species.DPlus:   {N: 0.238, Eps: 0.104},
	species.DsPlus:  {N: 0.0327, Eps: 0.0322},
	species.LambdaC: {N: 0.0067, Eps: 0.00418},
}

// CharmedHadronFragmentation is the Peterson fragmentation function of a
// charm quark into h carrying momentum fraction z.
func CharmedHadronFragmentation(z float64, h species.Species) (float64, error) {
	if err := species.Charmed.Check(h); err != nil {
		return 0, err
	}
	f := fragmentations[h]
	q := (1 - z) * (1 - z)
	d := q + f.Eps*z
	return f.N * z * q / (d * d), nil
}

// CharmedHadronDifferential is dsigma/dx of charmed hadron production in
// mb: the charm quark distribution convolved with the fragmentation
// function over z in [x, 1] with steps points.
func CharmedHadronDifferential(x, E float64, h species.Species, steps int, c CharmModel) (flux.Value, error) {
	if err := species.Charmed.Check(h); err != nil {
		return flux.Value{}, err
	}
	if steps < 2 {
		return flux.Value{}, fmt.Errorf("%w: charm integration needs at least 2 steps, got %d", flux.ErrParameterBounds, steps)
	}
	if !(x > 0 && x < 1) || !(E > 0) {
		return flux.Outside("momentum fraction outside (0, 1)"), nil
	}
	m := species.MustLookup(h).Mass
	if m >= x*E {
		return flux.Outside("below production threshold"), nil
	}
	u := math.Sqrt(1 - m/(x*E))

	integrand := func(z float64) (flux.Value, error) {
		frag, err := CharmedHadronFragmentation(z, h)
		if err != nil {
			return flux.Value{}, err
		}
		return CharmQuarkDifferential(x/z, E, c).Scale(frag / z), nil
	}

	folder := fold.Scalar{Rule: quadrature.Trapezoid{}, Steps: steps, Spacing: fold.Linear}
	res, err := folder.Fold(x, 1, integrand)
	if err != nil {
		return flux.Value{}, err
	}
	v := u * res.Value
	if !c.inRange(E) {
		return flux.Warned(v, reasonCharmRange), nil
	}
	return flux.Valid(v), nil
}
