package physics

import (
	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/fold"
	"github.com/san-kum/nuflux/internal/quadrature"
	"github.com/san-kum/nuflux/internal/species"
)

// LHCSqrtS is the collider energy of the reference charm measurements, in GeV.
const LHCSqrtS = 13e3

// MeasuredCharm holds integrated charmed hadron cross sections at
// sqrt(s) = 13 TeV, in mb.
var MeasuredCharm = []struct {
	Species species.Species
	Sigma   float64
}{
	{species.D0, 2.072},
	{species.DPlus, 0.834},
	{species.DsPlus, 0.353},
}

type CharmCheck struct {
	Species  species.Species
	Measured float64
	Computed float64
	// Ratio counts particles and antiparticles: 2 Computed / Measured.
	Ratio float64
}

// CheckCharm integrates dsigma/dx over x in [1e-10, 1] on points log-spaced
// samples and compares it with MeasuredCharm.
func CheckCharm(c CharmModel, steps, points int) ([]CharmCheck, error) {
	E := ProjectileEnergy(LHCSqrtS * LHCSqrtS)
	folder := fold.Scalar{Rule: quadrature.Riemann{}, Steps: points, Spacing: fold.Logarithmic}

	out := make([]CharmCheck, 0, len(MeasuredCharm))
	for _, m := range MeasuredCharm {
		h := m.Species
		res, err := folder.Fold(1e-10, 1, func(x float64) (flux.Value, error) {
			return CharmedHadronDifferential(x, E, h, steps, c)
		})
		if err != nil {
			return nil, err
		}
		out = append(out, CharmCheck{
			Species:  h,
			Measured: m.Sigma,
			Computed: res.Value,
			Ratio:    2 * res.Value / m.Sigma,
		})
	}
	return out, nil
}
