package physics

import (
	"math"

	"github.com/san-kum/nuflux/internal/species"
)

// Regge-type fit of hadron-proton total cross sections.
type reggeFit struct {
	P, R1, R2, Sh float64
}

var reggeFits = map[species.Species]reggeFit{
	species.Proton: {P: 34.41, R1: 13.07, R2: 7.39, Sh: 15.98},
	species.Pion:   {P: 18.75, R1: 9.56, R2: 1.767, Sh: 10.23},
	species.Kaon:   {P: 16.36, R1: 4.29, R2: 3.408, Sh: 12.62},
}

const (
	reggeH  = 0.272
	reggeN1 = 0.447
	reggeN2 = 0.5486
)

// TotalHadronProton returns the total cross section in mb for squared
// centre-of-mass energy s in GeV^2.
func TotalHadronProton(s float64, h species.Species) (float64, error) {
	if err := species.Projectiles.Check(h); err != nil {
		return 0, err
	}
	f := reggeFits[h]
	l := math.Log(s / f.Sh)
	return reggeH*l*l + f.P + f.R1*math.Pow(f.Sh/s, reggeN1) + f.R2*math.Pow(f.Sh/s, reggeN2), nil
}

// ElasticTotalRatio is the elastic fraction of the total proton-proton
// cross section.
func ElasticTotalRatio(s float64) float64 {
	l := math.Log(s)
	return 0.5 * math.Tanh(0.466-0.0259*l+0.00177*l*l)
}

func InelasticHadronProton(s float64, h species.Species) (float64, error) {
	total, err := TotalHadronProton(s, h)
	if err != nil {
		return 0, err
	}
	return total * (1 - ElasticTotalRatio(s)), nil
}
