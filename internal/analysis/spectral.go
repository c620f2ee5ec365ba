package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/quadrature"
	"gonum.org/v1/gonum/stat"
)

// ErrTooFewPoints means fewer than two positive samples were available.
var ErrTooFewPoints = errors.New("analysis: fewer than two positive points")

// SpectralIndex fits log S = a + gamma log E over points with S > 0 and
// returns gamma.
func SpectralIndex(E, S []float64) (float64, error) {
	var xs, ys []float64
	for i := range E {
		if S[i] > 0 && E[i] > 0 {
			xs = append(xs, math.Log(E[i]))
			ys = append(ys, math.Log(S[i]))
		}
	}
	if len(xs) < 2 {
		return 0, ErrTooFewPoints
	}
	_, gamma := stat.LinearRegression(xs, ys, nil, false)
	return gamma, nil
}

// Peak returns the energy and value of the maximum of E^2 S.
func Peak(E, S []float64) (energy, value float64) {
	for i := range E {
		if v := E[i] * E[i] * S[i]; v > value {
			energy, value = E[i], v
		}
	}
	return energy, value
}

// TimeIntegrated integrates every row of t over its time axis.
func TimeIntegrated(t *flux.Table, rule quadrature.Rule) *flux.Spectrum {
	times := t.Cols.Points()
	out := make([]float64, t.Rows.Len())
	for i := range out {
		out[i] = rule.Integrate(times, t.Row(i))
	}
	return &flux.Spectrum{Energy: t.Rows, Values: out}
}

// LightCurve returns the row of t nearest energy E and that row's energy.
func LightCurve(t *flux.Table, E float64) ([]float64, float64) {
	i := t.Rows.Nearest(E)
	return t.Row(i), t.Rows.At(i)
}
