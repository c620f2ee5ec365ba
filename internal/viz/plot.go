package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/nuflux/internal/flux"
)

const (
	plotHeight = 12
	plotWidth  = 80
)

// logSeries returns log10 of the positive finite entries of y scaled by
// weight(i), with the range of log10 x they span.
func logSeries(x, y []float64, weight func(i int) float64) (data []float64, lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i, v := range y {
		f := v * weight(i)
		if !(f > 0) || math.IsInf(f, 0) {
			continue
		}
		data = append(data, math.Log10(f))
		lx := math.Log10(x[i])
		lo = math.Min(lo, lx)
		hi = math.Max(hi, lx)
	}
	return data, lo, hi
}

// SpectrumPlot draws log10(E^2 S) against the energy grid.
func SpectrumPlot(s *flux.Spectrum, caption string) (string, error) {
	E := s.Energy.Points()
	data, lo, hi := logSeries(E, s.Values, func(i int) float64 { return E[i] * E[i] })
	if len(data) < 2 {
		return "", fmt.Errorf("viz: spectrum %q has fewer than 2 positive samples", caption)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("%s: log10(E^2 dN/dE), log10 E from %.1f to %.1f", caption, lo, hi)),
	), nil
}

// LightCurvePlot draws log10 of a light curve against log-spaced times.
func LightCurvePlot(times, curve []float64, caption string) (string, error) {
	if len(times) != len(curve) {
		return "", fmt.Errorf("%w: %d times, %d samples", flux.ErrDimensionMismatch, len(times), len(curve))
	}
	data, lo, hi := logSeries(times, curve, func(int) float64 { return 1 })
	if len(data) < 2 {
		return "", fmt.Errorf("viz: light curve %q has fewer than 2 positive samples", caption)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("%s: log10 dN/dE, log10 t from %.1f to %.1f", caption, lo, hi)),
	), nil
}
