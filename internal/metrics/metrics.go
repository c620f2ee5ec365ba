// Package metrics summarises spectra as they come out of the pipeline.
package metrics

import (
	"math"

	"github.com/san-kum/nuflux/internal/analysis"
	"github.com/san-kum/nuflux/internal/flux"
)

type Metric interface {
	Name() string
	Observe(s *flux.Spectrum)
	Value() float64
	Reset()
}

// Default returns a fresh set of the standard metrics.
func Default() []Metric {
	return []Metric{NewPeakEnergy(), NewPeakFlux(), NewSpectralIndex(), NewZeroFraction()}
}

// Collect reads every metric into a map.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// PeakEnergy tracks the energy of the largest E^2 S seen.
type PeakEnergy struct {
	energy, peak float64
}

func NewPeakEnergy() *PeakEnergy { return &PeakEnergy{} }

func (p *PeakEnergy) Name() string { return "peak_energy" }

func (p *PeakEnergy) Observe(s *flux.Spectrum) {
	e, v := analysis.Peak(s.Energy.Points(), s.Values)
	if v > p.peak {
		p.energy, p.peak = e, v
	}
}

func (p *PeakEnergy) Value() float64 { return p.energy }

func (p *PeakEnergy) Reset() { p.energy, p.peak = 0, 0 }

// PeakFlux tracks the largest E^2 S seen, in GeV per unit of the spectrum.
type PeakFlux struct {
	peak float64
}

func NewPeakFlux() *PeakFlux { return &PeakFlux{} }

func (p *PeakFlux) Name() string { return "peak_e2_flux" }

func (p *PeakFlux) Observe(s *flux.Spectrum) {
	if _, v := analysis.Peak(s.Energy.Points(), s.Values); v > p.peak {
		p.peak = v
	}
}

func (p *PeakFlux) Value() float64 { return p.peak }

func (p *PeakFlux) Reset() { p.peak = 0 }

// SpectralIndex averages the fitted power-law slope over observed spectra.
type SpectralIndex struct {
	sum     float64
	samples int
}

func NewSpectralIndex() *SpectralIndex { return &SpectralIndex{} }

func (m *SpectralIndex) Name() string { return "spectral_index" }

func (m *SpectralIndex) Observe(s *flux.Spectrum) {
	gamma, err := analysis.SpectralIndex(s.Energy.Points(), s.Values)
	if err != nil {
		return
	}
	m.sum += gamma
	m.samples++
}

func (m *SpectralIndex) Value() float64 {
	if m.samples == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.samples)
}

func (m *SpectralIndex) Reset() { m.sum, m.samples = 0, 0 }

// ZeroFraction is the share of cells that came out exactly zero.
type ZeroFraction struct {
	zeros, cells int
}

func NewZeroFraction() *ZeroFraction { return &ZeroFraction{} }

func (z *ZeroFraction) Name() string { return "zero_fraction" }

func (z *ZeroFraction) Observe(s *flux.Spectrum) {
	for _, v := range s.Values {
		if v == 0 {
			z.zeros++
		}
	}
	z.cells += len(s.Values)
}

func (z *ZeroFraction) Value() float64 {
	if z.cells == 0 {
		return 0
	}
	return float64(z.zeros) / float64(z.cells)
}

func (z *ZeroFraction) Reset() { z.zeros, z.cells = 0, 0 }
