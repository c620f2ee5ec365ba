package flux

import "fmt"

// Spectrum is a 1D spectrum sampled on an energy grid.
type Spectrum struct {
	Energy Grid
	Values []float64
}

func NewSpectrum(energy Grid, values []float64) (*Spectrum, error) {
	if len(values) != energy.Len() {
		return nil, fmt.Errorf("%w: %d energies, %d values", ErrDimensionMismatch, energy.Len(), len(values))
	}
	return &Spectrum{Energy: energy, Values: values}, nil
}

// Spectrum returns the energy spectrum at column j.
func (t *Table) Spectrum(j int) *Spectrum {
	return &Spectrum{Energy: t.Rows, Values: t.Col(j)}
}
