package export

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/nuflux/internal/flux"
)

// TableData is the JSON form of an energy x time table.
type TableData struct {
	RunID    string             `json:"run_id"`
	Stage    string             `json:"stage"`
	Species  string             `json:"species"`
	Energies []float64          `json:"energies_gev"`
	Times    []float64          `json:"times_s,omitempty"`
	Values   [][]float64        `json:"values"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
}

// FromTable fills the axes and values of d; row i of Values is energy i.
func (d *TableData) FromTable(t *flux.Table) {
	d.Energies = t.Rows.Points()
	d.Times = t.Cols.Points()
	d.Values = make([][]float64, t.Rows.Len())
	for i := range d.Values {
		d.Values[i] = clean(t.Row(i))
	}
}

// FromSpectrum fills d with a single column.
func (d *TableData) FromSpectrum(s *flux.Spectrum) {
	d.Energies = s.Energy.Points()
	d.Times = nil
	d.Values = make([][]float64, len(s.Values))
	for i, v := range clean(s.Values) {
		d.Values[i] = []float64{v}
	}
}

func WriteJSON(w io.Writer, d *TableData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

func clean(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[i] = v
		}
	}
	return out
}
