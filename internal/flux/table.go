package flux

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Table is a 2D spectrum: rows follow the energy grid, columns the time grid.
type Table struct {
	Rows Grid
	Cols Grid
	Data *mat.Dense
}

func NewTable(rows, cols Grid) *Table {
	return &Table{Rows: rows, Cols: cols, Data: mat.NewDense(rows.Len(), cols.Len(), nil)}
}

// WrapTable aligns an existing matrix with its axes.
func WrapTable(rows, cols Grid, data *mat.Dense) (*Table, error) {
	r, c := data.Dims()
	if r != rows.Len() || c != cols.Len() {
		return nil, fmt.Errorf("%w: table %dx%d, axes %dx%d", ErrDimensionMismatch, r, c, rows.Len(), cols.Len())
	}
	return &Table{Rows: rows, Cols: cols, Data: data}, nil
}

func (t *Table) At(i, j int) float64 { return t.Data.At(i, j) }

// Row returns the light curve at energy Rows.At(i).
func (t *Table) Row(i int) []float64 {
	return mat.Row(nil, i, t.Data)
}

// Col returns the energy spectrum at time Cols.At(j).
func (t *Table) Col(j int) []float64 {
	return mat.Col(nil, j, t.Data)
}
