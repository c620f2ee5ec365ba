package fold

import (
	"fmt"
	"math"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/vector"
	"gonum.org/v1/gonum/mat"
)

// Kernel is a sanitised Y×X matrix. It is never mutated after construction.
type Kernel struct {
	m      *mat.Dense
	report vector.Report
}

// NewKernel converts a rank-2 field, zeroing outside and non-finite cells.
func NewKernel(f *vector.Field) (*Kernel, error) {
	m, err := f.Matrix()
	if err != nil {
		return nil, err
	}
	return &Kernel{m: m, report: f.Report()}, nil
}

// KernelFromDense copies m, zeroing non-finite cells.
func KernelFromDense(m mat.Matrix) *Kernel {
	clean, n := Sanitize(m)
	r, c := clean.Dims()
	return &Kernel{m: clean, report: vector.Report{Cells: r * c, NonFinite: n}}
}

func (k *Kernel) Dims() (r, c int) { return k.m.Dims() }

func (k *Kernel) At(i, j int) float64 { return k.m.At(i, j) }

func (k *Kernel) Report() vector.Report { return k.report }

// Sanitize returns a copy of m with NaN and Inf replaced by zero, and the
// number of replaced cells.
func Sanitize(m mat.Matrix) (*mat.Dense, int) {
	out := mat.DenseCopyOf(m)
	r, c := out.Dims()
	n := 0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := out.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				out.Set(i, j, 0)
				n++
			}
		}
	}
	return out, n
}

// Weights is diag(Δx) with Δx the forward differences of x and a leading zero.
func Weights(x flux.Grid) *mat.DiagDense {
	return mat.NewDiagDense(x.Len(), x.Diffs())
}

// GridFold returns K · diag(Δx) · input. K is Y×X, x has X points and input
// is X×T. Non-finite input cells are zeroed first.
func GridFold(k *Kernel, x flux.Grid, input mat.Matrix) (*mat.Dense, error) {
	kr, kc := k.Dims()
	ir, ic := input.Dims()
	if kc != x.Len() || ir != x.Len() {
		return nil, fmt.Errorf("%w: kernel %dx%d, grid %d, input %dx%d", flux.ErrDimensionMismatch, kr, kc, x.Len(), ir, ic)
	}

	clean, _ := Sanitize(input)

	var weighted mat.Dense
	weighted.Mul(k.m, Weights(x))

	out := mat.NewDense(kr, ic, nil)
	out.Mul(&weighted, clean)
	return out, nil
}

// FoldVector is GridFold for a single input column.
func FoldVector(k *Kernel, x flux.Grid, input []float64) ([]float64, error) {
	if len(input) != x.Len() {
		return nil, fmt.Errorf("%w: grid %d, input %d", flux.ErrDimensionMismatch, x.Len(), len(input))
	}
	out, err := GridFold(k, x, mat.NewDense(len(input), 1, append([]float64(nil), input...)))
	if err != nil {
		return nil, err
	}
	return mat.Col(nil, 0, out), nil
}
