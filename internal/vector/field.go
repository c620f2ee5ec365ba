package vector

import (
	"fmt"
	"math"

	"github.com/san-kum/nuflux/internal/flux"
	"gonum.org/v1/gonum/mat"
)

// maxSamples bounds the distinct reasons kept in a Report.
const maxSamples = 5

// Field is an N-d array of parametrization results.
type Field struct {
	shape  []int
	values []flux.Value
}

// FieldOf wraps values as a rank-1 field.
func FieldOf(values []flux.Value) *Field {
	return &Field{shape: []int{len(values)}, values: values}
}

func (f *Field) Shape() []int { return append([]int(nil), f.shape...) }

func (f *Field) Len() int { return len(f.values) }

func (f *Field) At(idx ...int) flux.Value {
	return f.values[offset(f.shape, idx)]
}

// Zeroed converts the field to numbers, substituting zero for outside and
// non-finite cells.
func (f *Field) Zeroed() *Array {
	data := make([]float64, len(f.values))
	for i, v := range f.values {
		data[i] = v.OrZero()
	}
	return &Array{shape: f.Shape(), data: data}
}

// Matrix is Zeroed for rank-2 fields.
func (f *Field) Matrix() (*mat.Dense, error) {
	if len(f.shape) != 2 {
		return nil, fmt.Errorf("%w: rank %d field is not a matrix", flux.ErrShapeMismatch, len(f.shape))
	}
	if f.shape[0] == 0 || f.shape[1] == 0 {
		return nil, fmt.Errorf("%w: empty matrix %v", flux.ErrShapeMismatch, f.shape)
	}
	return mat.NewDense(f.shape[0], f.shape[1], f.Zeroed().data), nil
}

// Report summarises how many cells fell outside the validated domain.
type Report struct {
	Cells     int
	Outside   int
	Warned    int
	// NonFinite counts NaN or Inf results that were zeroed.
	NonFinite int
	Samples   []string
}

const reasonNonFinite = "non-finite value"

func (f *Field) Report() Report {
	r := Report{Cells: len(f.values)}
	seen := make(map[string]bool)
	for _, v := range f.values {
		reason := v.Reason()
		switch {
		case v.IsOutside():
			r.Outside++
		case math.IsNaN(v.Raw()) || math.IsInf(v.Raw(), 0):
			r.NonFinite++
			reason = reasonNonFinite
		case v.IsWarned():
			r.Warned++
		default:
			continue
		}
		if reason != "" && !seen[reason] && len(r.Samples) < maxSamples {
			seen[reason] = true
			r.Samples = append(r.Samples, reason)
		}
	}
	return r
}

// Merge adds the counts of o to r.
func (r Report) Merge(o Report) Report {
	r.Cells += o.Cells
	r.Outside += o.Outside
	r.Warned += o.Warned
	r.NonFinite += o.NonFinite
	r.Samples = append([]string(nil), r.Samples...)
	for _, s := range o.Samples {
		if len(r.Samples) >= maxSamples {
			break
		}
		dup := false
		for _, have := range r.Samples {
			if have == s {
				dup = true
				break
			}
		}
		if !dup {
			r.Samples = append(r.Samples, s)
		}
	}
	return r
}
