package vector

import (
	"fmt"

	"github.com/san-kum/nuflux/internal/flux"
)

// Array is a dense row-major N-d array of numbers.
type Array struct {
	shape []int
	data  []float64
}

func NewArray(shape []int, data []float64) (*Array, error) {
	n := size(shape)
	if data == nil {
		data = make([]float64, n)
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", flux.ErrShapeMismatch, shape, n, len(data))
	}
	return &Array{shape: append([]int(nil), shape...), data: data}, nil
}

func Scalar(v float64) *Array {
	return &Array{shape: []int{}, data: []float64{v}}
}

// Vector is a rank-1 array.
func Vector(v []float64) *Array {
	return &Array{shape: []int{len(v)}, data: append([]float64(nil), v...)}
}

// Column is an n×1 array, the left operand of an outer product.
func Column(v []float64) *Array {
	return &Array{shape: []int{len(v), 1}, data: append([]float64(nil), v...)}
}

// Row is a 1×n array, the right operand of an outer product.
func Row(v []float64) *Array {
	return &Array{shape: []int{1, len(v)}, data: append([]float64(nil), v...)}
}

func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

func (a *Array) Len() int { return len(a.data) }

// Data exposes the backing slice in row-major order.
func (a *Array) Data() []float64 { return a.data }

func (a *Array) At(idx ...int) float64 {
	return a.data[offset(a.shape, idx)]
}

func size(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func offset(shape, idx []int) int {
	if len(idx) != len(shape) {
		panic(fmt.Sprintf("vector: %d indices for rank %d", len(idx), len(shape)))
	}
	off := 0
	for i, d := range shape {
		if idx[i] < 0 || idx[i] >= d {
			panic(fmt.Sprintf("vector: index %v out of range for shape %v", idx, shape))
		}
		off = off*d + idx[i]
	}
	return off
}
