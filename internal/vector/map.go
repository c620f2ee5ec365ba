package vector

import (
	"sync"

	"github.com/san-kum/nuflux/internal/flux"
)

// Func evaluates one cell given the broadcast arguments.
type Func func(args []float64) (flux.Value, error)

// minChunk keeps small grids on a single goroutine.
const minChunk = 256

// Map evaluates f over the broadcast shape of args. The first error stops
// the evaluation and is returned.
func Map(f Func, args ...*Array) (*Field, error) {
	shapes := make([][]int, len(args))
	for i, a := range args {
		shapes[i] = a.shape
	}
	shape, err := BroadcastShape(shapes...)
	if err != nil {
		return nil, err
	}

	st := make([][]int, len(args))
	for i, a := range args {
		st[i] = strides(a.shape, shape)
	}

	n := size(shape)
	values := make([]flux.Value, n)

	var (
		mu       sync.Mutex
		firstErr error
		firstAt  = n
	)

	flux.ParallelFor(n, minChunk, func(start, end int) {
		idx := make([]int, len(shape))
		unravel(start, shape, idx)
		buf := make([]float64, len(args))
		for cell := start; cell < end; cell++ {
			for i, a := range args {
				off := 0
				for d, k := range idx {
					off += k * st[i][d]
				}
				buf[i] = a.data[off]
			}
			v, err := f(buf)
			if err != nil {
				mu.Lock()
				if cell < firstAt {
					firstErr, firstAt = err, cell
				}
				mu.Unlock()
				return
			}
			values[cell] = v
			increment(idx, shape)
		}
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return &Field{shape: shape, values: values}, nil
}

// Table evaluates f on the outer product of rows and cols.
func Table(rows, cols []float64, f func(r, c float64) (flux.Value, error)) (*Field, error) {
	return Map(func(args []float64) (flux.Value, error) {
		return f(args[0], args[1])
	}, Column(rows), Row(cols))
}

func unravel(cell int, shape, idx []int) {
	for d := len(shape) - 1; d >= 0; d-- {
		idx[d] = cell % shape[d]
		cell /= shape[d]
	}
}

func increment(idx, shape []int) {
	for d := len(shape) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < shape[d] {
			return
		}
		idx[d] = 0
	}
}
