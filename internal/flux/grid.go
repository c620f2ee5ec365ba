package flux

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Grid is an immutable, strictly increasing sequence of positive points.
type Grid struct {
	points []float64
}

func NewGrid(points []float64) (Grid, error) {
	if len(points) == 0 {
		return Grid{}, fmt.Errorf("%w: empty", ErrInvalidGrid)
	}
	for i, p := range points {
		if !(p > 0) || math.IsInf(p, 0) {
			return Grid{}, fmt.Errorf("%w: point %d is %g", ErrInvalidGrid, i, p)
		}
		if i > 0 && p <= points[i-1] {
			return Grid{}, fmt.Errorf("%w: not strictly increasing at %d", ErrInvalidGrid, i)
		}
	}
	return Grid{points: append([]float64(nil), points...)}, nil
}

// LinearGrid returns n evenly spaced points over [lo, hi].
func LinearGrid(lo, hi float64, n int) (Grid, error) {
	if n < 2 || !(hi > lo) {
		return Grid{}, fmt.Errorf("%w: linear [%g, %g] with %d points", ErrInvalidGrid, lo, hi, n)
	}
	return NewGrid(floats.Span(make([]float64, n), lo, hi))
}

// LogGrid returns n logarithmically spaced points over [lo, hi].
func LogGrid(lo, hi float64, n int) (Grid, error) {
	if n < 2 || !(hi > lo) || !(lo > 0) {
		return Grid{}, fmt.Errorf("%w: log [%g, %g] with %d points", ErrInvalidGrid, lo, hi, n)
	}
	return NewGrid(floats.LogSpan(make([]float64, n), lo, hi))
}

func (g Grid) Len() int { return len(g.points) }

func (g Grid) At(i int) float64 { return g.points[i] }

func (g Grid) First() float64 { return g.points[0] }

func (g Grid) Last() float64 { return g.points[len(g.points)-1] }

// Points returns a copy of the grid points.
func (g Grid) Points() []float64 {
	return append([]float64(nil), g.points...)
}

// Diffs returns forward differences with a leading zero, so the lower bound
// carries no weight.
func (g Grid) Diffs() []float64 {
	d := make([]float64, len(g.points))
	for i := 1; i < len(g.points); i++ {
		d[i] = g.points[i] - g.points[i-1]
	}
	return d
}

// Window returns the index range [from, to) of points strictly inside (lo, hi).
func (g Grid) Window(lo, hi float64) (from, to int) {
	from = sort.Search(len(g.points), func(i int) bool { return g.points[i] > lo })
	to = sort.Search(len(g.points), func(i int) bool { return g.points[i] >= hi })
	if to < from {
		to = from
	}
	return from, to
}

// Slice returns the sub-grid [from, to).
func (g Grid) Slice(from, to int) Grid {
	return Grid{points: append([]float64(nil), g.points[from:to]...)}
}

// Nearest returns the index of the point closest to v.
func (g Grid) Nearest(v float64) int {
	best, dist := 0, math.Inf(1)
	for i, p := range g.points {
		if d := math.Abs(p - v); d < dist {
			best, dist = i, d
		}
	}
	return best
}
