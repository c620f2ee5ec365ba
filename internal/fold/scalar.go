package fold

import (
	"fmt"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/quadrature"
	"github.com/san-kum/nuflux/internal/vector"
	"gonum.org/v1/gonum/floats"
)

type Spacing int

const (
	Linear Spacing = iota
	Logarithmic
)

func (s Spacing) String() string {
	if s == Logarithmic {
		return "log"
	}
	return "linear"
}

// Integrand evaluates the folded function at one point.
type Integrand func(x float64) (flux.Value, error)

// Result of a scalar fold.
type Result struct {
	Value  float64
	Report vector.Report
}

// Scalar folds an integrand on a grid of Steps points.
type Scalar struct {
	Rule    quadrature.Rule
	Steps   int
	Spacing Spacing
}

// Fold integrates f over [lo, hi]. An empty range (hi <= lo) is a forbidden
// kinematic region and yields exactly zero.
func (s Scalar) Fold(lo, hi float64, f Integrand) (Result, error) {
	if s.Steps < 2 {
		return Result{}, fmt.Errorf("%w: fold needs at least 2 steps, got %d", flux.ErrParameterBounds, s.Steps)
	}
	if !(hi > lo) {
		return Result{}, nil
	}

	x := make([]float64, s.Steps)
	switch s.Spacing {
	case Logarithmic:
		if !(lo > 0) {
			return Result{}, fmt.Errorf("%w: log-spaced fold from %g", flux.ErrParameterBounds, lo)
		}
		floats.LogSpan(x, lo, hi)
	default:
		floats.Span(x, lo, hi)
	}
	return s.FoldPoints(x, f)
}

// FoldPoints integrates f sampled at the given increasing points.
func (s Scalar) FoldPoints(x []float64, f Integrand) (Result, error) {
	rule := s.Rule
	if rule == nil {
		rule = quadrature.Trapezoid{}
	}

	values := make([]flux.Value, len(x))
	for i, xi := range x {
		v, err := f(xi)
		if err != nil {
			return Result{}, err
		}
		values[i] = v
	}

	field := vector.FieldOf(values)
	y := field.Zeroed().Data()
	return Result{Value: rule.Integrate(x, y), Report: field.Report()}, nil
}
