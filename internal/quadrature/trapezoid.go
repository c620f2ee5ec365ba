package quadrature

import "gonum.org/v1/gonum/integrate"

type Trapezoid struct{}

func (Trapezoid) Name() string { return "trapezoid" }

func (Trapezoid) Integrate(x, y []float64) float64 {
	checkSamples(x, y)
	if len(x) < 2 {
		return 0
	}
	return integrate.Trapezoidal(x, y)
}

// Simpson falls back to the trapezoid rule below three samples.
type Simpson struct{}

func (Simpson) Name() string { return "simpson" }

func (Simpson) Integrate(x, y []float64) float64 {
	checkSamples(x, y)
	if len(x) < 3 {
		return Trapezoid{}.Integrate(x, y)
	}
	return integrate.Simpsons(x, y)
}
