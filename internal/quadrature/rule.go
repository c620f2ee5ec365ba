// Package quadrature implements fixed-grid integration rules over sampled
// integrands.
package quadrature

import (
	"fmt"
	"sort"

	"github.com/san-kum/nuflux/internal/flux"
)

// Rule integrates samples y taken at strictly increasing points x.
type Rule interface {
	Name() string
	Integrate(x, y []float64) float64
}

var rules = map[string]func() Rule{
	"riemann":   func() Rule { return Riemann{} },
	"trapezoid": func() Rule { return Trapezoid{} },
	"simpson":   func() Rule { return Simpson{} },
}

func Lookup(name string) (Rule, error) {
	factory, ok := rules[name]
	if !ok {
		return nil, &flux.DomainError{Kind: "quadrature rule", Tag: name, Allowed: Names(), Wrapped: flux.ErrUnknownModel}
	}
	return factory(), nil
}

func Names() []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkSamples(x, y []float64) {
	if len(x) != len(y) {
		panic(fmt.Sprintf("quadrature: %d points but %d samples", len(x), len(y)))
	}
}
