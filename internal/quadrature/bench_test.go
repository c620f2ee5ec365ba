package quadrature

import (
	"math"
	"testing"
)

func benchRule(b *testing.B, r Rule) {
	x, y := sample(1000, 1, 10, math.Exp)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Integrate(x, y)
	}
}

func BenchmarkRiemann(b *testing.B) {
	benchRule(b, Riemann{})
}

func BenchmarkTrapezoid(b *testing.B) {
	benchRule(b, Trapezoid{})
}

func BenchmarkSimpson(b *testing.B) {
	benchRule(b, Simpson{})
}
