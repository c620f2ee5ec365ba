package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/quadrature"
)

func TestSpectralIndex(t *testing.T) {
	tests := []struct {
		name  string
		gamma float64
	}{
		{"flat", 0},
		{"e minus two", -2},
		{"hard", -1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			E := []float64{1e5, 1e6, 1e7, 1e8}
			S := make([]float64, len(E))
			for i, e := range E {
				S[i] = 3 * math.Pow(e, tt.gamma)
			}
			got, err := SpectralIndex(E, S)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.gamma) > 1e-9 {
				t.Errorf("SpectralIndex = %v, want %v", got, tt.gamma)
			}
		})
	}
}

func TestSpectralIndex_SkipsZeros(t *testing.T) {
	_, err := SpectralIndex([]float64{1, 2, 3}, []float64{0, 0, 5})
	if !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("expected ErrTooFewPoints, got %v", err)
	}
}

func TestPeak(t *testing.T) {
	E := []float64{1, 10, 100}
	S := []float64{1, 0.1, 1e-5}
	e, v := Peak(E, S)
	if e != 10 || math.Abs(v-10) > 1e-12 {
		t.Errorf("Peak = (%v, %v), want (10, 10)", e, v)
	}
}

func TestTimeIntegratedAndLightCurve(t *testing.T) {
	rows, _ := flux.NewGrid([]float64{1, 10})
	cols, _ := flux.NewGrid([]float64{1, 2, 3})
	tbl := flux.NewTable(rows, cols)
	for j := 0; j < 3; j++ {
		tbl.Data.Set(0, j, 1)
		tbl.Data.Set(1, j, 2)
	}

	s := TimeIntegrated(tbl, quadrature.Trapezoid{})
	if s.Values[0] != 2 || s.Values[1] != 4 {
		t.Errorf("TimeIntegrated = %v, want [2 4]", s.Values)
	}

	lc, e := LightCurve(tbl, 8)
	if e != 10 || lc[0] != 2 {
		t.Errorf("LightCurve picked energy %v with %v", e, lc)
	}
}
