package flux

import (
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"testing"
)

func TestValueOrZero(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want float64
	}{
		{"valid", Valid(2.5), 2.5},
		{"warned keeps value", Warned(1.5, "energy outside fit"), 1.5},
		{"outside", Outside("below threshold"), 0},
		{"nan", Valid(math.NaN()), 0},
		{"inf", Valid(math.Inf(1)), 0},
		{"scaled", Valid(2).Scale(3), 6},
		{"scaled outside", Outside("x").Scale(3), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.OrZero(); got != tt.want {
				t.Errorf("OrZero() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewGrid_Rejects(t *testing.T) {
	bad := [][]float64{
		nil,
		{1, 1},
		{2, 1},
		{0, 1},
		{-1, 2},
		{1, math.Inf(1)},
	}
	for _, pts := range bad {
		if _, err := NewGrid(pts); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("NewGrid(%v) error = %v, want ErrInvalidGrid", pts, err)
		}
	}
}

func TestLogGrid(t *testing.T) {
	g, err := LogGrid(1e5, 1e12, 8)
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 8 {
		t.Fatalf("expected 8 points, got %d", g.Len())
	}
	for i := 0; i < g.Len(); i++ {
		want := math.Pow(10, 5+float64(i))
		if math.Abs(g.At(i)-want)/want > 1e-12 {
			t.Errorf("point %d = %g, want %g", i, g.At(i), want)
		}
	}
}

func TestGridDiffs_LeadingZero(t *testing.T) {
	g, _ := NewGrid([]float64{1, 2, 4, 8})
	d := g.Diffs()
	want := []float64{0, 1, 2, 4}
	for i := range want {
		if d[i] != want[i] {
			t.Errorf("diff %d = %v, want %v", i, d[i], want[i])
		}
	}
}

func TestGridWindow_Strict(t *testing.T) {
	g, _ := NewGrid([]float64{1e2, 1e3, 5e3, 1e4, 2e4})
	from, to := g.Window(1e3, 1e4)
	if from != 2 || to != 3 {
		t.Errorf("Window = [%d, %d), want [2, 3)", from, to)
	}
	from, to = g.Window(1e5, 1e6)
	if from != to {
		t.Errorf("expected empty window, got [%d, %d)", from, to)
	}
}

func TestGridNearest(t *testing.T) {
	g, _ := NewGrid([]float64{1, 10, 100})
	if i := g.Nearest(40); i != 1 {
		t.Errorf("Nearest(40) = %d, want 1", i)
	}
	if i := g.Nearest(1e6); i != 2 {
		t.Errorf("Nearest(1e6) = %d, want 2", i)
	}
}

func TestWrapTable_Dimensions(t *testing.T) {
	rows, _ := LogGrid(1, 10, 3)
	cols, _ := LogGrid(1, 10, 4)
	tbl := NewTable(rows, cols)
	if _, err := WrapTable(cols, rows, tbl.Data); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestDomainError(t *testing.T) {
	err := &DomainError{Kind: "species", Tag: "eta", Allowed: []string{"pi", "k"}, Wrapped: ErrUnknownSpecies}
	if !errors.Is(err, ErrUnknownSpecies) {
		t.Error("expected DomainError to unwrap to ErrUnknownSpecies")
	}
	msg := err.Error()
	for _, part := range []string{"`eta`", "`pi`", "`k`"} {
		if !strings.Contains(msg, part) {
			t.Errorf("message %q missing %s", msg, part)
		}
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		var hits int64
		seen := make([]int32, n)
		ParallelFor(n, 8, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
				atomic.AddInt64(&hits, 1)
			}
		})
		if int(hits) != n {
			t.Errorf("n=%d: visited %d cells", n, hits)
		}
		for i, c := range seen {
			if c != 1 {
				t.Errorf("n=%d: cell %d visited %d times", n, i, c)
			}
		}
	}
}

func TestTableSpectrum(t *testing.T) {
	rows, _ := LogGrid(1, 100, 3)
	cols, _ := LogGrid(1, 10, 2)
	tbl := NewTable(rows, cols)
	tbl.Data.Set(2, 1, 7)
	s := tbl.Spectrum(1)
	if s.Values[2] != 7 || s.Energy.Len() != 3 {
		t.Errorf("unexpected spectrum %+v", s.Values)
	}
	if _, err := NewSpectrum(rows, []float64{1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
