package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/nuflux/internal/flux"
)

func TestHeaderPairs(t *testing.T) {
	pairs := HeaderPairs([]string{"Magnetar:", "B = 1e+15 G", "model = force free"})
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs, want 3", len(pairs))
	}
	if pairs[0].Key != "Magnetar:" || pairs[0].Value != "" {
		t.Errorf("title pair = %+v", pairs[0])
	}
	if pairs[1].Key != "B" || pairs[1].Value != "1e+15 G" {
		t.Errorf("pair = %+v", pairs[1])
	}
}

func TestKeyValuesContainsEveryPair(t *testing.T) {
	out := KeyValues([]KV{{"tsd", "1e3 s"}, {"lum", "1e45 erg/s"}})
	for _, want := range []string{"tsd", "1e3 s", "lum", "1e45 erg/s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected two lines, got %q", out)
	}
}

func TestSpectrumPlot(t *testing.T) {
	E, _ := flux.LogGrid(1e5, 1e9, 5)
	s, _ := flux.NewSpectrum(E, []float64{1e-10, 1e-12, 0, 1e-16, 1e-18})
	out, err := SpectrumPlot(s, "pi")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "pi: log10") {
		t.Errorf("caption missing from plot")
	}

	zero, _ := flux.NewSpectrum(E, make([]float64, 5))
	if _, err := SpectrumPlot(zero, "zero"); err == nil {
		t.Error("expected error for an all-zero spectrum")
	}
}

func TestLightCurvePlot(t *testing.T) {
	if _, err := LightCurvePlot([]float64{1, 2}, []float64{1}, "bad"); err == nil {
		t.Error("expected length mismatch error")
	}
	out, err := LightCurvePlot([]float64{1e2, 1e3, 1e4}, []float64{1, 10, 5}, "E = 1e6 GeV")
	if err != nil {
		t.Fatal(err)
	}
	if out == "" {
		t.Error("empty plot")
	}
}
