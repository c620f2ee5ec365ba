// Package export renders spectra to images and JSON.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case PNG, SVG:
		return Format(s), nil
	}
	return "", &flux.DomainError{Kind: "image format", Tag: s, Allowed: []string{string(PNG), string(SVG)}, Wrapped: flux.ErrUnknownModel}
}

// Series is one labelled curve of a plot.
type Series struct {
	Name     string
	Spectrum *flux.Spectrum
}

var palette = []drawing.Color{
	{R: 51, G: 102, B: 204, A: 255},
	{R: 220, G: 57, B: 18, A: 255},
	{R: 255, G: 153, B: 0, A: 255},
	{R: 16, G: 150, B: 24, A: 255},
	{R: 153, G: 0, B: 153, A: 255},
	{R: 0, G: 153, B: 198, A: 255},
	{R: 102, G: 102, B: 102, A: 255},
}

// LogPoints returns log10(E) and log10(E^2 S) for the positive samples of s.
func LogPoints(s *flux.Spectrum) (x, y []float64) {
	for i, v := range s.Values {
		E := s.Energy.At(i)
		f := E * E * v
		if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		x = append(x, math.Log10(E))
		y = append(y, math.Log10(f))
	}
	return x, y
}

// RenderSpectra draws E^2 times each spectrum on log10 axes.
func RenderSpectra(w io.Writer, format Format, title string, series []Series) error {
	var curves []chart.Series
	for i, s := range series {
		x, y := LogPoints(s.Spectrum)
		if len(x) < 2 {
			continue
		}
		curves = append(curves, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: x,
			YValues: y,
			Style: chart.Style{
				StrokeColor: palette[i%len(palette)],
				StrokeWidth: 2,
			},
		})
	}
	if len(curves) == 0 {
		return fmt.Errorf("export: nothing to draw, every spectrum is zero")
	}

	graph := chart.Chart{
		Title: title,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Width:  900,
		Height: 500,
		XAxis: chart.XAxis{
			Name:      "log10(E / GeV)",
			NameStyle: chart.Style{FontSize: 11},
			Style:     chart.Style{FontSize: 9},
		},
		YAxis: chart.YAxis{
			Name:      "log10(E^2 dN/dE / GeV/s)",
			NameStyle: chart.Style{FontSize: 11},
			Style:     chart.Style{FontSize: 9},
		},
		Series: curves,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	if format == SVG {
		return graph.Render(chart.SVG, w)
	}
	return graph.Render(chart.PNG, w)
}
