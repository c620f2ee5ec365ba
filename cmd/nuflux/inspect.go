package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/nuflux/internal/analysis"
	"github.com/san-kum/nuflux/internal/export"
	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/pipeline"
	"github.com/san-kum/nuflux/internal/quadrature"
	"github.com/san-kum/nuflux/internal/species"
	"github.com/san-kum/nuflux/internal/storage"
	"github.com/san-kum/nuflux/internal/viz"
	"github.com/spf13/cobra"
)

var (
	listModel   string
	stageName   string
	stageTags   []string
	timeColumn  int
	curveEnergy float64
	integrated  bool
	outPath     string
)

func addStageFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&stageName, "stage", "", "stage to read (default: the last stored stage)")
	cmd.Flags().StringSliceVar(&stageTags, "species", nil, "species to read (default: every species of the stage)")
	cmd.Flags().IntVar(&timeColumn, "column", -1, "time column of energy x time tables (-1 = last)")
	cmd.Flags().BoolVar(&integrated, "time-integrated", false, "integrate energy x time tables over the whole time grid")
}

func listRuns(cmd *cobra.Command, args []string) error {
	catalog, err := storage.OpenCatalog(dataDir)
	if err != nil {
		return err
	}
	defer catalog.Close()

	runs, err := catalog.List(cmd.Context(), listModel)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	fmt.Println(viz.TitleStyle.Render(fmt.Sprintf("%d runs in %s", len(runs), dataDir)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSTAGES\tSPECIES\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2fs\n",
			run.ID,
			run.Model,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			strings.Join(run.Stages, ","),
			strings.Join(run.Species, ","),
			run.Elapsed,
		)
	}
	return w.Flush()
}

// selection is a stored stage narrowed to the requested species.
type selection struct {
	meta    *storage.RunMetadata
	stage   storage.StageInfo
	species []species.Species
}

func selectStage(st *storage.Store, runID string) (*selection, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}
	if len(meta.Stages) == 0 {
		return nil, fmt.Errorf("run %s has no stored stages", runID)
	}
	sel := &selection{meta: meta, stage: meta.Stages[len(meta.Stages)-1]}
	if stageName != "" {
		found := false
		names := make([]string, len(meta.Stages))
		for i, s := range meta.Stages {
			names[i] = s.Name
			if s.Name == stageName {
				sel.stage, found = s, true
			}
		}
		if !found {
			return nil, &flux.DomainError{Kind: "stage of " + runID, Tag: stageName, Allowed: names, Wrapped: flux.ErrUnknownModel}
		}
	}

	tags := stageTags
	if len(tags) == 0 {
		tags = sel.stage.Species
	}
	sel.species, err = species.ParseList(species.Hadrons, tags)
	return sel, err
}

func isTableStage(name string) bool {
	return name == pipeline.StageHadrons || name == pipeline.StageNeutrinos
}

// spectrum returns the stored spectrum of h, taking the selected time
// column of table stages.
func (s *selection) spectrum(st *storage.Store, h species.Species) (*flux.Spectrum, error) {
	if !isTableStage(s.stage.Name) {
		return st.LoadSpectrum(s.meta.ID, s.stage.Name, h, 1)
	}
	t, err := st.LoadTable(s.meta.ID, s.stage.Name, h)
	if err != nil {
		return nil, err
	}
	if integrated {
		return analysis.TimeIntegrated(t, quadrature.Trapezoid{}), nil
	}
	col := timeColumn
	if col < 0 {
		col = t.Cols.Len() - 1
	}
	if col >= t.Cols.Len() {
		return nil, fmt.Errorf("%w: column %d of %d", flux.ErrDimensionMismatch, col, t.Cols.Len())
	}
	return t.Spectrum(col), nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	sel, err := selectStage(st, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", sel.meta.ID)
	fmt.Printf("model: %s\n", sel.meta.Model)
	fmt.Printf("stage: %s\n\n", sel.stage.Name)

	for _, h := range sel.species {
		var graph string
		if curveEnergy > 0 {
			if !isTableStage(sel.stage.Name) {
				return fmt.Errorf("light curves need an energy x time stage, %s has none", sel.stage.Name)
			}
			t, err := st.LoadTable(sel.meta.ID, sel.stage.Name, h)
			if err != nil {
				return err
			}
			curve, E := analysis.LightCurve(t, curveEnergy)
			graph, err = viz.LightCurvePlot(t.Cols.Points(), curve, fmt.Sprintf("%s at E = %.3g GeV", h.Label(), E))
			if err != nil {
				fmt.Println(viz.WarnStyle.Render(err.Error()))
				continue
			}
		} else {
			s, err := sel.spectrum(st, h)
			if err != nil {
				return err
			}
			graph, err = viz.SpectrumPlot(s, h.Label())
			if err != nil {
				fmt.Println(viz.WarnStyle.Render(err.Error()))
				continue
			}
			if idx, err := analysis.SpectralIndex(s.Energy.Points(), s.Values); err == nil {
				fmt.Printf("%s spectral index: %.3f\n", h.Label(), idx)
			}
		}
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(outPath)), "."))
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	sel, err := selectStage(st, args[0])
	if err != nil {
		return err
	}

	series := make([]export.Series, 0, len(sel.species))
	for _, h := range sel.species {
		s, err := sel.spectrum(st, h)
		if err != nil {
			return err
		}
		series = append(series, export.Series{Name: h.Label(), Spectrum: s})
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.RenderSpectra(f, format, fmt.Sprintf("%s %s", sel.meta.ID, sel.stage.Name), series); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	sel, err := selectStage(st, args[0])
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	for _, h := range sel.species {
		d := &export.TableData{
			RunID:   sel.meta.ID,
			Stage:   sel.stage.Name,
			Species: h.Tag(),
			Metrics: sel.stage.Metrics[h.Tag()],
		}
		if isTableStage(sel.stage.Name) {
			t, err := st.LoadTable(sel.meta.ID, sel.stage.Name, h)
			if err != nil {
				return err
			}
			d.FromTable(t)
		} else {
			s, err := st.LoadSpectrum(sel.meta.ID, sel.stage.Name, h, 1)
			if err != nil {
				return err
			}
			d.FromSpectrum(s)
		}
		if err := export.WriteJSON(w, d); err != nil {
			return err
		}
	}
	return nil
}

func removeRun(cmd *cobra.Command, args []string) error {
	st, catalog, err := openStore()
	if err != nil {
		return err
	}
	defer catalog.Close()

	runID := args[0]
	if err := st.Remove(runID); err != nil {
		return err
	}
	if err := catalog.Delete(cmd.Context(), runID); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", runID)
	return nil
}
