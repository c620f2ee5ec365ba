// Package storage persists tabulated spectra and indexes runs.
package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/pipeline"
	"github.com/san-kum/nuflux/internal/species"
	"gonum.org/v1/gonum/mat"
)

const (
	metadataFile = "metadata.json"
	axesFile     = "axes.txt"
	timeLabel    = "Time / s (horizontal axis)"
	energyLabel  = "Energy / GeV (vertical axis)"
	stampLayout  = "2006/01/02 15:04:05"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) BaseDir() string { return s.baseDir }

type StageInfo struct {
	Name    string                        `json:"name"`
	Species []string                      `json:"species"`
	Elapsed float64                       `json:"elapsed_s"`
	Metrics map[string]map[string]float64 `json:"metrics,omitempty"`
	Outside map[string]int                `json:"outside,omitempty"`
}

type RunMetadata struct {
	ID        string      `json:"id"`
	Model     string      `json:"model"`
	Timestamp time.Time   `json:"timestamp"`
	Header    []string    `json:"header"`
	Stages    []StageInfo `json:"stages"`
}

// NewRun creates the directory of a fresh run.
func (s *Store) NewRun(model string, header []string) (*RunMetadata, error) {
	meta := &RunMetadata{
		ID:        fmt.Sprintf("%s_%s", model, uuid.NewString()[:8]),
		Model:     model,
		Timestamp: s.now(),
		Header:    header,
	}
	if err := os.MkdirAll(filepath.Join(s.baseDir, meta.ID), 0755); err != nil {
		return nil, err
	}
	return meta, s.SaveMetadata(meta)
}

func (s *Store) SaveMetadata(meta *RunMetadata) error {
	f, err := os.Create(filepath.Join(s.baseDir, meta.ID, metadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// List returns every run under the base directory, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

// RunDir is the directory holding every file of a run.
func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// Remove deletes every file of a run.
func (s *Store) Remove(runID string) error {
	if _, err := os.Stat(filepath.Join(s.RunDir(runID), metadataFile)); err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}
	return os.RemoveAll(s.RunDir(runID))
}

// HasStage reports whether a stage of the run has been written.
func (s *Store) HasStage(runID, stage string) bool {
	info, err := os.Stat(s.stageDir(runID, stage))
	return err == nil && info.IsDir()
}

func (s *Store) stageDir(runID, stage string) string {
	return filepath.Join(s.baseDir, runID, stage)
}

func (s *Store) speciesPath(runID, stage string, h species.Species) string {
	return filepath.Join(s.stageDir(runID, stage), h.File()+".txt")
}

func (s *Store) title(h species.Species, what, unit string) string {
	return fmt.Sprintf("`%s` %s / %s - %s", h.Label(), what, unit, s.now().Format(stampLayout))
}

// SaveStage writes every result of a stage and records it in the metadata.
func (s *Store) SaveStage(meta *RunMetadata, stage *pipeline.Stage) error {
	dir := s.stageDir(meta.ID, stage.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	info := StageInfo{
		Name:    stage.Name,
		Elapsed: stage.Elapsed.Seconds(),
		Metrics: make(map[string]map[string]float64),
		Outside: make(map[string]int),
	}
	axesWritten := false
	for _, res := range stage.Results {
		var err error
		switch {
		case res.Table != nil:
			if !axesWritten {
				if err := s.writeAxes(dir, meta.Header, res.Table); err != nil {
					return err
				}
				axesWritten = true
			}
			err = s.writeTable(meta, stage.Name, res)
		case res.Spectrum != nil:
			err = s.writeSpectrum(meta, stage.Name, res)
		default:
			err = fmt.Errorf("storage: %s result for %s is empty", stage.Name, res.Species)
		}
		if err != nil {
			return err
		}
		info.Species = append(info.Species, res.Species.Tag())
		info.Metrics[res.Species.Tag()] = finite(res.Metrics)
		info.Outside[res.Species.Tag()] = res.Report.Outside
	}

	replaced := false
	for i := range meta.Stages {
		if meta.Stages[i].Name == info.Name {
			meta.Stages[i] = info
			replaced = true
		}
	}
	if !replaced {
		meta.Stages = append(meta.Stages, info)
	}
	return s.SaveMetadata(meta)
}

func (s *Store) writeAxes(dir string, header []string, t *flux.Table) error {
	f, err := os.Create(filepath.Join(dir, axesFile))
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteAxes(f, header, []string{timeLabel, energyLabel}, [][]float64{t.Cols.Points(), t.Rows.Points()})
}

func (s *Store) writeTable(meta *RunMetadata, stage string, res pipeline.SpeciesResult) error {
	what := "Hadron Spectrum"
	if stage != pipeline.StageHadrons {
		what = "Neutrino Spectrum"
	}
	header := append([]string{s.title(res.Species, what, "1/(GeVs)")}, meta.Header...)
	header = append(header, timeLabel, energyLabel)

	f, err := os.Create(s.speciesPath(meta.ID, stage, res.Species))
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteTable(f, header, res.Table.Data)
}

func (s *Store) writeSpectrum(meta *RunMetadata, stage string, res pipeline.SpeciesResult) error {
	header := append([]string{s.title(res.Species, "Neutrino Spectrum", "1/(GeVs)")}, meta.Header...)
	header = append(header, "Energy / GeV   Spectrum / 1/(GeVs)")

	n := len(res.Spectrum.Values)
	m := mat.NewDense(n, 2, nil)
	m.SetCol(0, res.Spectrum.Energy.Points())
	m.SetCol(1, res.Spectrum.Values)

	f, err := os.Create(s.speciesPath(meta.ID, stage, res.Species))
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteTable(f, header, m)
}

// SaveFluence writes the windowed fluence of each species next to the
// integrate stage. The first column holds the energy.
func (s *Store) SaveFluence(meta *RunMetadata, fluences map[species.Species]*pipeline.Fluence) error {
	dir := s.stageDir(meta.ID, pipeline.StageIntegrate)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for h, fl := range fluences {
		labels := "Energy / GeV"
		for _, w := range fl.Windows {
			labels += fmt.Sprintf("   Spectrum %s / 1/GeV", w)
		}
		header := append([]string{s.title(h, "Integrated Spectrum", "1/GeV")}, meta.Header...)
		header = append(header, labels)

		r, c := fl.Data.Dims()
		m := mat.NewDense(r, c+1, nil)
		m.SetCol(0, fl.Energy.Points())
		m.Slice(0, r, 1, c+1).(*mat.Dense).Copy(fl.Data)

		f, err := os.Create(s.FluencePath(meta.ID, h))
		if err != nil {
			return err
		}
		err = WriteTable(f, header, m)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// FluencePath is the file holding every window of h.
func (s *Store) FluencePath(runID string, h species.Species) string {
	return filepath.Join(s.stageDir(runID, pipeline.StageIntegrate), h.File()+"_windows.txt")
}

// LoadTable reads an energy x time table of a stage.
func (s *Store) LoadTable(runID, stage string, h species.Species) (*flux.Table, error) {
	af, err := os.Open(filepath.Join(s.stageDir(runID, stage), axesFile))
	if err != nil {
		return nil, err
	}
	defer af.Close()
	axes, _, err := ReadRows(af)
	if err != nil {
		return nil, err
	}
	if len(axes) != 2 {
		return nil, fmt.Errorf("storage: axes file has %d rows, want 2", len(axes))
	}
	times, err := flux.NewGrid(axes[0])
	if err != nil {
		return nil, fmt.Errorf("time axis: %w", err)
	}
	energies, err := flux.NewGrid(axes[1])
	if err != nil {
		return nil, fmt.Errorf("energy axis: %w", err)
	}

	m, err := s.LoadColumns(runID, stage, h)
	if err != nil {
		return nil, err
	}
	return flux.WrapTable(energies, times, m)
}

// LoadColumns reads a species file of a stage as a plain matrix.
func (s *Store) LoadColumns(runID, stage string, h species.Species) (*mat.Dense, error) {
	f, err := os.Open(s.speciesPath(runID, stage, h))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, _, err := ReadTable(f)
	return m, err
}

// LoadSpectrum reads a two-column energy/spectrum file.
func (s *Store) LoadSpectrum(runID, stage string, h species.Species, col int) (*flux.Spectrum, error) {
	m, err := s.LoadColumns(runID, stage, h)
	if err != nil {
		return nil, err
	}
	_, c := m.Dims()
	if col < 1 || col >= c {
		return nil, fmt.Errorf("%w: column %d of %d", flux.ErrDimensionMismatch, col, c)
	}
	E, err := flux.NewGrid(mat.Col(nil, 0, m))
	if err != nil {
		return nil, err
	}
	return flux.NewSpectrum(E, mat.Col(nil, col, m))
}

// finite drops values JSON cannot encode.
func finite(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}
