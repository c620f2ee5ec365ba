package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/san-kum/nuflux/internal/config"
	"github.com/san-kum/nuflux/internal/experiment"
	"github.com/san-kum/nuflux/internal/export"
	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/pipeline"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Config is decoded over the
// preset, so it only needs the keys that differ.
type ScenarioStep struct {
	Name   string    `yaml:"name"`
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
	Until  string    `yaml:"until"`
	// SaveAs renders the spectra of the last stage to this path (.png or .svg).
	SaveAs string `yaml:"save_as"`
}

// StepResult records the outcome of a scenario step.
type StepResult struct {
	Step   string
	RunID  string
	Result *experiment.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Resolve builds the configuration of a step.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	preset := s.Preset
	if preset == "" {
		preset = "default"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, &flux.DomainError{Kind: "preset", Tag: preset, Allowed: config.ListPresets(), Wrapped: flux.ErrUnknownModel}
	}
	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decoding overrides: %w", err)
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order, stopping at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, logger *zap.Logger, opts ...experiment.Option) ([]StepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		label := step.Name
		if label == "" {
			label = fmt.Sprintf("step %d", i+1)
		}
		logger.Info("running scenario step",
			zap.String("scenario", scenario.Name),
			zap.String("step", label),
			zap.Int("index", i+1),
			zap.Int("total", len(scenario.Steps)))

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("%s: %w", label, err)
		}
		exp, err := experiment.New(cfg, append(opts, experiment.WithLogger(logger))...)
		if err != nil {
			return results, fmt.Errorf("%s setup: %w", label, err)
		}
		until := step.Until
		if until == "" {
			until = pipeline.StageIntegrate
		}
		res, err := exp.Run(ctx, until)
		if err != nil {
			return results, fmt.Errorf("%s run: %w", label, err)
		}

		out := StepResult{Step: label, Result: res}
		if res.Meta != nil {
			out.RunID = res.Meta.ID
		}
		if step.SaveAs != "" {
			if err := render(step.SaveAs, fmt.Sprintf("%s: %s", scenario.Name, label), res.Last()); err != nil {
				return results, fmt.Errorf("%s render: %w", label, err)
			}
		}
		results = append(results, out)
	}

	return results, nil
}

// render draws the spectra of a stage. Tables contribute their last time
// column.
func render(path, title string, stage *pipeline.Stage) error {
	format, err := export.ParseFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return err
	}
	series := make([]export.Series, 0, len(stage.Results))
	for _, r := range stage.Results {
		s := r.Spectrum
		if s == nil && r.Table != nil {
			s = r.Table.Spectrum(r.Table.Cols.Len() - 1)
		}
		if s != nil {
			series = append(series, export.Series{Name: r.Species.Label(), Spectrum: s})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.RenderSpectra(f, format, title, series)
}

// Setters for the parameters a sweep can vary.
var sweepParams = map[string]func(*config.Config, float64){
	"field":       func(c *config.Config, v float64) { c.Magnetar.Field = v },
	"omega":       func(c *config.Config, v float64) { c.Magnetar.Omega = v },
	"radius":      func(c *config.Config, v float64) { c.Magnetar.Radius = v },
	"efficiency":  func(c *config.Config, v float64) { c.Params.Efficiency = v },
	"velocity":    func(c *config.Config, v float64) { c.Params.Velocity = v },
	"ejecta_mass": func(c *config.Config, v float64) { c.Params.EjectaMass = v },
	"density":     func(c *config.Config, v float64) { c.Nucleus.Density = v },
	"index":       func(c *config.Config, v float64) { c.Nucleus.Index = v },
}

// SweepParams lists the parameters a sweep can vary.
func SweepParams() []string {
	names := make([]string, 0, len(sweepParams))
	for name := range sweepParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParameterSweep runs a preset across a range of one parameter value
type ParameterSweep struct {
	Preset   string
	Param    string
	Min      float64
	Max      float64
	NumSteps int
	// Log spaces the values logarithmically.
	Log bool
}

// SweepResult holds the final stage metrics at one parameter value
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]map[string]float64
}

// Values returns the parameter values visited by the sweep.
func (s *ParameterSweep) Values() ([]float64, error) {
	if s.NumSteps < 2 {
		return []float64{s.Min}, nil
	}
	var (
		g   flux.Grid
		err error
	)
	if s.Log {
		g, err = flux.LogGrid(s.Min, s.Max, s.NumSteps)
	} else {
		g, err = flux.LinearGrid(s.Min, s.Max, s.NumSteps)
	}
	if err != nil {
		return nil, err
	}
	return g.Points(), nil
}

// RunSweep executes a parameter sweep without persisting runs.
func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *zap.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	set, ok := sweepParams[sweep.Param]
	if !ok {
		return nil, &flux.DomainError{Kind: "sweep parameter", Tag: sweep.Param, Allowed: SweepParams(), Wrapped: flux.ErrUnknownModel}
	}
	values, err := sweep.Values()
	if err != nil {
		return nil, err
	}
	base := config.GetPreset(sweep.Preset)
	if base == nil {
		return nil, &flux.DomainError{Kind: "preset", Tag: sweep.Preset, Allowed: config.ListPresets(), Wrapped: flux.ErrUnknownModel}
	}

	// validate every point before the first run
	exps := make([]*experiment.Experiment, len(values))
	for i, v := range values {
		cfg := base.Clone()
		set(cfg, v)
		if exps[i], err = experiment.New(cfg, experiment.WithLogger(logger)); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}
	}

	results := make([]SweepResult, 0, len(values))
	for i, v := range values {
		res, err := exps[i].Run(ctx, pipeline.StageIntegrate)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}

		out := SweepResult{ParamValue: v, Metrics: make(map[string]map[string]float64)}
		for _, r := range res.Last().Results {
			out.Metrics[r.Species.Tag()] = r.Metrics
		}
		results = append(results, out)

		logger.Info("sweep point",
			zap.Int("index", i+1),
			zap.Int("total", len(values)),
			zap.String("param", sweep.Param),
			zap.Float64("value", v))
	}

	return results, nil
}
