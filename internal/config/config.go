package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/pipeline"
	"github.com/san-kum/nuflux/internal/source"
	"github.com/san-kum/nuflux/internal/species"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSource = "magnetar"
	// ThesisField is the magnetar field of the thesis scenarios, in G.
	ThesisField = 3.1622776601683795e14
)

type Config struct {
	Source   string                `yaml:"source"`
	Species  []string              `yaml:"species"`
	Grids    GridConfig            `yaml:"grids"`
	Windows  []pipeline.Window     `yaml:"windows"`
	Params   source.Params         `yaml:"params"`
	Magnetar source.MagnetarConfig `yaml:"magnetar"`
	Nucleus  source.NucleusConfig  `yaml:"nucleus"`
	Workers  int                   `yaml:"workers"`
}

type GridConfig struct {
	Energy   pipeline.GridSpec `yaml:"energy"`
	Time     pipeline.GridSpec `yaml:"time"`
	Neutrino pipeline.GridSpec `yaml:"neutrino"`
	Proton   pipeline.GridSpec `yaml:"proton"`
}

func DefaultConfig() *Config {
	p := pipeline.DefaultConfig()
	s := source.DefaultConfig()
	cfg := &Config{
		Source: DefaultSource,
		Grids: GridConfig{
			Energy:   p.Energy,
			Time:     p.Time,
			Neutrino: p.Neutrino,
			Proton:   p.Proton,
		},
		Windows:  p.Windows,
		Params:   p.Params,
		Magnetar: s.Magnetar,
		Nucleus:  s.Nucleus,
	}
	for _, h := range p.Species {
		cfg.Species = append(cfg.Species, h.Tag())
	}
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (*Config, error) {
	return Overlay(DefaultConfig(), data)
}

// Overlay decodes YAML over a copy of base; keys missing from data keep
// the values of base.
func Overlay(base *Config, data []byte) (*Config, error) {
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Species = append([]string(nil), c.Species...)
	out.Windows = append([]pipeline.Window(nil), c.Windows...)
	return &out
}

// Validate checks everything that can be checked without running a stage.
func (c *Config) Validate() error {
	p, err := c.Pipeline()
	if err != nil {
		return err
	}
	if _, err := source.NewRegistry().Get(c.Source, c.Sources()); err != nil {
		return err
	}
	for _, w := range c.Windows {
		if !(w.From > 0) || math.IsInf(w.To, 0) {
			return fmt.Errorf("%w: time window %s", flux.ErrParameterBounds, w)
		}
	}
	return p.Validate()
}

// Pipeline converts c into the configuration of a pipeline run.
func (c *Config) Pipeline() (pipeline.Config, error) {
	list, err := species.ParseList(species.Hadrons, c.Species)
	if err != nil {
		return pipeline.Config{}, err
	}
	return pipeline.Config{
		Species:  list,
		Energy:   c.Grids.Energy,
		Time:     c.Grids.Time,
		Neutrino: c.Grids.Neutrino,
		Proton:   c.Grids.Proton,
		Windows:  c.Windows,
		Params:   c.Params,
		Workers:  c.Workers,
	}, nil
}

func (c *Config) Sources() source.Config {
	return source.Config{Magnetar: c.Magnetar, Nucleus: c.Nucleus}
}
