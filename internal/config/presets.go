package config

import "sort"

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"thesis-without": func() *Config {
		cfg := DefaultConfig()
		cfg.Magnetar.Field = ThesisField
		cfg.Params.OpticalDepth = false
		return cfg
	},
	"thesis-with": func() *Config {
		cfg := DefaultConfig()
		cfg.Magnetar.Field = ThesisField
		cfg.Params.OpticalDepth = true
		return cfg
	},
	"finite-ejecta": func() *Config {
		cfg := DefaultConfig()
		cfg.Params.FiniteEjecta = true
		return cfg
	},
	"nucleus": func() *Config {
		cfg := DefaultConfig()
		cfg.Source = "nucleus"
		cfg.Grids.Proton.N = 200
		cfg.Grids.Energy.N = 1000
		cfg.Grids.Neutrino.N = 1000
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
