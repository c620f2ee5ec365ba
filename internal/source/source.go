package source

import (
	"sort"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/physics"
	"github.com/san-kum/nuflux/internal/species"
)

// Source is a proton injector embedded in a target medium.
type Source interface {
	Name() string
	// Header describes the source, one line per constant.
	Header() []string
	// MaxEnergy is the highest proton energy injected at time t.
	MaxEnergy(t float64, p Params) float64
	// HadronSpectrum is dN/(dE dt) in 1/(GeV s) of hadron h at energy E.
	HadronSpectrum(t, E float64, h species.Species, p Params) (flux.Value, error)
}

// NeutrinoSpectrum folds the hadron spectrum at time t with the decay
// spectrum of h, giving dN/(dE dt) of neutrinos in 1/(GeV s).
func NeutrinoSpectrum(src Source, t, Enu float64, h species.Species, p Params) (flux.Value, error) {
	lo, err := physics.DecayThreshold(Enu, h)
	if err != nil {
		return flux.Value{}, err
	}
	folder, err := p.folder()
	if err != nil {
		return flux.Value{}, err
	}
	res, err := folder.Fold(lo, src.MaxEnergy(t, p), func(Eh float64) (flux.Value, error) {
		decay, err := physics.HadronDecay(Enu, Eh, h)
		if err != nil || decay.IsOutside() {
			return decay, err
		}
		had, err := src.HadronSpectrum(t, Eh, h, p)
		if err != nil || had.IsOutside() {
			return had, err
		}
		return had.Scale(decay.OrZero()), nil
	})
	if err != nil {
		return flux.Value{}, err
	}
	return resultValue(res), nil
}

// Fluence integrates the neutrino spectrum over (ta, tb), in 1/GeV.
func Fluence(src Source, Enu float64, h species.Species, ta, tb float64, p Params) (flux.Value, error) {
	folder, err := p.folder()
	if err != nil {
		return flux.Value{}, err
	}
	res, err := folder.Fold(ta, tb, func(t float64) (flux.Value, error) {
		return NeutrinoSpectrum(src, t, Enu, h, p)
	})
	if err != nil {
		return flux.Value{}, err
	}
	return resultValue(res), nil
}

// Config gathers the construction parameters of every source.
type Config struct {
	Magnetar MagnetarConfig `yaml:"magnetar"`
	Nucleus  NucleusConfig  `yaml:"nucleus"`
}

func DefaultConfig() Config {
	return Config{Magnetar: DefaultMagnetarConfig(), Nucleus: DefaultNucleusConfig()}
}

type Registry struct {
	sources map[string]func(Config) (Source, error)
}

func NewRegistry() *Registry {
	return &Registry{sources: map[string]func(Config) (Source, error){
		"magnetar": func(c Config) (Source, error) { return NewMagnetar(c.Magnetar) },
		"nucleus":  func(c Config) (Source, error) { return NewNucleus(c.Nucleus) },
	}}
}

func (r *Registry) Get(name string, cfg Config) (Source, error) {
	factory, ok := r.sources[name]
	if !ok {
		return nil, &flux.DomainError{Kind: "source model", Tag: name, Allowed: r.Names(), Wrapped: flux.ErrUnknownModel}
	}
	return factory(cfg)
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
