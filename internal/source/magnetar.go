package source

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/physics"
	"github.com/san-kum/nuflux/internal/species"
)

const (
	// ElementaryCharge in esu.
	ElementaryCharge = 4.80320471e-10
	// ErgToGeV converts erg to GeV.
	ErgToGeV = 624.150907
	// SolarMass in kg.
	SolarMass = 1.9884e30
	// ProtonMassKg is the proton mass in kg.
	ProtonMassKg = 1.672621926e-27
)

type Magnetosphere string

const (
	ForceFree Magnetosphere = "force free"
	Vacuum    Magnetosphere = "vacuum"
)

func ParseMagnetosphere(tag string) (Magnetosphere, error) {
	switch m := Magnetosphere(strings.ToLower(strings.TrimSpace(tag))); m {
	case ForceFree, Vacuum:
		return m, nil
	default:
		return "", &flux.DomainError{
			Kind:    "magnetosphere model",
			Tag:     tag,
			Allowed: []string{string(ForceFree), string(Vacuum)},
			Wrapped: flux.ErrUnknownModel,
		}
	}
}

// MagnetarConfig in cgs units.
type MagnetarConfig struct {
	Radius        float64 `yaml:"radius"`
	Field         float64 `yaml:"field"`
	Omega         float64 `yaml:"omega"`
	Chi           float64 `yaml:"chi"`
	Inertia       float64 `yaml:"inertia"`
	Magnetosphere string  `yaml:"magnetosphere"`
}

func DefaultMagnetarConfig() MagnetarConfig {
	return MagnetarConfig{
		Radius:        1e6,
		Field:         1e15,
		Omega:         1e4,
		Chi:           0.95,
		Inertia:       1e45,
		Magnetosphere: string(ForceFree),
	}
}

// Magnetar is a rotating neutron star losing energy to magnetic dipole
// spin-down.
type Magnetar struct {
	cfg   MagnetarConfig
	model Magnetosphere
	mu    float64
	k     float64
	tsd   float64
	lum   float64
}

func NewMagnetar(cfg MagnetarConfig) (*Magnetar, error) {
	model, err := ParseMagnetosphere(cfg.Magnetosphere)
	if err != nil {
		return nil, err
	}
	for _, q := range []struct {
		name string
		v    float64
	}{{"radius", cfg.Radius}, {"field", cfg.Field}, {"omega", cfg.Omega}, {"inertia", cfg.Inertia}} {
		if !(q.v > 0) {
			return nil, fmt.Errorf("%w: magnetar %s must be positive, got %g", flux.ErrParameterBounds, q.name, q.v)
		}
	}

	c := physics.SpeedOfLight
	mu := cfg.Field * cfg.Radius * cfg.Radius * cfg.Radius / 2
	sin := math.Sin(cfg.Chi)

	var k float64
	switch model {
	case ForceFree:
		k = mu * mu * (1 + sin*sin) / (c * c * c)
	case Vacuum:
		k = 2 * mu * mu * sin * sin / (3 * c * c * c)
	}
	if !(k > 0) {
		return nil, fmt.Errorf("%w: magnetar has no spin-down torque (chi = %g)", flux.ErrParameterBounds, cfg.Chi)
	}

	o2 := cfg.Omega * cfg.Omega
	return &Magnetar{
		cfg:   cfg,
		model: model,
		mu:    mu,
		k:     k,
		tsd:   cfg.Inertia / (2 * k * o2),
		lum:   k * o2 * o2,
	}, nil
}

func (m *Magnetar) Name() string { return "magnetar" }

func (m *Magnetar) Config() MagnetarConfig { return m.cfg }

func (m *Magnetar) Model() Magnetosphere { return m.model }

// MagneticMoment in erg/G.
func (m *Magnetar) MagneticMoment() float64 { return m.mu }

// SpinDownTime in s.
func (m *Magnetar) SpinDownTime() float64 { return m.tsd }

// Luminosity is the initial spin-down luminosity in erg/s.
func (m *Magnetar) Luminosity() float64 { return m.lum }

func (m *Magnetar) SpinDownLuminosity(t float64) float64 {
	d := 1 + t/m.tsd
	return m.lum / (d * d)
}

// ProtonEnergy is the energy in GeV of protons accelerated by a fraction f
// of the polar cap potential drop at time t.
func (m *Magnetar) ProtonEnergy(t, f float64) float64 {
	c := physics.SpeedOfLight
	r3 := m.cfg.Radius * m.cfg.Radius * m.cfg.Radius
	return f * ElementaryCharge * m.cfg.Field * r3 * m.cfg.Omega * m.cfg.Omega / (2 * c * c * (1 + t/m.tsd)) * ErgToGeV
}

// ProtonPrefactor is the proton injection rate in 1/s (Goldreich-Julian).
func (m *Magnetar) ProtonPrefactor(t float64) float64 {
	r3 := m.cfg.Radius * m.cfg.Radius * m.cfg.Radius
	return m.cfg.Field * r3 * m.cfg.Omega * m.cfg.Omega / (physics.SpeedOfLight * ElementaryCharge * (1 + t/m.tsd))
}

// EjectaRadius in cm for ejecta expanding at b times c.
func (m *Magnetar) EjectaRadius(t, b float64) float64 {
	return b * physics.SpeedOfLight * t
}

// NumberDensity of ejecta protons in 1/cm^3 for ejecta mass M in solar masses.
func (m *Magnetar) NumberDensity(t, b, M float64) float64 {
	r := m.EjectaRadius(t, b)
	return 3 * M * SolarMass / (4 * math.Pi * r * r * r * ProtonMassKg)
}

func (m *Magnetar) MaxEnergy(t float64, p Params) float64 {
	return m.ProtonEnergy(t, p.Efficiency)
}

// CoolingFactor is the probability a hadron of energy E interacts with the
// ejecta before decaying.
func (m *Magnetar) CoolingFactor(t, E float64, h species.Species, p Params) (float64, error) {
	d := 0.0
	if p.FiniteEjecta {
		d = m.EjectaRadius(t, p.Velocity)
	}
	return physics.CoolingFactor(E, m.NumberDensity(t, p.Velocity, p.EjectaMass), h, d)
}

// OpticalDepth of the ejecta for the injected protons.
func (m *Magnetar) OpticalDepth(t float64, p Params) float64 {
	return physics.OpticalDepth(
		m.ProtonEnergy(t, p.Efficiency),
		m.NumberDensity(t, p.Velocity, p.EjectaMass),
		m.EjectaRadius(t, p.Velocity),
	)
}

// CollisionFactor is the combined attenuation of the ejecta.
func (m *Magnetar) CollisionFactor(t, E float64, h species.Species, p Params) (float64, error) {
	cf, err := m.CoolingFactor(t, E, h, p)
	if err != nil {
		return 0, err
	}
	if p.OpticalDepth {
		cf *= m.OpticalDepth(t, p)
	}
	return cf, nil
}

// HadronSpectrum is dN/(dE dt) in 1/(GeV s) of hadrons of energy E produced
// by the monoenergetic proton beam at time t.
func (m *Magnetar) HadronSpectrum(t, E float64, h species.Species, p Params) (flux.Value, error) {
	Ep := m.ProtonEnergy(t, p.Efficiency)
	prod, err := p.Production.Spectrum(E/Ep, Ep, h)
	if err != nil || prod.IsOutside() {
		return prod, err
	}
	cf, err := m.CollisionFactor(t, E, h, p)
	if err != nil {
		return flux.Value{}, err
	}
	return prod.Scale(m.ProtonPrefactor(t) * cf), nil
}

func (m *Magnetar) Header() []string {
	p := DefaultParams()
	return []string{
		"Magnetar:",
		fmt.Sprintf("    R = %.3g cm", m.cfg.Radius),
		fmt.Sprintf("    B = %.3g G", m.cfg.Field),
		fmt.Sprintf("    o = %.3g rad / s", m.cfg.Omega),
		fmt.Sprintf("    chi = %.3g rad", m.cfg.Chi),
		fmt.Sprintf("    I = %.3g g * cm**2", m.cfg.Inertia),
		fmt.Sprintf("    model = %s", m.model),
		fmt.Sprintf("    mu = %.3g erg / G", m.mu),
		fmt.Sprintf("    tsd = %.3g s", m.tsd),
		fmt.Sprintf("    lum = %.3g erg / s", m.lum),
		fmt.Sprintf("    E = %.3g GeV", m.ProtonEnergy(0, p.Efficiency)),
		fmt.Sprintf("    spec = %.3g", m.ProtonPrefactor(0)),
		fmt.Sprintf("    n = %.3g 1 / cm**3", m.NumberDensity(m.tsd, p.Velocity, p.EjectaMass)),
	}
}
