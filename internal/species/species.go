// Package species enumerates the particles nuflux follows through the
// production chain and their physical constants.
package species

import (
	"fmt"
	"strings"

	"github.com/san-kum/nuflux/internal/flux"
)

type Species int

const (
	Pion Species = iota
	Kaon
	D0
	DPlus
	DsPlus
	LambdaC
	Proton
)

// MuonMass in GeV sets the kinematic ratio of two-body meson decays.
const MuonMass = 0.106

// Properties are the constants attached to a species.
type Properties struct {
	Tag   string
	Label string
	// File is the base name of tabulated spectrum files.
	File string
	// Mass in GeV.
	Mass float64
	// Lifetime in seconds (rest frame).
	Lifetime float64
	// Lambda is the squared mass ratio bounding the neutrino energy fraction
	// at 1 - Lambda.
	Lambda float64
	// Branching is the fraction of decays producing a muon neutrino.
	Branching float64
	// Production scales the pion production parametrization.
	Production float64
	// CrossSection is the projectile whose hadron-proton cross section
	// stands in for this species when computing interaction rates.
	CrossSection Species
}

var table = map[Species]Properties{
	Pion: {
		Tag: "pi", Label: "pi", File: "pi",
		Mass: 0.140, Lifetime: 26.03e-9,
		Lambda:    MuonMass * MuonMass / (0.140 * 0.140),
		Branching: 0.9999, Production: 1, CrossSection: Pion,
	},
	Kaon: {
		Tag: "k", Label: "K", File: "K",
		Mass: 0.494, Lifetime: 12.38e-9,
		Lambda:    MuonMass * MuonMass / (0.494 * 0.494),
		Branching: 0.6356, Production: 0.12, CrossSection: Kaon,
	},
	D0: {
		Tag: "d0", Label: "D0", File: "D0",
		Mass: 1.86, Lifetime: 0.410e-12,
		Lambda:    0.67 * 0.67 / (1.86 * 1.86),
		Branching: 1, Production: 1, CrossSection: Kaon,
	},
	DPlus: {
		Tag: "d+", Label: "D+", File: "Dplus",
		Mass: 1.87, Lifetime: 1.033e-12,
		Lambda:    0.63 * 0.63 / (1.87 * 1.87),
		Branching: 1, Production: 1, CrossSection: Kaon,
	},
	DsPlus: {
		Tag: "d+s", Label: "D+s", File: "DplusS",
		Mass: 1.97, Lifetime: 0.501e-12,
		Lambda:    0.84 * 0.84 / (1.97 * 1.97),
		Branching: 1, Production: 1, CrossSection: Kaon,
	},
	LambdaC: {
		Tag: "lam+c", Label: "Lam+c", File: "LAMplusC",
		Mass: 2.29, Lifetime: 0.203e-12,
		Lambda:    1.27 * 1.27 / (2.29 * 2.29),
		Branching: 1, Production: 1, CrossSection: Kaon,
	},
	Proton: {
		Tag: "p", Label: "p", File: "p",
		Mass: 0.938, CrossSection: Proton,
	},
}

// all lists every species in declaration order.
var all = []Species{Pion, Kaon, D0, DPlus, DsPlus, LambdaC, Proton}

// Lookup returns the constants for s.
func Lookup(s Species) (Properties, error) {
	p, ok := table[s]
	if !ok {
		return Properties{}, fmt.Errorf("%w: species %d", flux.ErrUnknownSpecies, int(s))
	}
	return p, nil
}

// MustLookup is Lookup for species already validated against a Set.
func MustLookup(s Species) Properties {
	p, err := Lookup(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (s Species) Tag() string {
	if p, ok := table[s]; ok {
		return p.Tag
	}
	return fmt.Sprintf("species(%d)", int(s))
}

func (s Species) String() string { return s.Tag() }

func (s Species) Label() string { return MustLookup(s).Label }

func (s Species) File() string { return MustLookup(s).File }

func (s Species) Mass() float64 { return MustLookup(s).Mass }

// Parse resolves a case-insensitive tag against every known species.
func Parse(tag string) (Species, error) {
	return Any.Parse(tag)
}

// ParseList resolves tags against a set, failing on the first invalid one.
func ParseList(set Set, tags []string) ([]Species, error) {
	out := make([]Species, 0, len(tags))
	for _, tag := range tags {
		s, err := set.Parse(tag)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
