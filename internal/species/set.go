package species

import "github.com/san-kum/nuflux/internal/flux"

// Set is the collection of species a function accepts.
type Set struct {
	name    string
	members []Species
}

var (
	Any         = Set{name: "species", members: all}
	Hadrons     = Set{name: "hadron", members: []Species{Pion, Kaon, D0, DPlus, DsPlus, LambdaC}}
	Mesons      = Set{name: "meson", members: []Species{Pion, Kaon}}
	Charmed     = Set{name: "charmed hadron", members: []Species{D0, DPlus, DsPlus, LambdaC}}
	Projectiles = Set{name: "projectile", members: []Species{Proton, Pion, Kaon}}
)

func (s Set) Members() []Species {
	return append([]Species(nil), s.members...)
}

func (s Set) Contains(sp Species) bool {
	for _, m := range s.members {
		if m == sp {
			return true
		}
	}
	return false
}

func (s Set) Tags() []string {
	tags := make([]string, len(s.members))
	for i, m := range s.members {
		tags[i] = m.Tag()
	}
	return tags
}

// Check returns a DomainError when sp is not a member.
func (s Set) Check(sp Species) error {
	if s.Contains(sp) {
		return nil
	}
	return &flux.DomainError{Kind: s.name, Tag: sp.Tag(), Allowed: s.Tags(), Wrapped: flux.ErrUnknownSpecies}
}

// Parse resolves a case-insensitive tag within the set.
func (s Set) Parse(tag string) (Species, error) {
	n := normalize(tag)
	for _, m := range s.members {
		if table[m].Tag == n {
			return m, nil
		}
	}
	return 0, &flux.DomainError{Kind: s.name, Tag: tag, Allowed: s.Tags(), Wrapped: flux.ErrUnknownSpecies}
}
