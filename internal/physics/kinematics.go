package physics

import (
	"math"

	"go-hep.org/x/hep/fmom"
)

// MandelstamS is the squared centre-of-mass energy of a projectile with
// total energy E and mass m hitting a proton at rest.
func MandelstamS(E, m float64) float64 {
	if E <= m {
		// off-shell projectile: keep the fixed-target expression
		return m*m + ProtonMass*ProtonMass + 2*E*ProtonMass
	}
	projectile := fmom.NewPxPyPzE(0, 0, math.Sqrt(E*E-m*m), E)
	target := fmom.NewPxPyPzE(0, 0, 0, ProtonMass)
	return fmom.Add(&projectile, &target).M2()
}

// ProjectileEnergy inverts MandelstamS for a proton beam.
func ProjectileEnergy(s float64) float64 {
	return (s - 2*ProtonMass*ProtonMass) / (2 * ProtonMass)
}
