package physics

const (
	// ProtonMass in GeV.
	ProtonMass = 0.938
	// SpeedOfLight in cm/s.
	SpeedOfLight = 2.99792458e10
	// MillibarnToCm2 converts mb to cm^2.
	MillibarnToCm2 = 1e-24
)
