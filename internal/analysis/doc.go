// Package analysis provides spectral shape diagnostics.
//
//   - [SpectralIndex]: power-law slope from a log-log least-squares fit
//   - [Peak]: energy where E^2 times the spectrum is largest
//   - [TimeIntegrated]: collapse an energy x time table into a fluence spectrum
//   - [LightCurve]: time series of a table at the energy nearest a target
//
// # Example
//
//	gamma, _ := analysis.SpectralIndex(E, S)
//	// a spectrum falling as E^-2 gives gamma = -2
package analysis
