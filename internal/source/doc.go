// Package source drives the production chain for concrete astrophysical
// sources.
//
// A [Source] injects protons of some energy spectrum into a target medium.
// Its hadron spectrum is the production spectrum of each hadron species
// weighted by the medium's attenuation, and [NeutrinoSpectrum] and
// [Fluence] fold that through decay and over time.
//
//   - [Magnetar]: a spinning-down neutron star accelerating monoenergetic
//     protons into its expanding supernova ejecta
//   - [Nucleus]: a steady power-law proton source behind a target of fixed
//     density and size
//
// Sources are immutable after construction and safe for concurrent use.
package source
