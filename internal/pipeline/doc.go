// Package pipeline tabulates spectra stage by stage.
//
// A magnetar run has three stages:
//
//   - hadrons: energy x time tables of each hadron species
//   - neutrinos: each hadron table folded with its decay kernel
//   - integrate: neutrino tables integrated over time windows
//
// A nucleus run folds a steady injection spectrum through production and
// decay kernels in one pass ([Runner.NucleusNeutrinos]).
//
// Species are processed concurrently by a [Runner]; each species result
// lands in its own slot, so results come back in request order.
package pipeline
