// Package viz renders spectra and run summaries in the terminal.
//
//   - [Panel] and [KeyValues]: lipgloss-styled summary blocks
//   - [SpectrumPlot]: log-log E^2 dN/dE plot via asciigraph
//   - [LightCurvePlot]: log-log light curve at one energy
//
// Zero and non-finite samples are skipped since both axes are logarithmic.
package viz
