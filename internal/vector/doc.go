// Package vector evaluates scalar parametrizations over whole grids.
//
// Broadcasting follows explicit rules: shapes are aligned on their trailing
// dimensions, and each pair of dimensions must either match or be 1. The
// column-times-row idiom used to build kernels is
//
//	field, err := vector.Map(fn, vector.Column(energies), vector.Row(times))
//
// Every cell keeps its own [flux.Value], so a warning raised for one element
// never affects its neighbours. Converting a Field to plain numbers is an
// explicit step ([Field.Zeroed]) that substitutes zero for outside values.
package vector
