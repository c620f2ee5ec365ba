// Package flux provides core numerical primitives for spectrum computations.
//
// The package defines the shared types every other nuflux package builds on:
//
//   - [Value]: result of a physics parametrization (valid, warned or outside its domain)
//   - [Grid]: immutable, strictly increasing sampling grid
//   - [Table]: dense 2D spectrum aligned to an energy grid and a time grid
//   - [DomainError]: fatal error for an invalid species, model or configuration tag
//
// # Example
//
//	E, _ := flux.LogGrid(1e5, 1e12, 100)
//	t, _ := flux.LogGrid(1e1, 1e8, 500)
//	table := flux.NewTable(E, t)
//
// # Thread Safety
//
// Grids and Values are immutable and safe to share. A Table is safe for
// concurrent reads; concurrent writes must target disjoint cells.
package flux
