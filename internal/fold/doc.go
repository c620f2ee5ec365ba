// Package fold implements the convolution engine shared by every stage of
// the spectrum pipeline.
//
// Two forms are provided. [Scalar] integrates a pointwise integrand over a
// grid it builds between two bounds. [GridFold] folds a tabulated input
// against a precomputed kernel as K · diag(Δx) · input, where Δx are the
// forward differences of the integration grid with a leading zero.
//
// Both forms substitute zero for cells outside a parametrization's domain
// and for non-finite numbers before anything is summed. A fold over an
// empty or inverted range is exactly zero.
package fold
