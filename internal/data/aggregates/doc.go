// Package aggregates implements the catalogue write paths. Each operation runs
// in one transaction: it authorizes the caller, resolves references, applies a
// version-checked update and replaces the association sets of a solution.
package aggregates
