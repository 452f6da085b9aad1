// Package aggregates defines the write boundaries of the catalogue.
//
// Organisation and Solution writes are aggregate-owned: each call is one
// atomic unit that authorizes the caller, persists the entry, and rewrites
// its associations. Failures carry an *Error with a stable ErrorCode.
package aggregates
