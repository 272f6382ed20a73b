// Package branchless provides integer primitives implemented without
// data-dependent conditional branches.
//
// The functions here compile down to straight-line mask arithmetic
// (plus SETcc-style flag materialization for the comparisons), which makes
// them suitable for tight loops and for code that must not leak information
// through branch timing.
//
// The ownership wrappers in the parent module use Swap for their no-fail
// state exchange, Min/Max for chunk clamping, and the power-of-two helpers
// for page-mask arithmetic. Everything is exported because the primitives
// are generally useful on their own.
package branchless
