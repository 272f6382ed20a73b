// Package conv provides safe integer type conversion utilities.
//
// These functions perform bounds checking to prevent overflow when sizes
// reported by the OS (int64) cross into Go's platform-dependent int, e.g.
// an fstat size becoming an mmap length on a 32-bit platform.
//
// For conversions that are provably safe by domain constraints, use direct
// type casts instead to avoid overhead.
package conv
