package branchless

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type integer interface {
	signed | unsigned
}

// b2i expands a comparison result into 0 or 1. The compiler materializes
// this from the flags register (SETcc) rather than emitting a jump.
func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Abs returns the absolute value of x without comparing x against zero.
// The sign bit, spread across the full width, acts as a conditional mask:
// (x ^ mask) - mask negates x exactly when the sign bit is set.
//
// For the most negative representable value the subtraction overflows in
// two's complement and the input is returned unchanged. Callers that can
// encounter that value must screen for it themselves.
func Abs[T signed](x T) T {
	mask := T(int64(x) >> 63)
	return (x ^ mask) - mask
}

// Min returns the smaller of x and y using mask selection instead of a
// conditional branch.
func Min[T integer](x, y T) T {
	return y ^ ((x ^ y) & -T(b2i(x < y)))
}

// Max returns the larger of x and y using mask selection instead of a
// conditional branch.
func Max[T integer](x, y T) T {
	return x ^ ((x ^ y) & -T(b2i(x < y)))
}

// Swap exchanges *a and *b in place. The exchange is total: both values
// move or neither does, and it never fails. Unlike an XOR swap it remains
// correct when a and b alias the same location.
func Swap[T integer](a, b *T) {
	t := *a
	*a = *b
	*b = t
}
