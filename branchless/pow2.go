package branchless

// IsPowerOfTwo reports whether v is a power of two. The caller is assumed
// to pass v > 0; zero also reports true.
func IsPowerOfTwo[T unsigned](v T) bool {
	return (v-1)&v == 0
}

// RoundUpPowerOfTwo returns the smallest power of two greater than or equal
// to v, computed by spreading the highest set bit downward and incrementing.
// Defined for v in [1, 1<<31]; RoundUpPowerOfTwo(0) returns 0.
func RoundUpPowerOfTwo[T unsigned](v T) T {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v++

	return v
}

// IsPowerOfTwoMinusOne reports whether v is one less than a power of two,
// i.e. a contiguous low-bit mask such as 0x00FF.
func IsPowerOfTwoMinusOne[T unsigned](v T) bool {
	return v&(v+1) == 0
}

// RoundUpPowerOfTwoMinusOne returns the low-bit mask one less than the
// smallest power of two greater than or equal to v. Same domain as
// RoundUpPowerOfTwo. This is how the page masks used for offset alignment
// are derived from a page size.
func RoundUpPowerOfTwoMinusOne[T unsigned](v T) T {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16

	return v
}
