package conv

import (
	"fmt"
	"math"
)

// Int64ToInt converts int64 to int safely.
func Int64ToInt(v int64) (int, error) {
	// On 64-bit systems both bounds are unreachable; on 32-bit they matter.
	if v > math.MaxInt {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	if v < math.MinInt {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too small)", v)
	}
	return int(v), nil
}

// IntToInt64 converts int to int64. It always succeeds and exists for
// symmetry at call sites that convert in both directions.
func IntToInt64(v int) int64 {
	return int64(v)
}
