package util

import (
	"math"
	"strconv"
)

// SafeDiv returns n/d, or 0 when d is zero or within eps of it.
func SafeDiv(n, d float64) float64 {
	const eps = 1e-12
	if d > eps || d < -eps {
		return n / d
	}
	return 0
}

// Clamp bounds x to [lo, hi]. NaN maps to lo.
func Clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// AtLeast returns x, raised to min when below it.
func AtLeast(x, min float64) float64 {
	if x < min {
		return min
	}
	return x
}

// ClampInt bounds n to [lo, hi]. If hi < lo, lo wins.
func ClampInt(n, lo, hi int) int {
	if n > hi {
		n = hi
	}
	if n < lo {
		n = lo
	}
	return n
}

// Finite reports whether x is neither NaN nor ±Inf.
func Finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FmtFloat formats x with the shortest representation that round-trips.
func FmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
