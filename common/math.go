package common

import "math"

// Clamp limits v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampUnit limits v to [-1, 1], mapping NaN to 0 and infinities to the
// nearest bound.
func ClampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Clamp(v, -1, 1)
}
