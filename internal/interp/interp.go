// Package interp holds the scalar interpolation helpers shared by the
// sampler, the blender and the renderer.
package interp

// Lerp interpolates linearly from begin to end. t is not restricted to
// [0,1]; values outside extrapolate.
func Lerp(begin, end, t float64) float64 { return begin + (end-begin)*t }

// Clamp bounds value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Clamp01 bounds value to [0, 1].
func Clamp01(value float64) float64 { return Clamp(value, 0, 1) }

// Sign returns +1 or -1 depending on the direction from from to to.
// Callers must special-case equal values; Sign(x, x) returns 0.
func Sign(from, to float64) float64 {
	switch {
	case to > from:
		return 1
	case to < from:
		return -1
	default:
		return 0
	}
}
