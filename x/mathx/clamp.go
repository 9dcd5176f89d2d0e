// Package mathx holds the few ordered-type helpers the firmware shares:
// clamping display bar values and holding timing intervals at their floor.
package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. Callers pass the bounds in order.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
