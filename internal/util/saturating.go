package util

import "golang.org/x/exp/constraints"

// MaxValue returns the largest value representable by T
func MaxValue[T constraints.Unsigned]() T {
	return ^T(0)
}

// SaturatingAdd returns a + b, pinned to the maximum value of T instead of wrapping around
func SaturatingAdd[T constraints.Unsigned](a T, b T) T {
	if a > MaxValue[T]()-b {
		return MaxValue[T]()
	}
	return a + b
}

// SaturatingSub returns a - b, pinned to 0 instead of wrapping around
func SaturatingSub[T constraints.Unsigned](a T, b T) T {
	if a < b {
		return 0
	}
	return a - b
}
