package util

import "golang.org/x/exp/constraints"

// Coerce returns value pinned into the range [min, max]
func Coerce[T constraints.Ordered](value T, min T, max T) T {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// Ratio calculates the ration that target has in comparison to rangeMin and rangeMax
// Make sure that:
// rangeMin <= target <= rangeMax
// rangeMax - rangeMin != 0
func Ratio(target float64, rangeMin float64, rangeMax float64) float64 {
	return (target - rangeMin) / (rangeMax - rangeMin)
}

// CeilDiv returns ceil(a / b) for non-negative integers, b must be > 0
func CeilDiv[T constraints.Integer](a T, b T) T {
	result := a / b
	if a%b != 0 {
		result++
	}
	return result
}

// AbsDiff returns |a - b| without leaving the value range of T
func AbsDiff[T constraints.Unsigned](a T, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}
