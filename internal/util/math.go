package util

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp limits value to the range [min, max]
func Clamp[T constraints.Integer | constraints.Float](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func Abs[T constraints.Signed | constraints.Float](value T) T {
	if value < 0 {
		return -value
	}
	return value
}

// MilliDegreesToDegrees converts a sysfs style temperature to whole degrees
func MilliDegreesToDegrees(value int) int {
	return int(math.Round(float64(value) / 1000))
}
