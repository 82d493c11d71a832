package utils

import "math"

// ClampFloat64 clamps a float64 value between min and max
func ClampFloat64(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Clamp01 clips value to the unit interval [0, 1]
func Clamp01(value float64) float64 {
	return ClampFloat64(value, 0, 1)
}

// Mean calculates the mean of a slice of float64 values.
// Returns fallback when values is empty.
func Mean(values []float64, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	return Sum(values) / float64(len(values))
}

// Sum calculates the sum of a slice of float64 values
func Sum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// RoundHalfUp rounds to the nearest integer, with halves rounded towards
// positive infinity (2.5 -> 3, -2.5 -> -2).
func RoundHalfUp(value float64) int {
	return int(math.Floor(value + 0.5))
}

// Round rounds a float64 to the specified number of decimal places
func Round(value float64, decimals int) float64 {
	multiplier := math.Pow(10, float64(decimals))
	return math.Round(value*multiplier) / multiplier
}
