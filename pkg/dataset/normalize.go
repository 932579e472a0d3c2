package dataset

import (
	"gonum.org/v1/gonum/floats"
)

// degenerate is the normalized value of every sample of a constant series
const degenerate = 0.5

// Extent returns the minimum and maximum of values. Both are zero for an empty
// slice.
func Extent(values []float64) (low, high float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return floats.Min(values), floats.Max(values)
}

// NormalizeValue returns the linear position of v within [low, high]. A
// collapsed interval yields 0.5.
func NormalizeValue(v, low, high float64) float64 {
	if high == low {
		return degenerate
	}
	return (v - low) / (high - low)
}

// Denormalize maps a normalized position back into [low, high]
func Denormalize(n, low, high float64) float64 {
	if high == low {
		return low
	}
	return low + n*(high-low)
}

// Normalize rescales values into [0, 1] using their own extrema
func Normalize(values []float64) []float64 {
	low, high := Extent(values)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = NormalizeValue(v, low, high)
	}
	return out
}
