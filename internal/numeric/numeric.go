// Package numeric wraps the descriptive statistics shared by the heuristics.
// Empty input yields zero rather than an error; callers guard on length.
package numeric

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// Sum adds the values
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Sum(data)
}

// Mean is the arithmetic mean, or NaN for empty input
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	mean, _ := stats.Mean(data)
	return mean
}

// SampleStd is the standard deviation with n-1 in the denominator.
// Fewer than two values yield NaN.
func SampleStd(data []float64) float64 {
	if len(data) < 2 {
		return math.NaN()
	}
	std, _ := stats.StandardDeviationSample(data)
	return std
}

// Min returns the smallest value, or NaN
func Min(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return floats.Min(data)
}

// Max returns the largest value, or NaN
func Max(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return floats.Max(data)
}

// CV is the coefficient of variation std/mean. A zero mean or undefined
// std yields 0.
func CV(data []float64) float64 {
	mean := Mean(data)
	if math.IsNaN(mean) || mean == 0 {
		return 0
	}
	cv := SampleStd(data) / mean
	if math.IsNaN(cv) || math.IsInf(cv, 0) {
		return 0
	}
	return cv
}

// Quantile returns the q-th quantile (0..1) using linear interpolation
// between closest ranks (h = (n-1)q).
func Quantile(data []float64, q float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	h := float64(len(sorted)-1) * q
	lo := math.Floor(h)
	hi := math.Ceil(h)
	if lo == hi {
		return sorted[int(lo)]
	}
	return sorted[int(lo)] + (h-lo)*(sorted[int(hi)]-sorted[int(lo)])
}

// Round rounds half to even at the given number of decimals
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	scale := math.Pow(10, float64(places))
	return math.RoundToEven(x*scale) / scale
}

// Ratio divides guarding against a zero denominator
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
