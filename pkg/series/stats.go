package series

import (
	"math"
	"sort"
)

// Stat helpers over raw float64 slices. Undefined statistics come back as
// NaN rather than an error; callers filter with Finite before aggregating.

// Mean returns the arithmetic mean, or NaN for an empty slice.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// StdDev returns the unbiased sample standard deviation (n-1 denominator).
// Fewer than two observations leaves it undefined, reported as NaN.
func StdDev(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	m := Mean(vals)
	sumSq := 0.0
	for _, v := range vals {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(vals)-1))
}

// Median returns the middle value (mean of the two middle values for even
// lengths), or NaN for an empty slice.
func Median(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, vals)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// MedianAbs returns the median of absolute values.
func MedianAbs(vals []float64) float64 {
	abs := make([]float64, len(vals))
	for i, v := range vals {
		abs[i] = math.Abs(v)
	}
	return Median(abs)
}

// Pearson computes the Pearson correlation coefficient of two equal-length
// slices. Zero variance on either side leaves it undefined (NaN).
func Pearson(x, y []float64) float64 {
	n := len(x)
	if n != len(y) || n == 0 {
		return math.NaN()
	}
	mx, my := Mean(x), Mean(y)
	sxx, syy, sxy := 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		dy := y[i] - my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	return sxy / math.Sqrt(sxx*syy)
}

// Finite filters out NaN and infinite values, preserving order.
func Finite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
