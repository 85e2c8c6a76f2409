// Package robust provides the robust-scale and residual statistics
// used by the sigma-clipping loop and the Baart degree rule.
package robust

import (
	"math"

	"github.com/montanaflynn/stats"
)

// MAD computes the median absolute deviation of data: the median of
// absolute deviations from the median. This is the default scale
// estimator for sigma clipping.
func MAD(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	med, err := stats.Median(data)
	if err != nil {
		return 0
	}
	dev := make([]float64, len(data))
	for i, v := range data {
		dev[i] = math.Abs(v - med)
	}
	m, err := stats.Median(dev)
	if err != nil {
		return 0
	}
	return m
}

// SEM computes the standard error of the mean of data.
func SEM(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		return 0
	}
	return sd / math.Sqrt(float64(len(data)))
}

// Normalize rescales data linearly onto [0,1]. A constant series maps
// to all zeros.
func Normalize(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)
	span := hi - lo
	if span == 0 {
		return out
	}
	for i, v := range data {
		out[i] = (v - lo) / span
	}
	return out
}

// Standardize rescales data to zero mean and unit variance. A constant
// series maps to all zeros.
func Standardize(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	mean, _ := stats.Mean(data)
	sd, _ := stats.StandardDeviation(data)
	if sd == 0 {
		return out
	}
	for i, v := range data {
		out[i] = (v - mean) / sd
	}
	return out
}

// Autocorrelation computes the lag autocorrelation of x, the
// autocovariance at the given lag (with cyclic wraparound) divided by
// the variance.
func Autocorrelation(x []float64, lag int) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	mean, _ := stats.Mean(x)
	diff := make([]float64, n)
	for i, v := range x {
		diff[i] = v - mean
	}
	var num, den float64
	for i := 0; i < n; i++ {
		num += diff[i] * diff[(i+lag)%n]
		den += diff[i] * diff[i]
	}
	if den == 0 {
		return 0
	}
	return num / den
}
