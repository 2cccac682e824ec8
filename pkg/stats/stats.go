package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean computes the average of a slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// Std computes the sample standard deviation of a slice.
func Std(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.StdDev(x, nil)
}

// Median returns the median value of the slice (allocates a copy).
func Median(x []float64) float64 {
	return Quantile(x, 0.5)
}

// Quantile returns the p-quantile of the slice, 0 <= p <= 1, with linear
// interpolation between order statistics. Allocates a sorted copy.
func Quantile(x []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	if p <= 0 {
		return cp[0]
	}
	if p >= 1 {
		return cp[n-1]
	}
	rank := p * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= n {
		return cp[lower]
	}
	weight := rank - float64(lower)
	return cp[lower]*(1-weight) + cp[upper]*weight
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	min, max := x[0], x[0]
	for i := 1; i < len(x); i++ {
		if x[i] < min {
			min = x[i]
		} else if x[i] > max {
			max = x[i]
		}
	}
	return min, max
}

// Correlation computes the Pearson correlation coefficient between two slices.
func Correlation(x, y []float64) float64 {
	if len(x) == 0 || len(y) != len(x) {
		return 0
	}
	return stat.Correlation(x, y, nil)
}

// ModeFloats returns the most frequent value in the slice. Ties break toward
// the value encountered first, keeping the result deterministic.
func ModeFloats(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	counts := make(map[float64]int)
	maxCount := 0
	mode := x[0]
	for _, v := range x {
		counts[v]++
		if counts[v] > maxCount {
			maxCount = counts[v]
			mode = v
		}
	}
	return mode
}

// ModeLabels returns the most frequent label in the slice, with the same
// first-encountered tie-break as ModeFloats.
func ModeLabels(x []string) string {
	if len(x) == 0 {
		return ""
	}
	counts := make(map[string]int)
	maxCount := 0
	mode := x[0]
	for _, v := range x {
		counts[v]++
		if counts[v] > maxCount {
			maxCount = counts[v]
			mode = v
		}
	}
	return mode
}
