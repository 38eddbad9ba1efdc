package domain

import (
	"math"
	"sort"
)

// ColumnStats holds descriptive statistics over the non-missing values of one
// numeric column.
type ColumnStats struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe computes count, mean, sample standard deviation, min, quartiles,
// and max for a column. A zero Count means every other field is zero too.
func Describe(values []float64) ColumnStats {
	n := len(values)
	if n == 0 {
		return ColumnStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return ColumnStats{
		Count:  n,
		Mean:   mean(values),
		Std:    sampleStd(values),
		Min:    sorted[0],
		Q25:    percentile(sorted, 25),
		Median: percentile(sorted, 50),
		Q75:    percentile(sorted, 75),
		Max:    sorted[n-1],
	}
}

func mean(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// sampleStd is the sample standard deviation (n-1 denominator). Returns 0
// for fewer than two values.
func sampleStd(x []float64) float64 {
	n := len(x)
	if n < 2 {
		return 0
	}
	m := mean(x)
	sumSq := 0.0
	for _, v := range x {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// percentile returns the p-th percentile of an already-sorted slice using
// linear interpolation between closest ranks.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
