package qsearch

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Median of xs; the two middle values are averaged for even lengths.
// Returns 0 for an empty slice.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	return stat.Mean(sorted[mid-1:mid+1], nil)
}

// MedianDuration is Median over durations.
func MedianDuration[D ~int64](ds []D) D {
	xs := make([]float64, len(ds))
	for i, d := range ds {
		xs[i] = float64(d)
	}

	return D(Median(xs))
}

// MeanStdDev returns the sample mean and standard deviation of xs.
func MeanStdDev(xs []float64) (mean, std float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}

	return stat.MeanStdDev(xs, nil)
}

// Quantile returns the empirical p-quantile of xs.
func Quantile(p float64, xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	return stat.Quantile(p, stat.Empirical, sorted, nil)
}
