// Package stats reduces scenario samples to performance distributions.
package stats

import (
	"errors"
	"math"
	"sort"

	"venture-fund-lab/internal/domain"
)

// ErrNoSamples is returned when aggregation is asked to reduce an empty
// sample set. Partial runs never reach aggregation, so this indicates a
// caller bug rather than a data condition.
var ErrNoSamples = errors.New("no samples to aggregate")

// Aggregate reduces one metric's samples to a PerformanceDistribution.
// Percentile p is read at index round(p/100*(n-1)) of the sorted values
// (nearest rank, no interpolation). Variance uses the sample (n-1)
// denominator. CI68/CI95 are mean +/- 1 and 2 sigma: a normal
// approximation, documented as such, not an exact-coverage guarantee
// given the skew of venture returns.
func Aggregate(values []float64) (domain.PerformanceDistribution, error) {
	n := len(values)
	if n == 0 {
		return domain.PerformanceDistribution{}, ErrNoSamples
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean := Mean(sorted)
	stdDev := StdDev(sorted, mean)

	return domain.PerformanceDistribution{
		SortedValues: sorted,
		Percentiles: domain.Percentiles{
			P5:  Percentile(sorted, 5),
			P25: Percentile(sorted, 25),
			P50: Percentile(sorted, 50),
			P75: Percentile(sorted, 75),
			P95: Percentile(sorted, 95),
		},
		Mean:   mean,
		StdDev: stdDev,
		Min:    sorted[0],
		Max:    sorted[n-1],
		CI68: domain.ConfidenceInterval{
			Lower: mean - stdDev,
			Upper: mean + stdDev,
		},
		CI95: domain.ConfidenceInterval{
			Lower: mean - 2*stdDev,
			Upper: mean + 2*stdDev,
		},
	}, nil
}

// Percentile reads percentile p from pre-sorted values at the nearest-rank
// index round(p/100*(n-1)).
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Round(p / 100 * float64(n-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// Mean is the arithmetic mean.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev is the sample standard deviation (n-1 denominator).
func StdDev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}
