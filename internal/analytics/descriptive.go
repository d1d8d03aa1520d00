package analytics

import (
	"math"
	"sort"
)

// Stats holds the descriptive statistics of one series.
type Stats struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	StdDev   float64 `json:"stdDev"`
	Variance float64 `json:"variance"`
	Count    int     `json:"count"`
}

// DescriptiveStats computes mean, median, extremes and population variance of
// a series. An empty series yields the zero Stats.
func DescriptiveStats(series []float64) Stats {
	n := len(series)
	if n == 0 {
		return Stats{}
	}

	s := Series(series)
	mean := s.Mean()

	minVal, maxVal := series[0], series[0]
	sumSq := 0.0
	for _, v := range series {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
		diff := v - mean
		sumSq += diff * diff
	}
	variance := sumSq / float64(n)

	return Stats{
		Mean:     round2(mean),
		Median:   round2(median(series)),
		Min:      round2(minVal),
		Max:      round2(maxVal),
		StdDev:   round2(math.Sqrt(variance)),
		Variance: round2(variance),
		Count:    n,
	}
}

// median sorts a copy of series; the caller's slice is left untouched.
func median(series []float64) float64 {
	sorted := make([]float64, len(series))
	copy(sorted, series)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
