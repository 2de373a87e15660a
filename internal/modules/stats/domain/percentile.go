package domain

import "sort"

// Percentile computes the p-th percentile (0..100) using linear
// interpolation between closest ranks: index = (p/100)*(n-1), with the
// fractional part interpolating between neighbours. This is not the
// nearest-rank method; for [1,2,3,4] the median is 2.5.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	index := (p / 100) * float64(len(sorted)-1)
	lower := int(index)
	frac := index - float64(lower)
	if frac == 0 || lower+1 >= len(sorted) {
		return sorted[lower]
	}
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}
