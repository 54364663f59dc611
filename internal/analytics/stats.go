package analytics

import (
	"math"
	"sort"
)

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// popStdDev is the population standard deviation (divisor n, not n-1)
func popStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// percentile computes the p-th percentile (p in [0,100]) using linear
// interpolation between closest ranks
func percentile(values []float64, p float64) float64 {
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

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// skewness is the population skewness m3 / m2^1.5, 0 for degenerate input
func skewness(values []float64) float64 {
	if len(values) < 3 {
		return 0
	}
	m := mean(values)
	m2, m3 := 0.0, 0.0
	for _, v := range values {
		d := v - m
		m2 += d * d
		m3 += d * d * d
	}
	n := float64(len(values))
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}
	return m3 / math.Pow(m2, 1.5)
}

// excessKurtosis is the population kurtosis m4 / m2^2 minus 3
func excessKurtosis(values []float64) float64 {
	if len(values) < 4 {
		return 0
	}
	m := mean(values)
	m2, m4 := 0.0, 0.0
	for _, v := range values {
		d := v - m
		d2 := d * d
		m2 += d2
		m4 += d2 * d2
	}
	n := float64(len(values))
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return 0
	}
	return m4/(m2*m2) - 3
}
