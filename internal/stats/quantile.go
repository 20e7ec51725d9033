package stats

import (
	"math"
	"sort"
)

// Quantile calculates the q-th quantile (0-1) of values.
// Uses linear interpolation between closest ranks.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	index := q * (n - 1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	// Linear interpolation
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Quartiles returns the three quartiles (Q1, Q2/median, Q3)
func Quartiles(values []float64) (q1, q2, q3 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}

	q1 = Quantile(values, 0.25)
	q2 = Quantile(values, 0.5)
	q3 = Quantile(values, 0.75)

	return
}

// OutlierBounds calculates the lower and upper bounds for outliers using the
// IQR method. Outliers are values < Q1 - 1.5*IQR or > Q3 + 1.5*IQR.
func OutlierBounds(values []float64) (lowerBound, upperBound float64) {
	q1, _, q3 := Quartiles(values)
	iqr := q3 - q1

	lowerBound = q1 - 1.5*iqr
	upperBound = q3 + 1.5*iqr

	return
}
