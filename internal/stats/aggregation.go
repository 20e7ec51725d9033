package stats

// Mean calculates the arithmetic mean
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

// WeightedMean calculates the weighted arithmetic mean.
// Returns 0 when lengths mismatch or the total weight is not positive.
func WeightedMean(values, weights []float64) float64 {
	if len(values) == 0 || len(values) != len(weights) {
		return 0
	}

	var weightedSum, totalWeight float64
	for i, v := range values {
		weightedSum += v * weights[i]
		totalWeight += weights[i]
	}

	if totalWeight <= 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// Median returns the middle value (linear interpolation for even counts)
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Min returns the smallest value
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
