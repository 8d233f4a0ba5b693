package stats

import "slices"

// CalculateMean averages a slice of floats. Empty input yields 0.
func CalculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return CalculateSum(values) / float64(len(values))
}

// CalculateSum totals a slice of floats.
func CalculateSum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// CalculateMedian finds the median value in a slice of floats.
func CalculateMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2]
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0
}

// CalculatePercentile returns the pct-quantile (0..1) by sorted index.
func CalculatePercentile(values []float64, pct float64) float64 {
	if len(values) == 0 {
		return 0
	}

	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	idx := int(float64(len(temp)) * pct)
	if idx >= len(temp) {
		idx = len(temp) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return temp[idx]
}

// CalculateMin returns the smallest value. Empty input yields 0.
func CalculateMin(values []float64) float64 {
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

// CalculateMax returns the largest value. Empty input yields 0.
func CalculateMax(values []float64) float64 {
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
