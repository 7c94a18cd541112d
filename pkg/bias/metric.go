package bias

import "math"

// DistributionBias quantifies how far a categorical distribution sits
// from uniform, as the normalized entropy deficit 1 - H(p)/log(k). It is
// 0 for a uniform distribution and 1 when a single category dominates
// completely; a one-category column scores 1 by definition.
func DistributionBias(distribution map[string]float64) float64 {
	k := len(distribution)
	if k == 0 {
		return 0
	}
	if k == 1 {
		return 1
	}

	entropy := 0.0
	for _, p := range distribution {
		if p > 0 {
			entropy -= p * math.Log(p)
		}
	}

	metric := 1 - entropy/math.Log(float64(k))
	if metric < 0 {
		return 0
	}
	if metric > 1 {
		return 1
	}
	return metric
}

// minorityClassRatio is the smallest category share of a distribution.
func minorityClassRatio(distribution map[string]float64) float64 {
	min := math.Inf(1)
	for _, p := range distribution {
		if p < min {
			min = p
		}
	}
	if math.IsInf(min, 1) {
		return 0
	}
	return min
}
