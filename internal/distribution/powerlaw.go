// Package distribution generates rank-reward curves.
package distribution

import (
	"math"

	"quanta-tokenomics/internal/domain"
)

// GeneratePowerLaw returns the reward share of ranks 1..n under a power law
// with exponent gamma: weight(rank) = rank^-gamma, normalised so that the
// rewards sum to 100%. CumulativePercent is a running sum.
//
// n <= 0 yields an empty slice. Non-finite gamma is treated as 0 (uniform).
func GeneratePowerLaw(gamma float64, n int) []domain.PowerLawPoint {
	if n <= 0 {
		return []domain.PowerLawPoint{}
	}
	if math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		gamma = 0
	}

	weights := make([]float64, n)
	var total float64
	for i := range weights {
		weights[i] = math.Pow(float64(i+1), -gamma)
		total += weights[i]
	}

	points := make([]domain.PowerLawPoint, n)
	var cumulative float64
	for i, w := range weights {
		share := w / total * 100
		cumulative += share
		points[i] = domain.PowerLawPoint{
			Rank:              i + 1,
			RewardPercent:     share,
			CumulativePercent: cumulative,
		}
	}
	return points
}

// DefaultPowerLaw is the standard chart: gamma 1.5 over 50 ranks.
func DefaultPowerLaw() []domain.PowerLawPoint {
	return GeneratePowerLaw(domain.DefaultPowerLawGamma, domain.DefaultPowerLawRanks)
}

// TopShare returns the cumulative reward share of the top k ranks.
func TopShare(points []domain.PowerLawPoint, k int) float64 {
	if k <= 0 || len(points) == 0 {
		return 0
	}
	k = min(k, len(points))
	return points[k-1].CumulativePercent
}
