package simulation

import (
	"fmt"
	"math"

	"quanta-tokenomics/internal/domain"
)

// Upper bounds for generated series requested over the API.
const (
	MaxPowerLawRanks = 10_000
	MaxSupplyMonths  = 1_200
)

func validatePowerLaw(gamma float64, n int) error {
	if math.IsNaN(gamma) || math.IsInf(gamma, 0) || gamma < 0 {
		return fmt.Errorf("%w: gamma must be a finite number >= 0, got %v", domain.ErrInvalidInput, gamma)
	}
	if n < 1 || n > MaxPowerLawRanks {
		return fmt.Errorf("%w: ranks must be in [1,%d], got %d", domain.ErrInvalidInput, MaxPowerLawRanks, n)
	}
	return nil
}
