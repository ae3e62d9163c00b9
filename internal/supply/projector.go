// Package supply projects circulating supply under a fixed burn rate and a
// decaying emission rate.
package supply

import (
	"math"

	"quanta-tokenomics/internal/domain"
)

// Config holds the projection constants.
type Config struct {
	InitialSupply       float64 `json:"initialSupply" yaml:"initial_supply"`
	MonthlyBurnRate     float64 `json:"monthlyBurnRate" yaml:"monthly_burn_rate"`         // fraction of supply
	MonthlyEmissionRate float64 `json:"monthlyEmissionRate" yaml:"monthly_emission_rate"` // fraction of supply, before decay
	AnnualEmissionDecay float64 `json:"annualEmissionDecay" yaml:"annual_emission_decay"` // emission multiplier per 12 months
}

// DefaultConfig returns the reference projection: 1M seed, 2% burn,
// 1.5% emission decaying 5% per year.
func DefaultConfig() Config {
	return Config{
		InitialSupply:       domain.InitialSupply,
		MonthlyBurnRate:     domain.MonthlyBurnRate,
		MonthlyEmissionRate: domain.MonthlyEmissionRate,
		AnnualEmissionDecay: domain.AnnualEmissionDecay,
	}
}

// ProjectSupply runs the default projection.
func ProjectSupply(months int) []domain.SupplyPoint {
	return Project(DefaultConfig(), months)
}

// Project iterates the supply recurrence for months 0..months inclusive.
// Each month's burn and emission are taken from the previous month's ending
// supply:
//
//	burn     = supply × burnRate
//	emission = supply × emissionRate × decay^(month/12)
//	supply   = supply − burn + emission
//
// A negative month count yields an empty slice.
func Project(cfg Config, months int) []domain.SupplyPoint {
	if months < 0 {
		return []domain.SupplyPoint{}
	}

	supply := nonNegative(cfg.InitialSupply)
	burnRate := nonNegative(cfg.MonthlyBurnRate)
	emissionRate := nonNegative(cfg.MonthlyEmissionRate)
	decay := nonNegative(cfg.AnnualEmissionDecay)

	points := make([]domain.SupplyPoint, 0, months+1)
	for month := 0; month <= months; month++ {
		burned := supply * burnRate
		emitted := supply * emissionRate * math.Pow(decay, float64(month)/domain.MonthsPerYear)
		supply = math.Max(0, supply-burned+emitted)

		points = append(points, domain.SupplyPoint{
			Month:   month,
			Supply:  supply,
			Burned:  burned,
			Emitted: emitted,
		})
	}
	return points
}

// Summary aggregates a projection.
type Summary struct {
	StartSupply      float64 `json:"startSupply"`
	EndSupply        float64 `json:"endSupply"`
	TotalBurned      float64 `json:"totalBurned"`
	TotalEmitted     float64 `json:"totalEmitted"`
	NetChangePercent float64 `json:"netChangePercent"`
	// FirstNetEmissionMonth is the first month where emission exceeds burn,
	// or -1 if the supply contracts every month.
	FirstNetEmissionMonth int `json:"firstNetEmissionMonth"`
}

// Summarize computes totals over points. start is the seed supply the
// projection began from.
func Summarize(start float64, points []domain.SupplyPoint) Summary {
	s := Summary{
		StartSupply:           start,
		EndSupply:             start,
		FirstNetEmissionMonth: -1,
	}
	for _, p := range points {
		s.TotalBurned += p.Burned
		s.TotalEmitted += p.Emitted
		if s.FirstNetEmissionMonth < 0 && p.Emitted > p.Burned {
			s.FirstNetEmissionMonth = p.Month
		}
	}
	if len(points) > 0 {
		s.EndSupply = points[len(points)-1].Supply
	}
	if start > 0 {
		s.NetChangePercent = (s.EndSupply - start) / start * 100
	}
	return s
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
