// Package budget computes the development and operations budget for a cost
// preset under slider adjustments, and the resulting 18-month burn curve.
package budget

import (
	"math"

	"quanta-tokenomics/internal/domain"
)

// Compute looks up presetID and derives its budget under adj.
func Compute(presetID string, adj domain.CostAdjustments) (domain.FinancialCalculation, error) {
	s, err := Preset(presetID)
	if err != nil {
		return domain.FinancialCalculation{}, err
	}
	return ComputeScenario(s, adj), nil
}

// ComputeScenario derives the budget for s.
//
//   - Alpha and beta totals scale by the dev multiplier, rounded to whole dollars.
//   - Operations scale per category: infrastructure and devOps by the infra
//     multiplier, contractDev by the team multiplier. Market data switches
//     between the preset amount and the fixed Tiingo tier. Other lines are
//     fixed.
//   - Net operations = gross - (grant + API revenue), floored at 0.
//   - Runway is alpha / monthly burn, with a zero burn treated as 1.
//
// Scales are clamped to [50,150] and offsets to >= 0.
func ComputeScenario(s domain.BudgetScenario, adj domain.CostAdjustments) domain.FinancialCalculation {
	adj = SanitizeAdjustments(adj)
	devScale := adj.DevScalePercent / 100
	infraScale := adj.InfraScalePercent / 100
	teamScale := adj.TeamScalePercent / 100

	calc := domain.FinancialCalculation{
		PresetID:       s.ID,
		AdjustedAlpha:  math.Round(s.Alpha.Total * devScale),
		AdjustedBeta:   math.Round(s.Beta.Total * devScale),
		AlphaBreakdown: scaleAll(s.Alpha.Breakdown, devScale),
		BetaBreakdown:  scaleAll(s.Beta.Breakdown, devScale),
	}

	calc.Operations = make([]domain.CostItem, 0, len(s.Operations.Breakdown))
	for _, it := range s.Operations.Breakdown {
		switch it.Key {
		case domain.CostMarketData:
			if adj.MarketDataTier == domain.MarketDataTiingo {
				it.Amount = domain.TiingoAnnualCost
			}
		case domain.CostInfrastructure, domain.CostDevOps:
			it.Amount = math.Round(it.Amount * infraScale)
		case domain.CostContractDev:
			it.Amount = math.Round(it.Amount * teamScale)
		}
		calc.Operations = append(calc.Operations, it)
		calc.GrossOperations += it.Amount
	}

	calc.TotalOffsets = adj.GrantOffset + adj.APIRevenueOffset
	calc.NetOperations = math.Max(0, calc.GrossOperations-calc.TotalOffsets)

	calc.TotalBudget = calc.AdjustedAlpha + calc.AdjustedBeta + calc.NetOperations
	calc.MonthlyBurn = calc.NetOperations / domain.MonthsPerYear

	burn := calc.MonthlyBurn
	if burn == 0 {
		burn = 1
	}
	calc.RunwayMonths = calc.AdjustedAlpha / burn

	unadjusted := s.Alpha.Total + s.Beta.Total + s.Operations.Gross
	calc.Savings = unadjusted - calc.TotalBudget - calc.TotalOffsets

	return calc
}

// SanitizeAdjustments clamps the scale sliders to [50,150], floors offsets
// at 0 and falls back to the preset market-data tier for unknown values.
func SanitizeAdjustments(adj domain.CostAdjustments) domain.CostAdjustments {
	adj.DevScalePercent = clampScale(adj.DevScalePercent)
	adj.InfraScalePercent = clampScale(adj.InfraScalePercent)
	adj.TeamScalePercent = clampScale(adj.TeamScalePercent)
	adj.GrantOffset = nonNegative(adj.GrantOffset)
	adj.APIRevenueOffset = nonNegative(adj.APIRevenueOffset)
	if adj.MarketDataTier != domain.MarketDataTiingo {
		adj.MarketDataTier = domain.MarketDataPolygon
	}
	return adj
}

func scaleAll(items []domain.CostItem, scale float64) []domain.CostItem {
	out := make([]domain.CostItem, len(items))
	for i, it := range items {
		out[i] = domain.CostItem{Key: it.Key, Amount: math.Round(it.Amount * scale)}
	}
	return out
}

func clampScale(v float64) float64 {
	if math.IsNaN(v) {
		return domain.DefaultScalePercent
	}
	return math.Min(domain.MaxCostScalePercent, math.Max(domain.MinCostScalePercent, v))
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
