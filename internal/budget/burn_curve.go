package budget

import "quanta-tokenomics/internal/domain"

// BurnCurve returns monthly spend for months 1..18:
//
//	months 1-3   alpha/3 per month
//	months 4-6   beta/3 per month, on top of alpha
//	months 7-18  steady-state monthly burn, on top of alpha+beta
//
// Cumulative spend is computed from phase totals rather than accumulated, so
// month 3 equals alpha and month 6 equals alpha+beta exactly.
func BurnCurve(calc domain.FinancialCalculation) []domain.BurnCurvePoint {
	alpha := calc.AdjustedAlpha
	beta := calc.AdjustedBeta
	alphaEnd := domain.AlphaPhaseMonths
	betaEnd := domain.AlphaPhaseMonths + domain.BetaPhaseMonths

	points := make([]domain.BurnCurvePoint, domain.BurnCurveMonths)
	for i := range points {
		month := i + 1
		p := domain.BurnCurvePoint{Month: month}

		switch {
		case month <= alphaEnd:
			p.Burn = alpha / domain.AlphaPhaseMonths
			p.Cumulative = alpha * float64(month) / domain.AlphaPhaseMonths
		case month <= betaEnd:
			p.Burn = beta / domain.BetaPhaseMonths
			p.Cumulative = alpha + beta*float64(month-alphaEnd)/domain.BetaPhaseMonths
		default:
			p.Burn = calc.MonthlyBurn
			p.Cumulative = alpha + beta + calc.MonthlyBurn*float64(month-betaEnd)
		}
		points[i] = p
	}
	return points
}
