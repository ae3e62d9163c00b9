package reporting

import (
	"time"

	"quanta-tokenomics/internal/domain"
	"quanta-tokenomics/internal/supply"
)

// Report is the tokenomics report for one parameter set.
type Report struct {
	// Metadata
	RunID       string
	GeneratedAt time.Time

	// Engine output
	Simulation *domain.Simulation

	// Reward distribution
	PowerLaw      []domain.PowerLawPoint
	PowerLawGamma float64
	TopShares     []TopShareRow

	// Supply projection
	Supply        []domain.SupplyPoint
	SupplySummary supply.Summary

	// Budget scenarios, in preset display order. When PrimaryPreset is
	// set its row comes first.
	Budgets       []BudgetRow
	PrimaryPreset string
}

// Primary returns the selected budget row, if any.
func (r *Report) Primary() (BudgetRow, bool) {
	for _, row := range r.Budgets {
		if r.PrimaryPreset != "" && row.Preset.ID == r.PrimaryPreset {
			return row, true
		}
	}
	return BudgetRow{}, false
}

// TopShareRow is the cumulative reward of the top K ranks.
type TopShareRow struct {
	K       int
	Percent float64
}

// BudgetRow pairs a preset with its computed budget.
type BudgetRow struct {
	Preset domain.BudgetScenario
	Result *domain.BudgetResult
}
