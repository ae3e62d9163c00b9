package budget

import (
	"fmt"

	"quanta-tokenomics/internal/domain"
)

// presetIDs fixes the display order.
var presetIDs = []string{domain.PresetLean, domain.PresetBalanced, domain.PresetBestCase}

// Presets returns the three built-in scenarios in display order.
// Each call returns fresh copies.
func Presets() []domain.BudgetScenario {
	out := make([]domain.BudgetScenario, 0, len(presetIDs))
	for _, id := range presetIDs {
		s, _ := Preset(id)
		out = append(out, s)
	}
	return out
}

// PresetIDs returns the preset IDs in display order.
func PresetIDs() []string {
	out := make([]string, len(presetIDs))
	copy(out, presetIDs)
	return out
}

// Preset returns a copy of the named preset.
func Preset(id string) (domain.BudgetScenario, error) {
	switch id {
	case domain.PresetLean:
		return leanPreset(), nil
	case domain.PresetBalanced:
		return balancedPreset(), nil
	case domain.PresetBestCase:
		return bestCasePreset(), nil
	}
	return domain.BudgetScenario{}, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
}

func leanPreset() domain.BudgetScenario {
	return domain.BudgetScenario{
		ID:          domain.PresetLean,
		Label:       "Lean",
		Description: "Solo founder, AI-assisted dev",
		Alpha: phase(
			item(domain.CostCoreDev, 15000),
			item(domain.CostMarketData, 2000),
			item(domain.CostTesting, 1500),
			item(domain.CostInfrastructure, 500),
			item(domain.CostSecurity, 0),
			item(domain.CostLegal, 0),
			item(domain.CostContingency, 1900),
		),
		Beta: phase(
			item(domain.CostDevRefinement, 10000),
			item(domain.CostSecurityAudit, 5000),
			item(domain.CostPolygonLicense, 6000),
			item(domain.CostInfrastructure, 2000),
			item(domain.CostLegal, 3000),
			item(domain.CostContingency, 2600),
		),
		Operations: operations(0, 0,
			item(domain.CostMarketData, 12000),
			item(domain.CostInfrastructure, 8000),
			item(domain.CostContractDev, 30000),
			item(domain.CostDevOps, 6000),
			item(domain.CostLegal, 8000),
			item(domain.CostSecurity, 4000),
			item(domain.CostMarketing, 3000),
			item(domain.CostInsurance, 2000),
			item(domain.CostMisc, 5000),
		),
		Seed:        20900,
		MonthlyBurn: 6500,
	}
}

func balancedPreset() domain.BudgetScenario {
	return domain.BudgetScenario{
		ID:          domain.PresetBalanced,
		Label:       "Balanced",
		Description: "Small team (1-2), standard tooling",
		Alpha: phase(
			item(domain.CostCoreDev, 25000),
			item(domain.CostMarketData, 5000),
			item(domain.CostTesting, 4000),
			item(domain.CostInfrastructure, 1000),
			item(domain.CostSecurity, 3000),
			item(domain.CostLegal, 2000),
			item(domain.CostContingency, 4000),
		),
		Beta: phase(
			item(domain.CostDevRefinement, 18000),
			item(domain.CostSecurityAudit, 12000),
			item(domain.CostPolygonLicense, 9000),
			item(domain.CostInfrastructure, 4000),
			item(domain.CostLegal, 7000),
			item(domain.CostContingency, 5000),
		),
		Operations: operations(25000, 6000,
			item(domain.CostMarketData, 15000),
			item(domain.CostInfrastructure, 15000),
			item(domain.CostContractDev, 50000),
			item(domain.CostDevOps, 12000),
			item(domain.CostLegal, 12000),
			item(domain.CostSecurity, 8000),
			item(domain.CostMarketing, 8000),
			item(domain.CostInsurance, 4000),
			item(domain.CostMisc, 10000),
		),
		Seed:        44000,
		MonthlyBurn: 8583,
	}
}

func bestCasePreset() domain.BudgetScenario {
	return domain.BudgetScenario{
		ID:          domain.PresetBestCase,
		Label:       "Best-Case",
		Description: "Full team, premium services",
		Alpha: phase(
			item(domain.CostCoreDev, 35000),
			item(domain.CostMarketData, 8000),
			item(domain.CostTesting, 7000),
			item(domain.CostInfrastructure, 2000),
			item(domain.CostSecurity, 8000),
			item(domain.CostLegal, 5000),
			item(domain.CostContingency, 6500),
		),
		Beta: phase(
			item(domain.CostDevRefinement, 25000),
			item(domain.CostSecurityAudit, 20000),
			item(domain.CostPolygonLicense, 12000),
			item(domain.CostInfrastructure, 6000),
			item(domain.CostLegal, 12000),
			item(domain.CostContingency, 7500),
		),
		Operations: operations(50000, 18000,
			item(domain.CostMarketData, 18000),
			item(domain.CostInfrastructure, 24000),
			item(domain.CostContractDev, 72000),
			item(domain.CostDevOps, 18000),
			item(domain.CostLegal, 18000),
			item(domain.CostSecurity, 15000),
			item(domain.CostMarketing, 15000),
			item(domain.CostInsurance, 6000),
			item(domain.CostMisc, 15000),
		),
		Seed:        71500,
		MonthlyBurn: 11083,
	}
}

func item(key string, amount float64) domain.CostItem {
	return domain.CostItem{Key: key, Amount: amount}
}

func phase(items ...domain.CostItem) domain.CostPhase {
	return domain.CostPhase{Total: total(items), Breakdown: items}
}

func operations(grant, api float64, items ...domain.CostItem) domain.OperationsBudget {
	return domain.OperationsBudget{
		Gross:       total(items),
		Breakdown:   items,
		GrantOffset: grant,
		APIOffset:   api,
	}
}

func total(items []domain.CostItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Amount
	}
	return sum
}
