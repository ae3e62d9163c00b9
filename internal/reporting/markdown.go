package reporting

import (
	"fmt"
	"strings"
	"time"

	"quanta-tokenomics/internal/domain"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# QUANTA Tokenomics Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))

	if r.Simulation != nil {
		writeSimulation(&sb, r.Simulation)
	} else {
		sb.WriteString("No simulation available.\n\n")
	}

	writePowerLaw(&sb, r)
	writeSupply(&sb, r)
	writeBudgets(&sb, r.Budgets, r.PrimaryPreset)

	return sb.String()
}

func writeSimulation(sb *strings.Builder, sim *domain.Simulation) {
	p := sim.Params
	e := sim.Epoch
	m := sim.Monthly

	sb.WriteString(fmt.Sprintf("Scenario: `%s`\n\n", sim.ScenarioID))

	// Parameters
	sb.WriteString("## Parameters\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	for _, f := range domain.Fields() {
		v, _ := p.Field(f)
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", f, formatParam(f, v)))
	}
	sb.WriteString("\n")

	// Epoch waterfall
	sb.WriteString("## Epoch Waterfall\n\n")
	sb.WriteString("| Step | Amount |\n")
	sb.WriteString("|------|--------|\n")
	rows := []struct {
		name   string
		amount float64
	}{
		{"Ante Pool", e.EpochPool},
		{"Network Rake", e.Rake},
		{"After Rake", e.AfterRakePool},
		{"Loser Ante Forfeited", e.LoserAnteForfeited},
		{"Burned", e.Burned},
		{"Redistributed", e.Redistributed},
		{"Break-Even Return", e.BreakEvenReturn},
		{"Surplus Pool", e.SurplusPool},
		{"Pool Operator Fees", e.PoolOperatorFees},
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", row.name, FormatUSD(row.amount)))
	}
	sb.WriteString("\n")

	// Tier outcomes
	sb.WriteString("## Tier Outcomes\n\n")
	sb.WriteString("| Tier | Share | Count | Payout | ROI |\n")
	sb.WriteString("|------|-------|-------|--------|-----|\n")
	sb.WriteString(fmt.Sprintf("| Top Tier (solo) | %s | %s | %s | %s |\n",
		FormatPercent(p.TopTierPercent), FormatCount(e.Counts.TopTier), FormatUSD(e.Payouts.TopTier), FormatPercent(e.ROI.SoloTopTier)))
	sb.WriteString(fmt.Sprintf("| Top Tier (pooled) | %s | %s | %s | %s |\n",
		FormatPercent(p.TopTierPercent), FormatCount(e.Counts.TopTier), FormatUSD(e.Payouts.TopTier), FormatPercent(e.ROI.PooledTopTier)))
	sb.WriteString(fmt.Sprintf("| Profitable | %s | %s | %s | %s |\n",
		FormatPercent(p.ProfitablePercent), FormatCount(e.Counts.Profitable), FormatUSD(e.Payouts.Profitable), FormatPercent(e.ROI.Profitable)))
	sb.WriteString(fmt.Sprintf("| Break-Even | %s | %s | %s | %s |\n",
		FormatPercent(p.BreakEvenPercent), FormatCount(e.Counts.BreakEven), FormatUSD(e.Payouts.BreakEven), FormatPercent(e.ROI.BreakEven)))
	sb.WriteString(fmt.Sprintf("| Penalty | %s | %s | %s | %s |\n",
		FormatPercent(p.LoserPercent), FormatCount(e.Counts.Loser), FormatUSD(0), FormatPercent(e.ROI.Loser)))
	sb.WriteString("\n")

	// Monthly rollup
	sb.WriteString("## Monthly Rollup\n\n")
	sb.WriteString(fmt.Sprintf("Epochs per month: %s\n\n", FormatCount(m.EpochsPerMonth)))
	sb.WriteString("| Metric | Monthly | Annual |\n")
	sb.WriteString("|--------|---------|--------|\n")
	sb.WriteString(fmt.Sprintf("| Ante Pool | %s | %s |\n", FormatUSD(m.AntePool), FormatUSD(m.AntePool*domain.MonthsPerYear)))
	sb.WriteString(fmt.Sprintf("| Core Profit (rake) | %s | %s |\n", FormatUSD(m.Profit.Core), FormatUSD(m.Profit.AnnualCore)))
	sb.WriteString(fmt.Sprintf("| Bonus Profit | %s | %s |\n", FormatUSD(m.Profit.Bonus), FormatUSD(m.Profit.AnnualBonus)))
	sb.WriteString(fmt.Sprintf("| Burned | %s | %s |\n", FormatUSD(m.Burn), FormatUSD(m.Burn*domain.MonthsPerYear)))
	sb.WriteString(fmt.Sprintf("| Total Network Value | %s | %s |\n",
		FormatUSD(m.Profit.TotalNetworkValue), FormatUSD(m.Profit.TotalNetworkValue*domain.MonthsPerYear)))
	sb.WriteString("\n")

	if m.IsAlwaysProfitable {
		sb.WriteString("**Always profitable:** rake is taken before any payout.\n\n")
	} else {
		sb.WriteString("**Not profitable:** no participants or zero rake.\n\n")
	}

	// Emission schedule
	sb.WriteString("## Emission Schedule\n\n")
	sb.WriteString(fmt.Sprintf("Subnet daily emission: %.2f TAO (%s/day)\n\n", m.SubnetDailyTAO, FormatUSD(m.SubnetDailyUSD)))
	sb.WriteString("| Recipient | Monthly |\n")
	sb.WriteString("|-----------|---------|\n")
	sb.WriteString(fmt.Sprintf("| Validators | %s |\n", FormatUSD(m.Emissions.Validators)))
	sb.WriteString(fmt.Sprintf("| Miners | %s |\n", FormatUSD(m.Emissions.Miners)))
	sb.WriteString(fmt.Sprintf("| Owner | %s |\n", FormatUSD(m.Emissions.Owner)))
	sb.WriteString(fmt.Sprintf("| External Revenue | %s |\n", FormatUSD(m.ExternalRevenue)))
	sb.WriteString("\n")
}

func writePowerLaw(sb *strings.Builder, r *Report) {
	sb.WriteString("## Reward Distribution\n\n")
	if len(r.PowerLaw) == 0 {
		sb.WriteString("No reward distribution available.\n\n")
		return
	}
	sb.WriteString(fmt.Sprintf("Power law, gamma %.2f over %d ranks.\n\n", r.PowerLawGamma, len(r.PowerLaw)))
	sb.WriteString("| Top K | Cumulative Share |\n")
	sb.WriteString("|-------|------------------|\n")
	for _, s := range r.TopShares {
		sb.WriteString(fmt.Sprintf("| %d | %s |\n", s.K, FormatPercent(s.Percent)))
	}
	sb.WriteString("\n")
}

func writeSupply(sb *strings.Builder, r *Report) {
	sb.WriteString("## Supply Projection\n\n")
	if len(r.Supply) == 0 {
		sb.WriteString("No supply projection available.\n\n")
		return
	}
	s := r.SupplySummary
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Start Supply | %s |\n", FormatCount(int(s.StartSupply))))
	sb.WriteString(fmt.Sprintf("| End Supply | %s |\n", FormatCount(int(s.EndSupply))))
	sb.WriteString(fmt.Sprintf("| Total Burned | %s |\n", FormatCount(int(s.TotalBurned))))
	sb.WriteString(fmt.Sprintf("| Total Emitted | %s |\n", FormatCount(int(s.TotalEmitted))))
	sb.WriteString(fmt.Sprintf("| Net Change | %s |\n", FormatPercent(s.NetChangePercent)))
	sb.WriteString("\n")

	sb.WriteString("| Month | Supply | Burned | Emitted |\n")
	sb.WriteString("|-------|--------|--------|---------|\n")
	for _, p := range r.Supply {
		if p.Month%domain.MonthsPerYear != 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("| M%d | %s | %s | %s |\n",
			p.Month, FormatCount(int(p.Supply)), FormatCount(int(p.Burned)), FormatCount(int(p.Emitted))))
	}
	sb.WriteString("\n")
}

func writeBudgets(sb *strings.Builder, rows []BudgetRow, primary string) {
	sb.WriteString("## Budget Scenarios\n\n")
	if len(rows) == 0 {
		sb.WriteString("No budget scenarios available.\n\n")
		return
	}
	label := func(row BudgetRow) string {
		if primary != "" && row.Preset.ID == primary {
			return row.Preset.Label + " (selected)"
		}
		return row.Preset.Label
	}
	sb.WriteString("| Scenario | Alpha | Beta | Gross Ops | Net Ops | Total | Monthly Burn | Runway (months) |\n")
	sb.WriteString("|----------|-------|------|-----------|---------|-------|--------------|-----------------|\n")
	for _, row := range rows {
		c := row.Result.Calculation
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %.1f |\n",
			label(row),
			FormatUSD(c.AdjustedAlpha), FormatUSD(c.AdjustedBeta),
			FormatUSD(c.GrossOperations), FormatUSD(c.NetOperations),
			FormatUSD(c.TotalBudget), FormatUSD(c.MonthlyBurn), c.RunwayMonths))
	}
	sb.WriteString("\n")

	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("### %s\n\n", label(row)))
		sb.WriteString(fmt.Sprintf("%s\n\n", row.Preset.Description))
		sb.WriteString("| Operations Line | Amount |\n")
		sb.WriteString("|-----------------|--------|\n")
		for _, it := range row.Result.Calculation.Operations {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", it.Label(), FormatUSD(it.Amount)))
		}
		sb.WriteString("\n")
	}
}

func formatParam(f domain.ParamField, v float64) string {
	if f.IsInteger() {
		return FormatCount(int(v))
	}
	return fmt.Sprintf("%g", v)
}
