package reporting

import (
	"fmt"
	"strings"

	"quanta-tokenomics/internal/domain"
)

// RenderPowerLawCSV renders the reward distribution as CSV string.
func RenderPowerLawCSV(points []domain.PowerLawPoint) string {
	var sb strings.Builder

	// Header
	sb.WriteString("rank,reward_percent,cumulative_percent\n")

	// Rows
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("%d,%.6f,%.6f\n", p.Rank, p.RewardPercent, p.CumulativePercent))
	}

	return sb.String()
}

// RenderSupplyCSV renders the supply projection as CSV string.
func RenderSupplyCSV(points []domain.SupplyPoint) string {
	var sb strings.Builder

	sb.WriteString("month,supply,burned,emitted\n")
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("%d,%.2f,%.2f,%.2f\n", p.Month, p.Supply, p.Burned, p.Emitted))
	}

	return sb.String()
}

// RenderBurnCurveCSV renders a budget burn curve as CSV string.
func RenderBurnCurveCSV(points []domain.BurnCurvePoint) string {
	var sb strings.Builder

	sb.WriteString("month,burn,cumulative\n")
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("%d,%.2f,%.2f\n", p.Month, p.Burn, p.Cumulative))
	}

	return sb.String()
}

// RenderTiersCSV renders the tier distribution as CSV string.
func RenderTiersCSV(tiers []domain.TierSlice) string {
	var sb strings.Builder

	sb.WriteString("tier,percent,count\n")
	for _, t := range tiers {
		sb.WriteString(fmt.Sprintf("%s,%.2f,%d\n", t.Name, t.Percent, t.Count))
	}

	return sb.String()
}
