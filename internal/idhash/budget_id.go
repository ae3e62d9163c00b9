package idhash

import (
	"fmt"

	"quanta-tokenomics/internal/domain"
)

// ComputeBudgetID computes a deterministic ID for a budget calculation.
// Formula: SHA256(preset_id|grant|api|dev|infra|team|market_data_tier)
// Returns the base58-encoded hash.
func ComputeBudgetID(presetID string, adj domain.CostAdjustments) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		presetID,
		formatFloat(adj.GrantOffset),
		formatFloat(adj.APIRevenueOffset),
		formatFloat(adj.DevScalePercent),
		formatFloat(adj.InfraScalePercent),
		formatFloat(adj.TeamScalePercent),
		adj.MarketDataTier,
	)
	return encode(data)
}
