// Package verification recomputes stored simulations and checks that the
// results still match and still satisfy the engine invariants.
package verification

import (
	"context"
	"errors"
	"fmt"
	"math"

	"quanta-tokenomics/internal/domain"
	"quanta-tokenomics/internal/idhash"
)

// FloatTolerance is the tolerance for float64 comparisons.
const FloatTolerance = 1e-7

// ErrNoSimulation is returned when there is nothing to verify.
var ErrNoSimulation = errors.New("no simulation to verify")

// FieldDivergence represents a mismatch between stored and recomputed values.
type FieldDivergence struct {
	Field    string `json:"field"`
	Expected any    `json:"expected"` // stored value
	Actual   any    `json:"actual"`   // recomputed value
}

// Result contains the outcome of verifying one simulation.
type Result struct {
	ScenarioID  string            `json:"scenarioId"` // recomputed ID
	Match       bool              `json:"match"`      // no divergences and no violations
	Divergences []FieldDivergence `json:"divergences,omitempty"`
	Violations  []string          `json:"violations,omitempty"`
}

// Engine recomputes a simulation from its parameters.
type Engine interface {
	Simulate(ctx context.Context, p domain.EconomicParameters) (*domain.Simulation, error)
}

// Verify recomputes stored from its parameters.
// Steps:
//  1. Recompute (parameters are validated by the engine)
//  2. Compare scenario ID
//  3. Compare every numeric field within FloatTolerance
//  4. Check invariants on the recomputed result
func Verify(ctx context.Context, engine Engine, stored *domain.Simulation) (*Result, error) {
	if stored == nil {
		return nil, ErrNoSimulation
	}

	// 1. Recompute
	replayed, err := engine.Simulate(ctx, stored.Params)
	if err != nil {
		return nil, fmt.Errorf("recompute: %w", err)
	}

	res := &Result{ScenarioID: replayed.ScenarioID}

	// 2. Scenario ID
	if stored.ScenarioID != "" && stored.ScenarioID != replayed.ScenarioID {
		res.Divergences = append(res.Divergences, FieldDivergence{
			Field:    "scenarioId",
			Expected: stored.ScenarioID,
			Actual:   replayed.ScenarioID,
		})
	}

	// 3. Fields
	res.Divergences = append(res.Divergences, CompareSimulations(stored, replayed)...)

	// 4. Invariants
	res.Violations = CheckInvariants(replayed)

	res.Match = len(res.Divergences) == 0 && len(res.Violations) == 0
	return res, nil
}

// CompareSimulations compares two simulations field by field.
// Uses FloatTolerance for float64 comparisons.
func CompareSimulations(stored, replayed *domain.Simulation) []FieldDivergence {
	var divergences []FieldDivergence

	for _, f := range floatFields {
		a, b := f.get(stored), f.get(replayed)
		if !floatEquals(a, b) {
			divergences = append(divergences, FieldDivergence{Field: f.name, Expected: a, Actual: b})
		}
	}

	// Counts must match exactly
	if stored.Epoch.Counts != replayed.Epoch.Counts {
		divergences = append(divergences, FieldDivergence{
			Field:    "epoch.counts",
			Expected: stored.Epoch.Counts,
			Actual:   replayed.Epoch.Counts,
		})
	}
	if stored.Epoch.PooledGenerators != replayed.Epoch.PooledGenerators {
		divergences = append(divergences, FieldDivergence{
			Field:    "epoch.pooledGenerators",
			Expected: stored.Epoch.PooledGenerators,
			Actual:   replayed.Epoch.PooledGenerators,
		})
	}
	if stored.Monthly.EpochsPerMonth != replayed.Monthly.EpochsPerMonth {
		divergences = append(divergences, FieldDivergence{
			Field:    "monthly.epochsPerMonth",
			Expected: stored.Monthly.EpochsPerMonth,
			Actual:   replayed.Monthly.EpochsPerMonth,
		})
	}
	if stored.Monthly.IsAlwaysProfitable != replayed.Monthly.IsAlwaysProfitable {
		divergences = append(divergences, FieldDivergence{
			Field:    "monthly.isAlwaysProfitable",
			Expected: stored.Monthly.IsAlwaysProfitable,
			Actual:   replayed.Monthly.IsAlwaysProfitable,
		})
	}

	// Tier slices
	if len(stored.Tiers) != len(replayed.Tiers) {
		divergences = append(divergences, FieldDivergence{
			Field:    "tiers",
			Expected: len(stored.Tiers),
			Actual:   len(replayed.Tiers),
		})
		return divergences
	}
	for i := range stored.Tiers {
		s, r := stored.Tiers[i], replayed.Tiers[i]
		if s.Name != r.Name || s.Count != r.Count || !floatEquals(s.Percent, r.Percent) {
			divergences = append(divergences, FieldDivergence{
				Field:    fmt.Sprintf("tiers[%d]", i),
				Expected: s,
				Actual:   r,
			})
		}
	}

	return divergences
}

// CheckInvariants returns a description of every invariant sim violates.
func CheckInvariants(sim *domain.Simulation) []string {
	var violations []string
	e, m, p := sim.Epoch, sim.Monthly, sim.Params

	if !p.IsBalanced() {
		violations = append(violations, fmt.Sprintf("tier percentages sum to %v, want 100", p.Sum()))
	}
	if id := idhash.ComputeScenarioID(p); sim.ScenarioID != id {
		violations = append(violations, fmt.Sprintf("scenario ID %q does not match parameters (%q)", sim.ScenarioID, id))
	}

	for _, f := range floatFields {
		if f.signed {
			continue
		}
		if v := f.get(sim); v < 0 {
			violations = append(violations, fmt.Sprintf("%s is negative: %v", f.name, v))
		}
	}

	if e.Burned+e.Redistributed != e.LoserAnteForfeited {
		violations = append(violations, fmt.Sprintf("burned + redistributed = %v, forfeited = %v",
			e.Burned+e.Redistributed, e.LoserAnteForfeited))
	}
	if !floatEquals(e.AfterRakePool, e.EpochPool-e.Rake) {
		violations = append(violations, fmt.Sprintf("after-rake pool %v != pool %v - rake %v",
			e.AfterRakePool, e.EpochPool, e.Rake))
	}
	if e.EpochPool > 0 && p.NetworkRakePercent > 0 && e.Rake <= 0 {
		violations = append(violations, "rake is zero with a positive pool and rake percent")
	}
	if m.IsAlwaysProfitable && m.Profit.Core <= 0 {
		violations = append(violations, "core profit is not positive while always profitable")
	}

	return violations
}

// floatField reads one numeric output of a simulation.
type floatField struct {
	name   string
	get    func(*domain.Simulation) float64
	signed bool // may legitimately be negative (ROI)
}

var floatFields = []floatField{
	{name: "epoch.anteValue", get: func(s *domain.Simulation) float64 { return s.Epoch.AnteValue }},
	{name: "epoch.epochPool", get: func(s *domain.Simulation) float64 { return s.Epoch.EpochPool }},
	{name: "epoch.rake", get: func(s *domain.Simulation) float64 { return s.Epoch.Rake }},
	{name: "epoch.afterRakePool", get: func(s *domain.Simulation) float64 { return s.Epoch.AfterRakePool }},
	{name: "epoch.loserAnteForfeited", get: func(s *domain.Simulation) float64 { return s.Epoch.LoserAnteForfeited }},
	{name: "epoch.burned", get: func(s *domain.Simulation) float64 { return s.Epoch.Burned }},
	{name: "epoch.redistributed", get: func(s *domain.Simulation) float64 { return s.Epoch.Redistributed }},
	{name: "epoch.breakEvenReturn", get: func(s *domain.Simulation) float64 { return s.Epoch.BreakEvenReturn }},
	{name: "epoch.surplusPool", get: func(s *domain.Simulation) float64 { return s.Epoch.SurplusPool }},
	{name: "epoch.topTierShare", get: func(s *domain.Simulation) float64 { return s.Epoch.TopTierShare }},
	{name: "epoch.profitableShare", get: func(s *domain.Simulation) float64 { return s.Epoch.ProfitableShare }},
	{name: "epoch.payouts.topTier", get: func(s *domain.Simulation) float64 { return s.Epoch.Payouts.TopTier }},
	{name: "epoch.payouts.profitable", get: func(s *domain.Simulation) float64 { return s.Epoch.Payouts.Profitable }},
	{name: "epoch.payouts.breakEven", get: func(s *domain.Simulation) float64 { return s.Epoch.Payouts.BreakEven }},
	{name: "epoch.roi.soloTopTier", get: func(s *domain.Simulation) float64 { return s.Epoch.ROI.SoloTopTier }, signed: true},
	{name: "epoch.roi.pooledTopTier", get: func(s *domain.Simulation) float64 { return s.Epoch.ROI.PooledTopTier }, signed: true},
	{name: "epoch.roi.profitable", get: func(s *domain.Simulation) float64 { return s.Epoch.ROI.Profitable }, signed: true},
	{name: "epoch.roi.breakEven", get: func(s *domain.Simulation) float64 { return s.Epoch.ROI.BreakEven }, signed: true},
	{name: "epoch.roi.loser", get: func(s *domain.Simulation) float64 { return s.Epoch.ROI.Loser }, signed: true},
	{name: "epoch.poolOperatorFees", get: func(s *domain.Simulation) float64 { return s.Epoch.PoolOperatorFees }},

	{name: "monthly.antePool", get: func(s *domain.Simulation) float64 { return s.Monthly.AntePool }},
	{name: "monthly.rake", get: func(s *domain.Simulation) float64 { return s.Monthly.Rake }},
	{name: "monthly.burn", get: func(s *domain.Simulation) float64 { return s.Monthly.Burn }},
	{name: "monthly.poolOperatorFees", get: func(s *domain.Simulation) float64 { return s.Monthly.PoolOperatorFees }},
	{name: "monthly.subnetDailyTao", get: func(s *domain.Simulation) float64 { return s.Monthly.SubnetDailyTAO }},
	{name: "monthly.subnetDailyUsd", get: func(s *domain.Simulation) float64 { return s.Monthly.SubnetDailyUSD }},
	{name: "monthly.emissions.validators", get: func(s *domain.Simulation) float64 { return s.Monthly.Emissions.Validators }},
	{name: "monthly.emissions.miners", get: func(s *domain.Simulation) float64 { return s.Monthly.Emissions.Miners }},
	{name: "monthly.emissions.owner", get: func(s *domain.Simulation) float64 { return s.Monthly.Emissions.Owner }},
	{name: "monthly.emissions.total", get: func(s *domain.Simulation) float64 { return s.Monthly.Emissions.Total }},
	{name: "monthly.externalRevenue", get: func(s *domain.Simulation) float64 { return s.Monthly.ExternalRevenue }},
	{name: "monthly.profit.core", get: func(s *domain.Simulation) float64 { return s.Monthly.Profit.Core }},
	{name: "monthly.profit.bonus", get: func(s *domain.Simulation) float64 { return s.Monthly.Profit.Bonus }},
	{name: "monthly.profit.totalNetworkValue", get: func(s *domain.Simulation) float64 { return s.Monthly.Profit.TotalNetworkValue }},
	{name: "monthly.profit.annualCore", get: func(s *domain.Simulation) float64 { return s.Monthly.Profit.AnnualCore }},
	{name: "monthly.profit.annualBonus", get: func(s *domain.Simulation) float64 { return s.Monthly.Profit.AnnualBonus }},
	{name: "monthly.flow.rakePercent", get: func(s *domain.Simulation) float64 { return s.Monthly.Flow.RakePercent }},
	{name: "monthly.flow.burnPercent", get: func(s *domain.Simulation) float64 { return s.Monthly.Flow.BurnPercent }},
	{name: "monthly.flow.redistributePercent", get: func(s *domain.Simulation) float64 { return s.Monthly.Flow.RedistributePercent }},
}

// floatEquals compares two float64 values within FloatTolerance,
// scaled for large monetary values.
func floatEquals(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff <= FloatTolerance {
		return true
	}
	return diff <= FloatTolerance*math.Max(math.Abs(a), math.Abs(b))
}
