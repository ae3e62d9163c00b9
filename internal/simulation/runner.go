// Package simulation runs the tokenomics engine behind a validation boundary,
// memoising results by scenario ID.
package simulation

import (
	"context"
	"fmt"
	"time"

	"quanta-tokenomics/internal/budget"
	"quanta-tokenomics/internal/distribution"
	"quanta-tokenomics/internal/domain"
	"quanta-tokenomics/internal/economics"
	"quanta-tokenomics/internal/idhash"
	"quanta-tokenomics/internal/observability"
	"quanta-tokenomics/internal/supply"
)

// DefaultCacheSize is used when RunnerOptions.CacheSize is not positive.
const DefaultCacheSize = 256

// Computation kinds used as metric labels.
const (
	KindSimulate = "simulate"
	KindBudget   = "budget"
	KindPowerLaw = "power_law"
	KindSupply   = "supply"
)

// Runner validates inputs and runs the engine.
// Safe for concurrent use.
type Runner struct {
	cache   *resultCache
	metrics *observability.Metrics
	now     func() time.Time
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	CacheSize int
	Metrics   *observability.Metrics // optional
	Now       func() time.Time       // optional, for latency measurement
}

// NewRunner creates a simulation runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := newResultCache(size)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{cache: cache, metrics: opts.Metrics, now: now}, nil
}

// Simulate runs the full engine for p.
// Steps:
//  1. Validate parameters at package boundary
//  2. Compute deterministic scenario ID
//  3. Return cached result if present
//  4. Compute epoch waterfall
//  5. Roll up to monthly
//  6. Build tier distribution
//  7. Cache result
func (r *Runner) Simulate(ctx context.Context, p domain.EconomicParameters) (*domain.Simulation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := r.now()

	// 1. Validate
	if err := p.Validate(); err != nil {
		r.metrics.RecordComputationError(KindSimulate)
		return nil, err
	}

	// 2. Scenario ID
	id := idhash.ComputeScenarioID(p)

	// 3. Cache
	if sim, ok := r.cache.get(id); ok {
		r.metrics.RecordCache(true)
		return sim, nil
	}
	r.metrics.RecordCache(false)

	// 4-6. Engine
	epoch := economics.ComputeEpoch(p)
	sim := &domain.Simulation{
		ScenarioID: id,
		Params:     p,
		Epoch:      epoch,
		Monthly:    economics.ComputeMonthly(epoch, p),
		Tiers:      economics.TierDistribution(p),
	}

	// 7. Cache
	r.cache.add(id, sim)

	r.metrics.RecordComputation(KindSimulate, r.since(start))
	return clone(sim), nil
}

// Epoch validates p and computes one epoch.
func (r *Runner) Epoch(ctx context.Context, p domain.EconomicParameters) (domain.EpochResult, error) {
	sim, err := r.Simulate(ctx, p)
	if err != nil {
		return domain.EpochResult{}, err
	}
	return sim.Epoch, nil
}

// Monthly validates p and computes the monthly rollup.
func (r *Runner) Monthly(ctx context.Context, p domain.EconomicParameters) (domain.MonthlyResult, error) {
	sim, err := r.Simulate(ctx, p)
	if err != nil {
		return domain.MonthlyResult{}, err
	}
	return sim.Monthly, nil
}

// Budget computes the financial model for a preset and its burn curve.
// Returns budget.ErrUnknownPreset for an unknown preset.
func (r *Runner) Budget(ctx context.Context, presetID string, adj domain.CostAdjustments) (*domain.BudgetResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := r.now()

	adj = budget.SanitizeAdjustments(adj)
	calc, err := budget.Compute(presetID, adj)
	if err != nil {
		r.metrics.RecordComputationError(KindBudget)
		return nil, err
	}

	res := &domain.BudgetResult{
		BudgetID:    idhash.ComputeBudgetID(presetID, adj),
		Adjustments: adj,
		Calculation: calc,
		BurnCurve:   budget.BurnCurve(calc),
	}
	r.metrics.RecordComputation(KindBudget, r.since(start))
	return res, nil
}

// PowerLaw generates the rank-reward distribution.
// gamma must be finite and non-negative; n must be in [1, MaxPowerLawRanks].
func (r *Runner) PowerLaw(ctx context.Context, gamma float64, n int) ([]domain.PowerLawPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validatePowerLaw(gamma, n); err != nil {
		r.metrics.RecordComputationError(KindPowerLaw)
		return nil, err
	}
	start := r.now()
	points := distribution.GeneratePowerLaw(gamma, n)
	r.metrics.RecordComputation(KindPowerLaw, r.since(start))
	return points, nil
}

// Supply projects supply for months 0..months under the default config.
// months must be in [0, MaxSupplyMonths].
func (r *Runner) Supply(ctx context.Context, months int) ([]domain.SupplyPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if months < 0 || months > MaxSupplyMonths {
		r.metrics.RecordComputationError(KindSupply)
		return nil, fmt.Errorf("%w: months must be in [0,%d], got %d", domain.ErrInvalidInput, MaxSupplyMonths, months)
	}
	start := r.now()
	points := supply.ProjectSupply(months)
	r.metrics.RecordComputation(KindSupply, r.since(start))
	return points, nil
}

func (r *Runner) since(start time.Time) float64 {
	return r.now().Sub(start).Seconds()
}

// clone copies the slice fields so callers cannot mutate cached results.
func clone(sim *domain.Simulation) *domain.Simulation {
	out := *sim
	out.Tiers = append([]domain.TierSlice(nil), sim.Tiers...)
	return &out
}
