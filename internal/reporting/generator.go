package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"quanta-tokenomics/internal/budget"
	"quanta-tokenomics/internal/distribution"
	"quanta-tokenomics/internal/domain"
	"quanta-tokenomics/internal/supply"
)

// Engine is the subset of the simulation runner a report needs.
type Engine interface {
	Simulate(ctx context.Context, p domain.EconomicParameters) (*domain.Simulation, error)
	PowerLaw(ctx context.Context, gamma float64, n int) ([]domain.PowerLawPoint, error)
	Supply(ctx context.Context, months int) ([]domain.SupplyPoint, error)
	Budget(ctx context.Context, presetID string, adj domain.CostAdjustments) (*domain.BudgetResult, error)
}

// topShareRanks are the K values reported for the power-law curve.
var topShareRanks = []int{1, 5, 10, 25}

// Generator produces reports from the engine.
type Generator struct {
	engine Engine
	now     func() time.Time // Injectable clock for deterministic output
	newID   func() string
	primary string
}

// NewGenerator creates a new report generator.
func NewGenerator(engine Engine) *Generator {
	return &Generator{
		engine: engine,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.NewString() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithRunID fixes the run ID for deterministic output.
func (g *Generator) WithRunID(id string) *Generator {
	g.newID = func() string { return id }
	return g
}

// WithPrimaryPreset selects the budget preset the report leads with.
// An empty id keeps the plain preset display order.
func (g *Generator) WithPrimaryPreset(id string) *Generator {
	g.primary = id
	return g
}

// Generate produces a complete report for p, with every budget preset
// computed under adj.
func (g *Generator) Generate(ctx context.Context, p domain.EconomicParameters, adj domain.CostAdjustments) (*Report, error) {
	sim, err := g.engine.Simulate(ctx, p)
	if err != nil {
		return nil, err
	}

	points, err := g.engine.PowerLaw(ctx, domain.DefaultPowerLawGamma, domain.DefaultPowerLawRanks)
	if err != nil {
		return nil, err
	}
	shares := make([]TopShareRow, 0, len(topShareRanks))
	for _, k := range topShareRanks {
		shares = append(shares, TopShareRow{K: k, Percent: distribution.TopShare(points, k)})
	}

	projection, err := g.engine.Supply(ctx, domain.DefaultSupplyMonths)
	if err != nil {
		return nil, err
	}

	budgets := make([]BudgetRow, 0, len(budget.PresetIDs()))
	for _, preset := range budget.Presets() {
		res, err := g.engine.Budget(ctx, preset.ID, adj)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, BudgetRow{Preset: preset, Result: res})
	}
	if g.primary != "" {
		if budgets, err = promote(budgets, g.primary); err != nil {
			return nil, err
		}
	}

	return &Report{
		RunID:         g.newID(),
		GeneratedAt:   g.now(),
		Simulation:    sim,
		PowerLaw:      points,
		PowerLawGamma: domain.DefaultPowerLawGamma,
		TopShares:     shares,
		Supply:        projection,
		SupplySummary: supply.Summarize(domain.InitialSupply, projection),
		Budgets:       budgets,
		PrimaryPreset: g.primary,
	}, nil
}

// promote moves the row for id to the front, keeping the rest in order.
func promote(rows []BudgetRow, id string) ([]BudgetRow, error) {
	for i, row := range rows {
		if row.Preset.ID != id {
			continue
		}
		out := make([]BudgetRow, 0, len(rows))
		out = append(out, row)
		out = append(out, rows[:i]...)
		return append(out, rows[i+1:]...), nil
	}
	return nil, fmt.Errorf("%w: %q", budget.ErrUnknownPreset, id)
}
