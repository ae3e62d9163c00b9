package simulation

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quanta-tokenomics/internal/budget"
	"quanta-tokenomics/internal/domain"
	"quanta-tokenomics/internal/observability"
)

func newTestRunner(t *testing.T) (*Runner, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetrics("test", prometheus.NewRegistry())
	r, err := NewRunner(RunnerOptions{CacheSize: 4, Metrics: m})
	require.NoError(t, err)
	return r, m
}

func TestRunner_Simulate_ExampleScenario(t *testing.T) {
	r, _ := newTestRunner(t)

	sim, err := r.Simulate(context.Background(), domain.DefaultParameters())
	require.NoError(t, err)

	assert.NotEmpty(t, sim.ScenarioID)
	assert.InDelta(t, 15000, sim.Epoch.EpochPool, 1e-9)
	assert.InDelta(t, 1200, sim.Epoch.Rake, 1e-9)
	assert.Equal(t, 720, sim.Monthly.EpochsPerMonth)
	assert.True(t, sim.Monthly.IsAlwaysProfitable)
	assert.Len(t, sim.Tiers, 4)
}

func TestRunner_Simulate_Deterministic(t *testing.T) {
	// Run multiple times on fresh runners, verify same output
	var first *domain.Simulation
	for run := 0; run < 5; run++ {
		r, _ := newTestRunner(t)
		sim, err := r.Simulate(context.Background(), domain.DefaultParameters())
		require.NoError(t, err)
		if first == nil {
			first = sim
			continue
		}
		assert.Equal(t, first, sim, "run %d", run)
	}
}

func TestRunner_Simulate_CacheHit(t *testing.T) {
	r, m := newTestRunner(t)
	ctx := context.Background()
	p := domain.DefaultParameters()

	a, err := r.Simulate(ctx, p)
	require.NoError(t, err)
	b, err := r.Simulate(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses))
	assert.Equal(t, 1, r.cache.size())
}

func TestRunner_Simulate_CachedResultIsolated(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()

	a, err := r.Simulate(ctx, domain.DefaultParameters())
	require.NoError(t, err)
	a.Tiers[0].Count = -1
	a.Epoch.Rake = -1

	b, err := r.Simulate(ctx, domain.DefaultParameters())
	require.NoError(t, err)
	assert.Equal(t, 50, b.Tiers[0].Count)
	assert.Equal(t, 1200.0, b.Epoch.Rake)
}

func TestRunner_Simulate_Eviction(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		p := domain.DefaultParameters()
		p.TotalSignalGenerators = 100 + i
		_, err := r.Simulate(ctx, p)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, r.cache.size())
}

func TestRunner_Simulate_InvalidInput(t *testing.T) {
	r, m := newTestRunner(t)
	p := domain.DefaultParameters()
	p.LoserPercent = 50

	_, err := r.Simulate(context.Background(), p)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComputationErrors.WithLabelValues(KindSimulate)))
}

func TestRunner_Simulate_CancelledContext(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Simulate(ctx, domain.DefaultParameters())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunner_EpochAndMonthly(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()

	epoch, err := r.Epoch(ctx, domain.DefaultParameters())
	require.NoError(t, err)
	monthly, err := r.Monthly(ctx, domain.DefaultParameters())
	require.NoError(t, err)

	assert.InDelta(t, epoch.Rake*720, monthly.Rake, 1e-6)
}

func TestRunner_Budget(t *testing.T) {
	r, m := newTestRunner(t)
	ctx := context.Background()

	res, err := r.Budget(ctx, domain.PresetBalanced, domain.DefaultCostAdjustments())
	require.NoError(t, err)
	assert.NotEmpty(t, res.BudgetID)
	assert.Equal(t, 202000.0, res.Calculation.TotalBudget)
	assert.Len(t, res.BurnCurve, domain.BurnCurveMonths)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComputationsTotal.WithLabelValues(KindBudget)))

	_, err = r.Budget(ctx, "unknown", domain.DefaultCostAdjustments())
	assert.True(t, errors.Is(err, budget.ErrUnknownPreset))
}

func TestRunner_Budget_SanitizesAdjustments(t *testing.T) {
	r, _ := newTestRunner(t)
	adj := domain.DefaultCostAdjustments()
	adj.DevScalePercent = 1000

	res, err := r.Budget(context.Background(), domain.PresetLean, adj)
	require.NoError(t, err)

	assert.Equal(t, domain.MaxCostScalePercent, res.Adjustments.DevScalePercent)
}

func TestRunner_PowerLaw(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()

	points, err := r.PowerLaw(ctx, 1.5, 50)
	require.NoError(t, err)
	assert.Len(t, points, 50)

	for _, tc := range []struct {
		gamma float64
		n     int
	}{{-1, 50}, {1.5, 0}, {1.5, MaxPowerLawRanks + 1}} {
		_, err := r.PowerLaw(ctx, tc.gamma, tc.n)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "gamma=%v n=%d", tc.gamma, tc.n)
	}
}

func TestRunner_Supply(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()

	points, err := r.Supply(ctx, 36)
	require.NoError(t, err)
	assert.Len(t, points, 37)

	_, err = r.Supply(ctx, -1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = r.Supply(ctx, MaxSupplyMonths+1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestNewRunner_DefaultCacheSize(t *testing.T) {
	r, err := NewRunner(RunnerOptions{})
	require.NoError(t, err)

	_, err = r.Simulate(context.Background(), domain.DefaultParameters())
	require.NoError(t, err)
	assert.Equal(t, 1, r.cache.size())
}
