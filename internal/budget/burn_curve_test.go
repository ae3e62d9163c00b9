package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quanta-tokenomics/internal/domain"
)

func TestBurnCurve_PhaseBoundariesExact(t *testing.T) {
	for _, id := range PresetIDs() {
		for _, dev := range []float64{50, 77, 100, 133, 150} {
			adj := domain.DefaultCostAdjustments()
			adj.DevScalePercent = dev
			calc := mustCompute(t, id, adj)

			curve := BurnCurve(calc)
			require.Len(t, curve, domain.BurnCurveMonths)

			assert.Equal(t, calc.AdjustedAlpha, curve[2].Cumulative, "%s dev=%v month 3", id, dev)
			assert.Equal(t, calc.AdjustedAlpha+calc.AdjustedBeta, curve[5].Cumulative, "%s dev=%v month 6", id, dev)
		}
	}
}

func TestBurnCurve_Phases(t *testing.T) {
	calc := mustCompute(t, domain.PresetBalanced, domain.DefaultCostAdjustments())
	curve := BurnCurve(calc)

	for i, p := range curve {
		assert.Equal(t, i+1, p.Month)
		switch {
		case p.Month <= 3:
			assert.InDelta(t, 44000.0/3, p.Burn, 1e-9)
		case p.Month <= 6:
			assert.InDelta(t, 55000.0/3, p.Burn, 1e-9)
		default:
			assert.Equal(t, calc.MonthlyBurn, p.Burn)
		}
		if i > 0 {
			assert.GreaterOrEqual(t, p.Cumulative, curve[i-1].Cumulative)
		}
	}
	assert.InDelta(t, 99000+12*calc.MonthlyBurn, curve[17].Cumulative, 1e-6)
}

func TestBurnCurve_ZeroBurnPlateau(t *testing.T) {
	adj := domain.DefaultCostAdjustments()
	adj.GrantOffset = 1_000_000

	curve := BurnCurve(mustCompute(t, domain.PresetLean, adj))

	for _, p := range curve[6:] {
		assert.Zero(t, p.Burn)
		assert.Equal(t, 20900.0+28600, p.Cumulative)
	}
}
