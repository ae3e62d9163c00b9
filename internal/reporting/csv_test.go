package reporting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quanta-tokenomics/internal/budget"
	"quanta-tokenomics/internal/distribution"
	"quanta-tokenomics/internal/domain"
	"quanta-tokenomics/internal/economics"
	"quanta-tokenomics/internal/supply"
)

func TestRenderPowerLawCSV(t *testing.T) {
	csv := RenderPowerLawCSV(distribution.DefaultPowerLaw())
	lines := strings.Split(strings.TrimSuffix(csv, "\n"), "\n")

	require.Len(t, lines, 51)
	assert.Equal(t, "rank,reward_percent,cumulative_percent", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,"))
	assert.True(t, strings.HasSuffix(lines[50], ",100.000000"))
}

func TestRenderSupplyCSV(t *testing.T) {
	csv := RenderSupplyCSV(supply.ProjectSupply(2))
	lines := strings.Split(strings.TrimSuffix(csv, "\n"), "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, "month,supply,burned,emitted", lines[0])
	assert.Equal(t, "0,995000.00,20000.00,15000.00", lines[1])
}

func TestRenderBurnCurveCSV(t *testing.T) {
	calc, err := budget.Compute(domain.PresetBalanced, domain.DefaultCostAdjustments())
	require.NoError(t, err)

	csv := RenderBurnCurveCSV(budget.BurnCurve(calc))
	lines := strings.Split(strings.TrimSuffix(csv, "\n"), "\n")

	require.Len(t, lines, domain.BurnCurveMonths+1)
	assert.Equal(t, "month,burn,cumulative", lines[0])
	assert.True(t, strings.HasSuffix(lines[3], ",44000.00"), lines[3])
	assert.True(t, strings.HasSuffix(lines[6], ",99000.00"), lines[6])
}

func TestRenderTiersCSV(t *testing.T) {
	csv := RenderTiersCSV(economics.TierDistribution(domain.DefaultParameters()))

	assert.Equal(t, "tier,percent,count\n"+
		"Top Tier,10.00,50\n"+
		"Profitable,45.00,225\n"+
		"Break-Even,25.00,125\n"+
		"Penalty,20.00,100\n", csv)
}
