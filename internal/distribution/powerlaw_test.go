package distribution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePowerLaw_Default(t *testing.T) {
	points := DefaultPowerLaw()
	require.Len(t, points, 50)

	for i, p := range points {
		assert.Equal(t, i+1, p.Rank)
		if i > 0 {
			assert.Less(t, p.RewardPercent, points[i-1].RewardPercent, "rank %d", p.Rank)
			assert.Greater(t, p.CumulativePercent, points[i-1].CumulativePercent, "rank %d", p.Rank)
		}
	}
	assert.InDelta(t, 100, points[49].CumulativePercent, 0.1)
}

func TestGeneratePowerLaw_RewardsSumTo100(t *testing.T) {
	for _, gamma := range []float64{0.5, 1, 1.5, 2, 3} {
		var sum float64
		for _, p := range GeneratePowerLaw(gamma, 20) {
			sum += p.RewardPercent
		}
		assert.InDelta(t, 100, sum, 1e-9, "gamma=%v", gamma)
	}
}

func TestGeneratePowerLaw_EmptyForNonPositiveN(t *testing.T) {
	assert.Empty(t, GeneratePowerLaw(1.5, 0))
	assert.Empty(t, GeneratePowerLaw(1.5, -3))
	assert.NotNil(t, GeneratePowerLaw(1.5, 0))
}

func TestGeneratePowerLaw_SingleRank(t *testing.T) {
	points := GeneratePowerLaw(1.5, 1)
	require.Len(t, points, 1)
	assert.Equal(t, 100.0, points[0].RewardPercent)
	assert.Equal(t, 100.0, points[0].CumulativePercent)
}

func TestGeneratePowerLaw_ZeroGammaUniform(t *testing.T) {
	for _, gamma := range []float64{0, math.NaN()} {
		for _, p := range GeneratePowerLaw(gamma, 4) {
			assert.InDelta(t, 25, p.RewardPercent, 1e-12)
		}
	}
}

func TestGeneratePowerLaw_Restartable(t *testing.T) {
	assert.Equal(t, GeneratePowerLaw(1.5, 50), GeneratePowerLaw(1.5, 50))
}

func TestTopShare(t *testing.T) {
	points := DefaultPowerLaw()

	assert.Equal(t, points[0].RewardPercent, TopShare(points, 1))
	assert.Equal(t, points[9].CumulativePercent, TopShare(points, 10))
	assert.Equal(t, points[49].CumulativePercent, TopShare(points, 500))
	assert.Zero(t, TopShare(points, 0))
	assert.Zero(t, TopShare(nil, 3))
}
