// Package economics implements the ante pool waterfall, the monthly rollup
// and tier balancing. All functions are pure.
package economics

import (
	"math"

	"github.com/shopspring/decimal"

	"quanta-tokenomics/internal/domain"
)

// ComputeEpoch calculates one epoch's cash flows.
// Steps (strict sequential waterfall):
//  1. Collect the ante pool
//  2. Extract the network rake before any payout
//  3. Count participants per tier
//  4. Split forfeited loser ante into burned and redistributed
//  5. Return break-even ante in full
//  6. Compute the surplus available above break-even
//  7. Split surplus 45/55 between top and profitable tiers
//  8. Derive per-tier ROI
//
// Out-of-domain inputs are sanitised rather than rejected, so the result is
// always complete and non-negative.
func ComputeEpoch(p domain.EconomicParameters) domain.EpochResult {
	p = sanitize(p)

	res := domain.EpochResult{
		ROI: domain.TierROI{Loser: domain.LoserROIPercent},
	}
	n := p.TotalSignalGenerators
	if n == 0 {
		return res
	}

	anteValue := p.AvgAntePerGenerator * p.TaoPrice
	res.AnteValue = anteValue

	// 1. Pool
	res.EpochPool = float64(n) * p.AvgAntePerGenerator * p.TaoPrice

	// 2. Rake first
	res.Rake = percentOf(res.EpochPool, p.NetworkRakePercent)
	res.AfterRakePool = res.EpochPool - res.Rake

	// 3. Tier counts
	res.Counts = tierCounts(n, p.TierSplit)

	// 4. Forfeiture
	res.LoserAnteForfeited = float64(res.Counts.Loser) * p.AvgAntePerGenerator * p.TaoPrice
	res.Burned, res.Redistributed = splitForfeiture(res.LoserAnteForfeited, p.LoserAnteBurnPercent)

	// 5. Break-even participants get their ante back
	res.BreakEvenReturn = float64(res.Counts.BreakEven) * p.AvgAntePerGenerator * p.TaoPrice

	// 6. Surplus
	res.SurplusPool = math.Max(0, res.AfterRakePool-res.BreakEvenReturn+res.Redistributed)

	// 7. Surplus split
	res.TopTierShare = res.SurplusPool * domain.SurplusTopTierShare
	res.ProfitableShare = res.SurplusPool * domain.SurplusProfitableShare
	res.Payouts = domain.TierPayouts{
		TopTier:    perCapita(res.TopTierShare, res.Counts.TopTier),
		Profitable: perCapita(res.ProfitableShare, res.Counts.Profitable),
		BreakEven:  anteValue,
	}

	// 8. ROI
	pooledTopPayout := res.Payouts.TopTier * (1 - p.PoolOperatorFeePercent/100)
	res.ROI = domain.TierROI{
		SoloTopTier:   roiPercent(res.Payouts.TopTier, anteValue),
		PooledTopTier: roiPercent(pooledTopPayout, anteValue),
		Profitable:    roiPercent(res.Payouts.Profitable, anteValue),
		BreakEven:     0,
		Loser:         domain.LoserROIPercent,
	}

	// Pool operators earn their fee on the profitable share of pooled generators.
	res.PooledGenerators = max(0, n-p.SoloMinerUIDs)
	res.PoolOperatorFees = float64(res.PooledGenerators) * anteValue *
		(p.ProfitablePercent / 100) * (p.PoolOperatorFeePercent / 100)

	return res
}

// tierCounts floors each tier's share of n. Top and profitable tiers never
// drop below MinTierCount so per-capita payouts have a denominator.
func tierCounts(n int, t domain.TierSplit) domain.TierCounts {
	if n <= 0 {
		return domain.TierCounts{}
	}
	return domain.TierCounts{
		TopTier:    max(domain.MinTierCount, floorShare(n, t.TopTierPercent)),
		Profitable: max(domain.MinTierCount, floorShare(n, t.ProfitablePercent)),
		BreakEven:  floorShare(n, t.BreakEvenPercent),
		Loser:      floorShare(n, t.LoserPercent),
	}
}

func floorShare(n int, pct float64) int {
	return int(math.Floor(float64(n) * pct / 100))
}

func percentOf(amount, pct float64) float64 {
	return amount * pct / 100
}

// splitForfeiture splits amount into burned and redistributed parts whose
// float64 sum is exactly amount. Whichever part is at least amount/2 makes
// both subtractions exact (Sterbenz), so burned + redistributed == amount.
func splitForfeiture(amount, burnPct float64) (burned, redistributed float64) {
	if amount <= 0 {
		return 0, 0
	}
	b := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(burnPct)).
		Div(decimal.NewFromInt(100)).
		InexactFloat64()
	b = math.Min(math.Max(0, b), amount)

	redistributed = amount - b
	burned = amount - redistributed
	return burned, redistributed
}

func perCapita(share float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return share / float64(count)
}

// roiPercent returns (payout-ante)/ante×100 rounded to one decimal, or 0 when
// the ante is zero.
func roiPercent(payout, ante float64) float64 {
	if ante <= 0 {
		return 0
	}
	return round1((payout - ante) / ante * 100)
}

func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

// sanitize bounds every input to its mathematical domain: negatives and NaN
// become 0, percentages are clamped to [0,100], epochs per day to >= 1.
func sanitize(p domain.EconomicParameters) domain.EconomicParameters {
	p.TaoPrice = nonNegative(p.TaoPrice)
	p.SubnetEmissionShare = percent(p.SubnetEmissionShare)
	p.TotalSignalGenerators = max(0, p.TotalSignalGenerators)
	p.SoloMinerUIDs = max(0, p.SoloMinerUIDs)
	p.PoolOperatorUIDs = max(0, p.PoolOperatorUIDs)
	p.ValidatorUIDs = max(0, p.ValidatorUIDs)
	p.AvgAntePerGenerator = nonNegative(p.AvgAntePerGenerator)
	p.EpochsPerDay = max(1, p.EpochsPerDay)
	p.NetworkRakePercent = percent(p.NetworkRakePercent)
	p.PoolOperatorFeePercent = percent(p.PoolOperatorFeePercent)
	p.TopTierPercent = percent(p.TopTierPercent)
	p.ProfitablePercent = percent(p.ProfitablePercent)
	p.BreakEvenPercent = percent(p.BreakEvenPercent)
	p.LoserPercent = percent(p.LoserPercent)
	p.LoserAnteBurnPercent = percent(p.LoserAnteBurnPercent)
	p.SubscriptionRevenue = nonNegative(p.SubscriptionRevenue)
	p.LicensingRevenue = nonNegative(p.LicensingRevenue)
	return p
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func percent(v float64) float64 {
	return math.Min(100, nonNegative(v))
}
