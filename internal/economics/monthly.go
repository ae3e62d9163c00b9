package economics

import (
	"quanta-tokenomics/internal/domain"
)

// ComputeMonthly rolls an epoch up to a 30-day month and blends in the
// emission schedule and external revenue.
//
// Emissions are independent of the ante pool: DailyEmission × subnet share,
// valued at TaoPrice and split 41/41/18 between validators, miners and owner.
// Core profit is the rake alone; bonus profit is owner emission plus external
// revenue. Burn is reported in TotalNetworkValue as value removed from
// circulation, not as spendable profit.
func ComputeMonthly(epoch domain.EpochResult, p domain.EconomicParameters) domain.MonthlyResult {
	p = sanitize(p)

	epochs := p.EpochsPerDay * domain.DaysPerMonth
	m := float64(epochs)

	res := domain.MonthlyResult{
		EpochsPerMonth:   epochs,
		AntePool:         epoch.EpochPool * m,
		Rake:             epoch.Rake * m,
		Burn:             epoch.Burned * m,
		PoolOperatorFees: epoch.PoolOperatorFees * m,
		ROI:              epoch.ROI,
	}

	// Emission schedule
	res.SubnetDailyTAO = percentOf(domain.DailyEmission, p.SubnetEmissionShare)
	res.SubnetDailyUSD = res.SubnetDailyTAO * p.TaoPrice
	res.Emissions = emissionSplit(res.SubnetDailyUSD)

	// Licensing is quoted per year.
	res.ExternalRevenue = p.SubscriptionRevenue + p.LicensingRevenue/domain.MonthsPerYear

	core := res.Rake
	bonus := res.Emissions.Owner + res.ExternalRevenue
	res.Profit = domain.ProfitBreakdown{
		Core:              core,
		Bonus:             bonus,
		TotalNetworkValue: core + bonus + res.Burn,
		AnnualCore:        core * domain.MonthsPerYear,
		AnnualBonus:       bonus * domain.MonthsPerYear,
	}
	res.IsAlwaysProfitable = IsAlwaysProfitable(p)
	res.Flow = flowShares(p)

	return res
}

// IsAlwaysProfitable reports the guarantee that a positive rake on a
// non-empty pool yields positive core profit regardless of who wins.
func IsAlwaysProfitable(p domain.EconomicParameters) bool {
	return p.TotalSignalGenerators > 0 && p.NetworkRakePercent > 0 &&
		p.AvgAntePerGenerator > 0 && p.TaoPrice > 0
}

func emissionSplit(dailyUSD float64) domain.EmissionSplit {
	s := domain.EmissionSplit{
		Validators: dailyUSD * domain.ValidatorEmissionShare * domain.DaysPerMonth,
		Miners:     dailyUSD * domain.MinerEmissionShare * domain.DaysPerMonth,
		Owner:      dailyUSD * domain.OwnerEmissionShare * domain.DaysPerMonth,
	}
	s.Total = s.Validators + s.Miners + s.Owner
	return s
}

func flowShares(p domain.EconomicParameters) domain.FlowShares {
	loser := p.LoserPercent / 100
	return domain.FlowShares{
		RakePercent:         p.NetworkRakePercent,
		BurnPercent:         p.LoserAnteBurnPercent * loser,
		RedistributePercent: (100 - p.NetworkRakePercent) * (1 - p.LoserAnteBurnPercent/100) * loser,
	}
}
