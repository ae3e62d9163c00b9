package domain

// TierCounts holds participant counts per performance tier.
type TierCounts struct {
	TopTier    int `json:"topTier"`
	Profitable int `json:"profitable"`
	BreakEven  int `json:"breakEven"`
	Loser      int `json:"loser"`
}

// TierPayouts holds per-capita payouts per tier, in USD.
type TierPayouts struct {
	TopTier    float64 `json:"topTier"`
	Profitable float64 `json:"profitable"`
	BreakEven  float64 `json:"breakEven"` // ante returned in full
}

// TierROI holds ROI percentages per tier, rounded to one decimal.
type TierROI struct {
	SoloTopTier   float64 `json:"soloTopTier"`
	PooledTopTier float64 `json:"pooledTopTier"` // net of pool operator fee
	Profitable    float64 `json:"profitable"`
	BreakEven     float64 `json:"breakEven"`
	Loser         float64 `json:"loser"` // fixed at LoserROIPercent
}

// EpochResult is one epoch's cash-flow waterfall. All amounts in USD.
type EpochResult struct {
	AnteValue float64 `json:"anteValue"` // avg ante × price

	EpochPool     float64 `json:"epochPool"`
	Rake          float64 `json:"rake"`
	AfterRakePool float64 `json:"afterRakePool"`

	Counts TierCounts `json:"counts"`

	// Forfeiture
	LoserAnteForfeited float64 `json:"loserAnteForfeited"`
	Burned             float64 `json:"burned"`
	Redistributed      float64 `json:"redistributed"`

	BreakEvenReturn float64 `json:"breakEvenReturn"`
	SurplusPool     float64 `json:"surplusPool"`
	TopTierShare    float64 `json:"topTierShare"`
	ProfitableShare float64 `json:"profitableShare"`

	Payouts TierPayouts `json:"payouts"`
	ROI     TierROI     `json:"roi"`

	// Pool operators
	PooledGenerators int     `json:"pooledGenerators"`
	PoolOperatorFees float64 `json:"poolOperatorFees"`
}

// EmissionSplit is the monthly emission value per recipient, in USD.
type EmissionSplit struct {
	Validators float64 `json:"validators"`
	Miners     float64 `json:"miners"`
	Owner      float64 `json:"owner"`
	Total      float64 `json:"total"`
}

// ProfitBreakdown separates guaranteed core profit from bonus profit.
type ProfitBreakdown struct {
	Core              float64 `json:"core"`  // monthly rake
	Bonus             float64 `json:"bonus"` // owner emission + external revenue
	TotalNetworkValue float64 `json:"totalNetworkValue"`
	AnnualCore        float64 `json:"annualCore"`
	AnnualBonus       float64 `json:"annualBonus"`
}

// FlowShares are the percentages of the ante pool taken by each flow.
type FlowShares struct {
	RakePercent         float64 `json:"rakePercent"`
	BurnPercent         float64 `json:"burnPercent"`
	RedistributePercent float64 `json:"redistributePercent"`
}

// MonthlyResult rolls an epoch up to a 30-day month and adds emissions.
type MonthlyResult struct {
	EpochsPerMonth int `json:"epochsPerMonth"`

	AntePool         float64 `json:"antePool"`
	Rake             float64 `json:"rake"`
	Burn             float64 `json:"burn"`
	PoolOperatorFees float64 `json:"poolOperatorFees"`

	SubnetDailyTAO  float64       `json:"subnetDailyTao"`
	SubnetDailyUSD  float64       `json:"subnetDailyUsd"`
	Emissions       EmissionSplit `json:"emissions"`
	ExternalRevenue float64       `json:"externalRevenue"`

	Profit             ProfitBreakdown `json:"profit"`
	IsAlwaysProfitable bool            `json:"isAlwaysProfitable"`

	ROI  TierROI    `json:"roi"`
	Flow FlowShares `json:"flow"`
}

// TierSlice is one segment of the tier distribution chart.
type TierSlice struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
	Count   int     `json:"count"`
}

// PowerLawPoint is one rank of the reward distribution.
type PowerLawPoint struct {
	Rank              int     `json:"rank"`
	RewardPercent     float64 `json:"rewardPercent"`
	CumulativePercent float64 `json:"cumulativePercent"`
}

// SupplyPoint is one month of the supply projection.
type SupplyPoint struct {
	Month   int     `json:"month"`
	Supply  float64 `json:"supply"` // ending supply
	Burned  float64 `json:"burned"`
	Emitted float64 `json:"emitted"`
}

// Simulation bundles all results for one parameter set.
type Simulation struct {
	ScenarioID string             `json:"scenarioId"`
	Params     EconomicParameters `json:"params"`
	Epoch      EpochResult        `json:"epoch"`
	Monthly    MonthlyResult      `json:"monthly"`
	Tiers      []TierSlice        `json:"tiers"`
}
