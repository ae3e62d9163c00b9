package domain

// Emission schedule constants.
const (
	DailyEmission = 7200.0 // network-wide daily issuance in TAO
	DaysPerMonth  = 30     // fixed 30-day month convention
	MonthsPerYear = 12

	ValidatorEmissionShare = 0.41
	MinerEmissionShare     = 0.41
	OwnerEmissionShare     = 0.18
)

// Ante pool constants.
const (
	// Surplus above break-even is split between the top and profitable tiers.
	SurplusTopTierShare    = 0.45
	SurplusProfitableShare = 0.55

	LoserROIPercent = -100.0
	MinLoserPercent = 5.0 // auto-balance floor for the loser tier
	MinTierCount    = 1   // top/profitable counts never drop below this
)

// Power-law chart defaults.
const (
	DefaultPowerLawGamma = 1.5
	DefaultPowerLawRanks = 50
)

// Supply projection seed and rates.
const (
	InitialSupply       = 1_000_000.0
	MonthlyBurnRate     = 0.02
	MonthlyEmissionRate = 0.015
	AnnualEmissionDecay = 0.95
	DefaultSupplyMonths = 36
)

// Budget model constants.
const (
	BurnCurveMonths  = 18
	AlphaPhaseMonths = 3
	BetaPhaseMonths  = 3

	TiingoAnnualCost    = 360.0
	MinCostScalePercent = 50.0
	MaxCostScalePercent = 150.0
	DefaultScalePercent = 100.0
	DefaultGrantOffset  = 25000.0
	DefaultAPIRevenue   = 6000.0
)

// BasisPointsTotal is 100% expressed in basis points.
const BasisPointsTotal = 10000
