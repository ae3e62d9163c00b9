package domain

import (
	"fmt"
	"math"
)

// TierSplit holds the four performance tier percentages.
// Invariant: the four values sum to exactly 100 (see Sum).
// The sum is defined on basis points, so check it with IsBalanced; a raw
// float64 sum of a balanced split may read 100.00000000000001.
type TierSplit struct {
	TopTierPercent    float64 `json:"topTierPercent" yaml:"top_tier_percent"`
	ProfitablePercent float64 `json:"profitablePercent" yaml:"profitable_percent"`
	BreakEvenPercent  float64 `json:"breakEvenPercent" yaml:"break_even_percent"`
	LoserPercent      float64 `json:"loserPercent" yaml:"loser_percent"`
}

// DefaultTierSplit returns the 10/45/25/20 split.
func DefaultTierSplit() TierSplit {
	return TierSplit{
		TopTierPercent:    10,
		ProfitablePercent: 45,
		BreakEvenPercent:  25,
		LoserPercent:      20,
	}
}

// Sum returns the sum of all tier percentages.
// It uses basis points internally for exact arithmetic validation.
func (t TierSplit) Sum() float64 {
	sumBP := ToBasisPoints(t.TopTierPercent) +
		ToBasisPoints(t.ProfitablePercent) +
		ToBasisPoints(t.BreakEvenPercent) +
		ToBasisPoints(t.LoserPercent)
	return FromBasisPoints(sumBP)
}

// IsBalanced reports whether the tiers sum to exactly 100.
func (t TierSplit) IsBalanced() bool {
	return t.Sum() == 100
}

// ToBasisPoints converts a percentage to integer basis points (1% = 100bp).
func ToBasisPoints(pct float64) int64 {
	return int64(math.Round(pct * BasisPointsTotal / 100))
}

// FromBasisPoints converts basis points back to a percentage.
func FromBasisPoints(bp int64) float64 {
	return float64(bp) * 100 / BasisPointsTotal
}

// EconomicParameters is the input record for the tokenomics engine.
// Monetary inputs share the unit of TaoPrice (USD per TAO).
type EconomicParameters struct {
	// Market
	TaoPrice            float64 `json:"taoPrice" yaml:"tao_price"`
	SubnetEmissionShare float64 `json:"subnetEmissionShare" yaml:"subnet_emission_share"` // percent of DailyEmission

	// Participants
	TotalSignalGenerators int `json:"totalSignalGenerators" yaml:"total_signal_generators"`
	SoloMinerUIDs         int `json:"soloMinerUIDs" yaml:"solo_miner_uids"`
	PoolOperatorUIDs      int `json:"poolOperatorUIDs" yaml:"pool_operator_uids"`
	ValidatorUIDs         int `json:"validatorUIDs" yaml:"validator_uids"`

	// Ante pool
	AvgAntePerGenerator    float64 `json:"avgAntePerGenerator" yaml:"avg_ante_per_generator"` // TAO
	EpochsPerDay           int     `json:"epochsPerDay" yaml:"epochs_per_day"`
	NetworkRakePercent     float64 `json:"networkRakePercent" yaml:"network_rake_percent"`
	PoolOperatorFeePercent float64 `json:"poolOperatorFeePercent" yaml:"pool_operator_fee_percent"`

	TierSplit `yaml:",inline"`

	LoserAnteBurnPercent float64 `json:"loserAnteBurnPercent" yaml:"loser_ante_burn_percent"`

	// Bonus external revenue, not required for profitability
	SubscriptionRevenue float64 `json:"subscriptionRevenue" yaml:"subscription_revenue"` // per month
	LicensingRevenue    float64 `json:"licensingRevenue" yaml:"licensing_revenue"`       // per year
}

// DefaultParameters returns the reference parameter set.
func DefaultParameters() EconomicParameters {
	return EconomicParameters{
		TaoPrice:               300,
		SubnetEmissionShare:    2.5,
		TotalSignalGenerators:  500,
		SoloMinerUIDs:          50,
		PoolOperatorUIDs:       100,
		ValidatorUIDs:          64,
		AvgAntePerGenerator:    0.1,
		EpochsPerDay:           24,
		NetworkRakePercent:     8,
		PoolOperatorFeePercent: 15,
		TierSplit:              DefaultTierSplit(),
		LoserAnteBurnPercent:   50,
		SubscriptionRevenue:    0,
		LicensingRevenue:       0,
	}
}

// ParamField names an editable parameter. Values match the JSON keys.
type ParamField string

// Parameter field constants
const (
	FieldTaoPrice               ParamField = "taoPrice"
	FieldSubnetEmissionShare    ParamField = "subnetEmissionShare"
	FieldTotalSignalGenerators  ParamField = "totalSignalGenerators"
	FieldSoloMinerUIDs          ParamField = "soloMinerUIDs"
	FieldPoolOperatorUIDs       ParamField = "poolOperatorUIDs"
	FieldValidatorUIDs          ParamField = "validatorUIDs"
	FieldAvgAntePerGenerator    ParamField = "avgAntePerGenerator"
	FieldEpochsPerDay           ParamField = "epochsPerDay"
	FieldNetworkRakePercent     ParamField = "networkRakePercent"
	FieldPoolOperatorFeePercent ParamField = "poolOperatorFeePercent"
	FieldTopTierPercent         ParamField = "topTierPercent"
	FieldProfitablePercent      ParamField = "profitablePercent"
	FieldBreakEvenPercent       ParamField = "breakEvenPercent"
	FieldLoserPercent           ParamField = "loserPercent"
	FieldLoserAnteBurnPercent   ParamField = "loserAnteBurnPercent"
	FieldSubscriptionRevenue    ParamField = "subscriptionRevenue"
	FieldLicensingRevenue       ParamField = "licensingRevenue"
)

// TierFields lists the tier fields in waterfall order.
var TierFields = []ParamField{
	FieldTopTierPercent,
	FieldProfitablePercent,
	FieldBreakEvenPercent,
	FieldLoserPercent,
}

// IsTier reports whether f is one of the four tier percentages.
func (f ParamField) IsTier() bool {
	switch f {
	case FieldTopTierPercent, FieldProfitablePercent, FieldBreakEvenPercent, FieldLoserPercent:
		return true
	}
	return false
}

// IsInteger reports whether f holds a whole-number count.
func (f ParamField) IsInteger() bool {
	switch f {
	case FieldTotalSignalGenerators, FieldSoloMinerUIDs, FieldPoolOperatorUIDs,
		FieldValidatorUIDs, FieldEpochsPerDay:
		return true
	}
	return false
}

// Range is an inclusive [Min, Max] slider range.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp bounds v to the range.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	return math.Min(r.Max, math.Max(r.Min, v))
}

// ParameterRanges are the UI control ranges each field is clamped to before
// reaching the engine.
var ParameterRanges = map[ParamField]Range{
	FieldTaoPrice:               {Min: 50, Max: 2000},
	FieldSubnetEmissionShare:    {Min: 0.1, Max: 15},
	FieldTotalSignalGenerators:  {Min: 50, Max: 5000},
	FieldSoloMinerUIDs:          {Min: 10, Max: 100},
	FieldPoolOperatorUIDs:       {Min: 0, Max: 256},
	FieldValidatorUIDs:          {Min: 0, Max: 256},
	FieldAvgAntePerGenerator:    {Min: 0.01, Max: 5},
	FieldEpochsPerDay:           {Min: 1, Max: 48},
	FieldNetworkRakePercent:     {Min: 2, Max: 20},
	FieldPoolOperatorFeePercent: {Min: 5, Max: 25},
	FieldTopTierPercent:         {Min: 5, Max: 30},
	FieldProfitablePercent:      {Min: 20, Max: 60},
	FieldBreakEvenPercent:       {Min: 0, Max: 40},
	FieldLoserPercent:           {Min: 10, Max: 50},
	FieldLoserAnteBurnPercent:   {Min: 20, Max: 80},
	FieldSubscriptionRevenue:    {Min: 0, Max: 1_000_000},
	FieldLicensingRevenue:       {Min: 0, Max: 10_000_000},
}

// Field returns the value of f as float64.
func (p EconomicParameters) Field(f ParamField) (float64, bool) {
	switch f {
	case FieldTaoPrice:
		return p.TaoPrice, true
	case FieldSubnetEmissionShare:
		return p.SubnetEmissionShare, true
	case FieldTotalSignalGenerators:
		return float64(p.TotalSignalGenerators), true
	case FieldSoloMinerUIDs:
		return float64(p.SoloMinerUIDs), true
	case FieldPoolOperatorUIDs:
		return float64(p.PoolOperatorUIDs), true
	case FieldValidatorUIDs:
		return float64(p.ValidatorUIDs), true
	case FieldAvgAntePerGenerator:
		return p.AvgAntePerGenerator, true
	case FieldEpochsPerDay:
		return float64(p.EpochsPerDay), true
	case FieldNetworkRakePercent:
		return p.NetworkRakePercent, true
	case FieldPoolOperatorFeePercent:
		return p.PoolOperatorFeePercent, true
	case FieldTopTierPercent:
		return p.TopTierPercent, true
	case FieldProfitablePercent:
		return p.ProfitablePercent, true
	case FieldBreakEvenPercent:
		return p.BreakEvenPercent, true
	case FieldLoserPercent:
		return p.LoserPercent, true
	case FieldLoserAnteBurnPercent:
		return p.LoserAnteBurnPercent, true
	case FieldSubscriptionRevenue:
		return p.SubscriptionRevenue, true
	case FieldLicensingRevenue:
		return p.LicensingRevenue, true
	}
	return 0, false
}

// WithField returns a copy of p with f set to v. Integer fields are rounded.
func (p EconomicParameters) WithField(f ParamField, v float64) (EconomicParameters, bool) {
	n := int(math.Round(v))
	switch f {
	case FieldTaoPrice:
		p.TaoPrice = v
	case FieldSubnetEmissionShare:
		p.SubnetEmissionShare = v
	case FieldTotalSignalGenerators:
		p.TotalSignalGenerators = n
	case FieldSoloMinerUIDs:
		p.SoloMinerUIDs = n
	case FieldPoolOperatorUIDs:
		p.PoolOperatorUIDs = n
	case FieldValidatorUIDs:
		p.ValidatorUIDs = n
	case FieldAvgAntePerGenerator:
		p.AvgAntePerGenerator = v
	case FieldEpochsPerDay:
		p.EpochsPerDay = n
	case FieldNetworkRakePercent:
		p.NetworkRakePercent = v
	case FieldPoolOperatorFeePercent:
		p.PoolOperatorFeePercent = v
	case FieldTopTierPercent:
		p.TopTierPercent = v
	case FieldProfitablePercent:
		p.ProfitablePercent = v
	case FieldBreakEvenPercent:
		p.BreakEvenPercent = v
	case FieldLoserPercent:
		p.LoserPercent = v
	case FieldLoserAnteBurnPercent:
		p.LoserAnteBurnPercent = v
	case FieldSubscriptionRevenue:
		p.SubscriptionRevenue = v
	case FieldLicensingRevenue:
		p.LicensingRevenue = v
	default:
		return p, false
	}
	return p, true
}

// Clamp returns a copy of p with every field bounded to ParameterRanges.
// Tier percentages are clamped individually and may no longer sum to 100.
func (p EconomicParameters) Clamp() EconomicParameters {
	for f, r := range ParameterRanges {
		v, _ := p.Field(f)
		p, _ = p.WithField(f, r.Clamp(v))
	}
	return p
}

// Validate checks the parameters at a package boundary.
// The engine itself never fails; this is for API and config inputs.
func (p EconomicParameters) Validate() error {
	for _, f := range allFields {
		v, _ := p.Field(f)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidInput, f)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidInput, f, v)
		}
	}

	if p.TaoPrice <= 0 {
		return fmt.Errorf("%w: %s must be > 0", ErrInvalidInput, FieldTaoPrice)
	}
	if p.AvgAntePerGenerator <= 0 {
		return fmt.Errorf("%w: %s must be > 0", ErrInvalidInput, FieldAvgAntePerGenerator)
	}
	if p.EpochsPerDay < 1 {
		return fmt.Errorf("%w: %s must be >= 1", ErrInvalidInput, FieldEpochsPerDay)
	}

	for _, f := range percentFields {
		v, _ := p.Field(f)
		if v > 100 {
			return fmt.Errorf("%w: %s must be <= 100, got %v", ErrInvalidInput, f, v)
		}
	}

	if !p.IsBalanced() {
		return fmt.Errorf("%w: tier percentages sum to %v, want 100", ErrInvalidInput, p.Sum())
	}
	return nil
}

var allFields = []ParamField{
	FieldTaoPrice,
	FieldSubnetEmissionShare,
	FieldTotalSignalGenerators,
	FieldSoloMinerUIDs,
	FieldPoolOperatorUIDs,
	FieldValidatorUIDs,
	FieldAvgAntePerGenerator,
	FieldEpochsPerDay,
	FieldNetworkRakePercent,
	FieldPoolOperatorFeePercent,
	FieldTopTierPercent,
	FieldProfitablePercent,
	FieldBreakEvenPercent,
	FieldLoserPercent,
	FieldLoserAnteBurnPercent,
	FieldSubscriptionRevenue,
	FieldLicensingRevenue,
}

var percentFields = []ParamField{
	FieldSubnetEmissionShare,
	FieldNetworkRakePercent,
	FieldPoolOperatorFeePercent,
	FieldTopTierPercent,
	FieldProfitablePercent,
	FieldBreakEvenPercent,
	FieldLoserPercent,
	FieldLoserAnteBurnPercent,
}

// Fields returns every parameter field in canonical order.
func Fields() []ParamField {
	out := make([]ParamField, len(allFields))
	copy(out, allFields)
	return out
}
