package domain

// Budget preset IDs
const (
	PresetLean     = "lean"
	PresetBalanced = "balanced"
	PresetBestCase = "bestCase"
)

// Market data tiers
const (
	MarketDataPolygon = "polygon"
	MarketDataTiingo  = "tiingo"
)

// Cost category keys
const (
	CostCoreDev        = "coreDev"
	CostMarketData     = "marketData"
	CostTesting        = "testing"
	CostInfrastructure = "infrastructure"
	CostSecurity       = "security"
	CostLegal          = "legal"
	CostContingency    = "contingency"
	CostDevRefinement  = "devRefinement"
	CostSecurityAudit  = "securityAudit"
	CostPolygonLicense = "polygonLicense"
	CostContractDev    = "contractDev"
	CostDevOps         = "devOps"
	CostMarketing      = "marketing"
	CostInsurance      = "insurance"
	CostMisc           = "misc"
)

// CostLabels maps cost keys to display labels.
var CostLabels = map[string]string{
	CostCoreDev:        "Core Development",
	CostMarketData:     "Market Data",
	CostTesting:        "Testing & QA",
	CostInfrastructure: "Infrastructure",
	CostSecurity:       "Security Review",
	CostLegal:          "Legal Consultation",
	CostContingency:    "Contingency",
	CostDevRefinement:  "Dev Refinement",
	CostSecurityAudit:  "Security Audit",
	CostPolygonLicense: "Polygon License",
	CostContractDev:    "Contract Dev",
	CostDevOps:         "DevOps/Monitoring",
	CostMarketing:      "Marketing",
	CostInsurance:      "Insurance",
	CostMisc:           "Misc/Buffer",
}

// CostItem is one line of a cost breakdown, in USD.
type CostItem struct {
	Key    string  `json:"key"`
	Amount float64 `json:"amount"`
}

// Label returns the display label for the item.
func (c CostItem) Label() string {
	if l, ok := CostLabels[c.Key]; ok {
		return l
	}
	return c.Key
}

// CostPhase is a development phase budget.
type CostPhase struct {
	Total     float64    `json:"total"`
	Breakdown []CostItem `json:"breakdown"`
}

// OperationsBudget is one year of operations with preset revenue offsets.
type OperationsBudget struct {
	Gross       float64    `json:"gross"`
	Breakdown   []CostItem `json:"breakdown"`
	GrantOffset float64    `json:"grantOffset"`
	APIOffset   float64    `json:"apiOffset"`
}

// BudgetScenario is a static cost preset.
type BudgetScenario struct {
	ID          string           `json:"id"`
	Label       string           `json:"label"`
	Description string           `json:"description"`
	Alpha       CostPhase        `json:"alpha"`
	Beta        CostPhase        `json:"beta"`
	Operations  OperationsBudget `json:"operations"`
	Seed        float64          `json:"seed"`
	MonthlyBurn float64          `json:"monthlyBurn"` // preset reference, not recomputed
}

// CostAdjustments are the budget sliders.
type CostAdjustments struct {
	GrantOffset       float64 `json:"grantOffset" yaml:"grant_offset"`
	APIRevenueOffset  float64 `json:"apiRevenueOffset" yaml:"api_revenue_offset"`
	DevScalePercent   float64 `json:"devScalePercent" yaml:"dev_scale_percent"`
	InfraScalePercent float64 `json:"infraScalePercent" yaml:"infra_scale_percent"`
	TeamScalePercent  float64 `json:"teamScalePercent" yaml:"team_scale_percent"`
	MarketDataTier    string  `json:"marketDataTier" yaml:"market_data_tier"`
}

// DefaultCostAdjustments returns the neutral slider positions.
func DefaultCostAdjustments() CostAdjustments {
	return CostAdjustments{
		GrantOffset:       DefaultGrantOffset,
		APIRevenueOffset:  DefaultAPIRevenue,
		DevScalePercent:   DefaultScalePercent,
		InfraScalePercent: DefaultScalePercent,
		TeamScalePercent:  DefaultScalePercent,
		MarketDataTier:    MarketDataPolygon,
	}
}

// FinancialCalculation is the derived budget for a preset and adjustments.
type FinancialCalculation struct {
	PresetID string `json:"presetId"`

	AdjustedAlpha  float64    `json:"adjustedAlpha"`
	AdjustedBeta   float64    `json:"adjustedBeta"`
	AlphaBreakdown []CostItem `json:"alphaBreakdown"`
	BetaBreakdown  []CostItem `json:"betaBreakdown"`

	Operations      []CostItem `json:"operations"`
	GrossOperations float64    `json:"grossOperations"`
	TotalOffsets    float64    `json:"totalOffsets"`
	NetOperations   float64    `json:"netOperations"` // floored at 0

	TotalBudget  float64 `json:"totalBudget"`
	MonthlyBurn  float64 `json:"monthlyBurn"`
	RunwayMonths float64 `json:"runwayMonths"`
	Savings      float64 `json:"savings"` // vs unadjusted preset
}

// BurnCurvePoint is one month of the spend curve.
type BurnCurvePoint struct {
	Month      int     `json:"month"`
	Burn       float64 `json:"burn"`
	Cumulative float64 `json:"cumulative"`
}

// BudgetResult bundles a calculation with its burn curve.
type BudgetResult struct {
	BudgetID    string               `json:"budgetId"`
	Adjustments CostAdjustments      `json:"adjustments"`
	Calculation FinancialCalculation `json:"calculation"`
	BurnCurve   []BurnCurvePoint     `json:"burnCurve"`
}
