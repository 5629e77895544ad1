package domain

import "github.com/shopspring/decimal"

// YearState is the loop state threaded from one simulated year into the
// next. Each year produces a fresh value; nothing is mutated in place.
// All three carryforward balances are always >= 0.
type YearState struct {
	GeneratorValue  decimal.Decimal `json:"generatorValue"`
	CollateralValue decimal.Decimal `json:"collateralValue"`
	ShortTermCF     decimal.Decimal `json:"shortTermCf"`
	LongTermCF      decimal.Decimal `json:"longTermCf"`
	NOLCF           decimal.Decimal `json:"nolCf"`
}

// YearResult records everything one simulated year produced. Results
// are append-only; a result is never touched after its year completes.
type YearResult struct {
	Year   int             `json:"year"`
	Income decimal.Decimal `json:"income"`

	// Tax events generated this year.
	GeneratorGain         decimal.Decimal `json:"generatorGain"`
	GeneratorOrdinaryLoss decimal.Decimal `json:"generatorOrdinaryLoss"`
	GrossHarvestedLoss    decimal.Decimal `json:"grossHarvestedLoss"`
	HarvestedLoss         decimal.Decimal `json:"harvestedLoss"`
	LongTermGain          decimal.Decimal `json:"longTermGain"`

	// Amounts allowed/used under the caps and the waterfall.
	UsableOrdinaryLoss  decimal.Decimal `json:"usableOrdinaryLoss"`
	OrdinaryLossLimited decimal.Decimal `json:"ordinaryLossLimited"`
	ShortTermGainOffset decimal.Decimal `json:"shortTermGainOffset"`
	CapitalLossUsed     decimal.Decimal `json:"capitalLossUsed"`
	NOLUsed             decimal.Decimal `json:"nolUsed"`
	NOLGenerated        decimal.Decimal `json:"nolGenerated"`

	// Residual taxable amounts after netting.
	TaxableShortTermGain decimal.Decimal `json:"taxableShortTermGain"`
	TaxableLongTermGain  decimal.Decimal `json:"taxableLongTermGain"`

	// Carryforward balances after the year.
	ShortTermCFAfter decimal.Decimal `json:"shortTermCfAfter"`
	LongTermCFAfter  decimal.Decimal `json:"longTermCfAfter"`
	NOLCFAfter       decimal.Decimal `json:"nolCfAfter"`

	NetTaxSavings decimal.Decimal `json:"netTaxSavings"`

	// Effective rates used for the year's savings computation.
	OrdinaryRate        decimal.Decimal `json:"ordinaryRate"`
	LongTermRate        decimal.Decimal `json:"longTermRate"`
	EffectiveSTLossRate decimal.Decimal `json:"effectiveStLossRate"`

	// Position values after compounding.
	GeneratorValueAfter  decimal.Decimal `json:"generatorValueAfter"`
	CollateralValueAfter decimal.Decimal `json:"collateralValueAfter"`
}

// Summary reduces the year sequence into run totals.
type Summary struct {
	CumulativeTaxSavings decimal.Decimal `json:"cumulativeTaxSavings"`
	CumulativeNOL        decimal.Decimal `json:"cumulativeNol"`
	FinalPortfolioValue  decimal.Decimal `json:"finalPortfolioValue"`
	// TaxAlpha is annualized net tax savings as a fraction of total
	// strategy exposure.
	TaxAlpha       decimal.Decimal `json:"taxAlpha"`
	TotalInfusions decimal.Decimal `json:"totalInfusions"`
}

// CalculationResult is the engine's sole externally visible output.
type CalculationResult struct {
	RunID   string           `json:"runId"`
	Sizing  CalculatedSizing `json:"sizing"`
	Years   []YearResult     `json:"years"`
	Summary Summary          `json:"summary"`
}
