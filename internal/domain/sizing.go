package domain

import "github.com/shopspring/decimal"

// CalculatedSizing is the one-time sizing outcome computed before the
// year loop starts.
type CalculatedSizing struct {
	GeneratorValue  decimal.Decimal `json:"generatorValue"`
	CollateralValue decimal.Decimal `json:"collateralValue"`
	TotalExposure   decimal.Decimal `json:"totalExposure"`

	// AverageLossRate is the mean effective short-term loss rate over
	// the sizing window.
	AverageLossRate   decimal.Decimal `json:"averageLossRate"`
	SizingWindowYears int             `json:"sizingWindowYears"`
	CushionApplied    decimal.Decimal `json:"cushionApplied"`
	ManualOverride    bool            `json:"manualOverride"`

	// Year-1 preview figures.
	Year1GeneratedGain decimal.Decimal `json:"year1GeneratedGain"`
	Year1GeneratedLoss decimal.Decimal `json:"year1GeneratedLoss"`
	Year1HarvestedLoss decimal.Decimal `json:"year1HarvestedLoss"`
	Year1LongTermGain  decimal.Decimal `json:"year1LongTermGain"`

	// Statutory-cap preview: how much of the year-1 ordinary loss is
	// usable and how much spills into NOL.
	StatutoryCap     decimal.Decimal `json:"statutoryCap"`
	Year1UsableLoss  decimal.Decimal `json:"year1UsableLoss"`
	Year1ExcessToNOL decimal.Decimal `json:"year1ExcessToNol"`
}
