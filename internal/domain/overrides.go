package domain

import "github.com/shopspring/decimal"

// YearOverride substitutes inputs for a single simulated year. Nil
// fields leave the base scenario untouched.
type YearOverride struct {
	// Income replaces the profile's annual income for cap and NOL
	// computation in that year only.
	Income *decimal.Decimal `yaml:"income,omitempty"`

	// CashInfusion is added to the collateral balance at year start.
	// When the generator is enabled, an infusion triggers an immediate
	// resize of the generator position.
	CashInfusion *decimal.Decimal `yaml:"cash_infusion,omitempty"`
}
