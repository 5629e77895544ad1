package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FilingStatus identifies the federal filing status used for bracket and
// cap lookups.
type FilingStatus string

const (
	FilingSingle            FilingStatus = "single"
	FilingMarriedJointly    FilingStatus = "married_filing_jointly"
	FilingMarriedSeparately FilingStatus = "married_filing_separately"
	FilingHeadOfHousehold   FilingStatus = "head_of_household"
)

// ParseFilingStatus validates a filing status string.
func ParseFilingStatus(s string) (FilingStatus, error) {
	switch FilingStatus(s) {
	case FilingSingle, FilingMarriedJointly, FilingMarriedSeparately, FilingHeadOfHousehold:
		return FilingStatus(s), nil
	}
	return "", &UnknownFilingStatusError{Status: s}
}

// UnknownFilingStatusError is returned when a profile carries a filing
// status the engine has no bracket or cap tables for.
type UnknownFilingStatusError struct {
	Status string
}

func (e *UnknownFilingStatusError) Error() string {
	return fmt.Sprintf("unknown filing status: %q", e.Status)
}

// InvalidStrategyError is returned when a profile references a strategy
// identifier absent from the reference table.
type InvalidStrategyError struct {
	StrategyID string
}

func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("invalid strategy: %q", e.StrategyID)
}

// ClientProfile describes one scenario's immutable inputs. The engine
// never mutates a profile; every run reads the same values.
type ClientProfile struct {
	FilingStatus FilingStatus `yaml:"filing_status"`
	StateCode    string       `yaml:"state_code"`
	// StateRate is the flat state income tax rate applied on top of the
	// federal marginal rates.
	StateRate decimal.Decimal `yaml:"state_rate"`

	AnnualIncome     decimal.Decimal `yaml:"annual_income"`
	StrategyID       string          `yaml:"strategy_id"`
	CollateralAmount decimal.Decimal `yaml:"collateral_amount"`

	// Existing balances carried into year 1.
	ShortTermCarryforward decimal.Decimal `yaml:"short_term_carryforward"`
	LongTermCarryforward  decimal.Decimal `yaml:"long_term_carryforward"`
	NOLCarryforward       decimal.Decimal `yaml:"nol_carryforward"`

	// GeneratorOverride, when set, bypasses the sizing formula entirely.
	GeneratorOverride *decimal.Decimal `yaml:"generator_override,omitempty"`
	GeneratorEnabled  bool             `yaml:"generator_enabled"`

	// SizingWindowYears is the averaging window for the loss-rate mean;
	// SizingCushion shrinks the generator position by the given fraction.
	SizingWindowYears int             `yaml:"sizing_window_years"`
	SizingCushion     decimal.Decimal `yaml:"sizing_cushion"`
}

// Validate performs the fail-fast configuration checks of the profile.
// Numeric-domain degeneracy (zero collateral) is not an error; the
// engine produces an all-zero result for it.
func (p *ClientProfile) Validate() error {
	if _, err := ParseFilingStatus(string(p.FilingStatus)); err != nil {
		return err
	}
	if p.StrategyID == "" {
		return &InvalidStrategyError{StrategyID: p.StrategyID}
	}
	if p.CollateralAmount.LessThan(decimal.Zero) {
		return fmt.Errorf("collateral amount cannot be negative")
	}
	if p.AnnualIncome.LessThan(decimal.Zero) {
		return fmt.Errorf("annual income cannot be negative")
	}
	if p.ShortTermCarryforward.LessThan(decimal.Zero) ||
		p.LongTermCarryforward.LessThan(decimal.Zero) ||
		p.NOLCarryforward.LessThan(decimal.Zero) {
		return fmt.Errorf("carryforward balances cannot be negative")
	}
	if p.SizingCushion.LessThan(decimal.Zero) || p.SizingCushion.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("sizing cushion must be in [0, 1)")
	}
	if p.SizingWindowYears < 0 {
		return fmt.Errorf("sizing window cannot be negative")
	}
	return nil
}
