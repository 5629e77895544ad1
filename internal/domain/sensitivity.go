package domain

import "github.com/shopspring/decimal"

// SensitivityInput perturbs a whole run for stress testing. Deltas are
// additive to the resolved tax rates; variances are multiplicative on
// the strategy rates. A nil AnnualReturn keeps the settings value.
type SensitivityInput struct {
	FederalRateDelta decimal.Decimal  `yaml:"federal_rate_delta"`
	StateRateDelta   decimal.Decimal  `yaml:"state_rate_delta"`
	AnnualReturn     *decimal.Decimal `yaml:"annual_return,omitempty"`
	STLossVariance   decimal.Decimal  `yaml:"st_loss_variance"`
	LTGainVariance   decimal.Decimal  `yaml:"lt_gain_variance"`
}

// Normalized returns a copy with zero variances replaced by 1, so an
// empty input is a no-op perturbation.
func (s SensitivityInput) Normalized() SensitivityInput {
	out := s
	if out.STLossVariance.IsZero() {
		out.STLossVariance = decimal.NewFromInt(1)
	}
	if out.LTGainVariance.IsZero() {
		out.LTGainVariance = decimal.NewFromInt(1)
	}
	return out
}
