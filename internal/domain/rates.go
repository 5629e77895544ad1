package domain

import "github.com/shopspring/decimal"

// StrategyRates is the immutable per-strategy reference data. The loss
// schedule holds effective short-term loss rates for years 1..len; the
// long-term gain rate and financing cost are flat across years.
type StrategyRates struct {
	ID            string
	Name          string
	LossSchedule  []decimal.Decimal
	LTGainRate    decimal.Decimal
	FinancingRate decimal.Decimal
}

// STLossRateForYear returns the scheduled effective short-term loss
// rate for a 1-based year, clamping past the end of the schedule.
func (sr StrategyRates) STLossRateForYear(year int) decimal.Decimal {
	if len(sr.LossSchedule) == 0 {
		return decimal.Zero
	}
	if year < 1 {
		year = 1
	}
	if year > len(sr.LossSchedule) {
		year = len(sr.LossSchedule)
	}
	return sr.LossSchedule[year-1]
}

// Year1STLossRate is the first scheduled rate.
func (sr StrategyRates) Year1STLossRate() decimal.Decimal {
	return sr.STLossRateForYear(1)
}
