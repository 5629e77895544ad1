package rates

import (
	"sort"

	"github.com/quantfolio/taxalpha/internal/domain"
	"github.com/shopspring/decimal"
)

func schedule(rates ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(rates))
	for i, r := range rates {
		out[i] = decimal.NewFromFloat(r)
	}
	return out
}

// strategyTable is the static per-strategy reference data. Loss
// schedules are effective short-term loss rates for years 1..10.
var strategyTable = map[string]domain.StrategyRates{
	"qfaf_conservative": {
		ID:            "qfaf_conservative",
		Name:          "QFAF Conservative",
		LossSchedule:  schedule(0.09, 0.085, 0.08, 0.075, 0.07, 0.068, 0.065, 0.063, 0.061, 0.06),
		LTGainRate:    decimal.NewFromFloat(0.022),
		FinancingRate: decimal.NewFromFloat(0.004),
	},
	"qfaf_moderate": {
		ID:            "qfaf_moderate",
		Name:          "QFAF Moderate",
		LossSchedule:  schedule(0.13, 0.122, 0.115, 0.108, 0.102, 0.097, 0.093, 0.09, 0.088, 0.086),
		LTGainRate:    decimal.NewFromFloat(0.029),
		FinancingRate: decimal.NewFromFloat(0.006),
	},
	"qfaf_aggressive": {
		ID:            "qfaf_aggressive",
		Name:          "QFAF Aggressive",
		LossSchedule:  schedule(0.18, 0.168, 0.157, 0.147, 0.139, 0.132, 0.126, 0.121, 0.117, 0.114),
		LTGainRate:    decimal.NewFromFloat(0.035),
		FinancingRate: decimal.NewFromFloat(0.009),
	},
}

// LookupStrategy resolves a strategy identifier against the reference
// table.
func LookupStrategy(id string) (domain.StrategyRates, error) {
	sr, ok := strategyTable[id]
	if !ok {
		return domain.StrategyRates{}, &domain.InvalidStrategyError{StrategyID: id}
	}
	return sr, nil
}

// StrategyIDs lists the known strategy identifiers in stable order.
func StrategyIDs() []string {
	ids := make([]string, 0, len(strategyTable))
	for id := range strategyTable {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
