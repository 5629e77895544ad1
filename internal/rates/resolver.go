package rates

import (
	"github.com/quantfolio/taxalpha/internal/domain"
	"github.com/shopspring/decimal"
)

// Source tags which tax-rate resolution path a run uses. It is decided
// once per run and passed down, never re-evaluated per year.
type Source int

const (
	BracketBased Source = iota
	FlatOverride
)

// ResolvedTaxRates carries the combined ordinary/short-term and
// long-term rates used for a year's savings computation. Both include
// the flat state rate; the surtax is folded in per path.
type ResolvedTaxRates struct {
	Ordinary decimal.Decimal
	LongTerm decimal.Decimal
	Source   Source
}

// ResolveTaxRates picks the resolution path for a run. With non-zero
// flat overrides the surtax is added to the long-term override only;
// a flat short-term rate is used as supplied. On the bracket path the
// surtax applies above the filing-status threshold to both rates.
func ResolveTaxRates(income, stateRate decimal.Decimal, fs domain.FilingStatus, flat domain.FlatRateOverrides) ResolvedTaxRates {
	if !flat.IsZero() {
		return ResolvedTaxRates{
			Ordinary: flat.OrdinaryRate.Add(stateRate),
			LongTerm: flat.LongTermRate.Add(stateRate).Add(flat.SurtaxRate),
			Source:   FlatOverride,
		}
	}
	ordinary := OrdinaryRate(income, fs).Add(stateRate)
	longTerm := LongTermRate(income, fs).Add(stateRate)
	if SurtaxApplies(income, fs) {
		ordinary = ordinary.Add(SurtaxRate)
		longTerm = longTerm.Add(SurtaxRate)
	}
	return ResolvedTaxRates{Ordinary: ordinary, LongTerm: longTerm, Source: BracketBased}
}

// Resolver resolves the collateral's effective short-term loss rate per
// strategy and year. The override store, when set, is treated as a
// read-only snapshot for the duration of a run.
type Resolver struct {
	store OverrideStore
}

// NewResolver creates a resolver. A nil store disables overrides.
func NewResolver(store OverrideStore) *Resolver {
	return &Resolver{store: store}
}

// EffectiveSTLossRate returns the effective short-term loss rate for a
// 1-based year. Resolution order: external override (base rate plus the
// strategy's long-term gain rate added back), geometric decay toward
// the configured floor, then the strategy schedule.
func (r *Resolver) EffectiveSTLossRate(strategy domain.StrategyRates, year int, settings domain.EngineSettings) decimal.Decimal {
	if r != nil && r.store != nil {
		if base, ok := r.store.Get(strategy.ID, year); ok {
			return base.Add(strategy.LTGainRate)
		}
	}
	if settings.LossRateDecay.GreaterThan(decimal.Zero) {
		rate := strategy.Year1STLossRate()
		for y := 1; y < year; y++ {
			rate = rate.Mul(settings.LossRateDecay)
		}
		if rate.LessThan(settings.LossRateFloor) {
			rate = settings.LossRateFloor
		}
		return rate
	}
	return strategy.STLossRateForYear(year)
}

// AverageSTLossRate is the mean effective rate over years 1..window,
// clamped to the strategy's schedule length. A zero window counts as 1.
func (r *Resolver) AverageSTLossRate(strategy domain.StrategyRates, window int, settings domain.EngineSettings) decimal.Decimal {
	if window < 1 {
		window = 1
	}
	if n := len(strategy.LossSchedule); n > 0 && window > n {
		window = n
	}
	sum := decimal.Zero
	for y := 1; y <= window; y++ {
		sum = sum.Add(r.EffectiveSTLossRate(strategy, y, settings))
	}
	return sum.Div(decimal.NewFromInt(int64(window)))
}
