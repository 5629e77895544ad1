package rates

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/taxalpha/internal/domain"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func assertRate(t *testing.T, expected, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, expected.Sub(actual).Abs().LessThan(d(0.00001)),
		"expected %s, got %s: %v", expected, actual, msgAndArgs)
}

func TestOrdinaryRate(t *testing.T) {
	tests := []struct {
		name     string
		income   decimal.Decimal
		fs       domain.FilingStatus
		expected decimal.Decimal
	}{
		{"joint top bracket", d(1000000), domain.FilingMarriedJointly, d(0.37)},
		{"joint middle bracket", d(300000), domain.FilingMarriedJointly, d(0.24)},
		{"joint bottom bracket", d(20000), domain.FilingMarriedJointly, d(0.10)},
		{"single 22% bracket", d(75000), domain.FilingSingle, d(0.22)},
		{"single top bracket", d(700000), domain.FilingSingle, d(0.37)},
		{"separate 37% starts lower", d(400000), domain.FilingMarriedSeparately, d(0.37)},
		{"head of household", d(150000), domain.FilingHeadOfHousehold, d(0.24)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertRate(t, tc.expected, OrdinaryRate(tc.income, tc.fs))
		})
	}
}

func TestLongTermRate(t *testing.T) {
	tests := []struct {
		name     string
		income   decimal.Decimal
		fs       domain.FilingStatus
		expected decimal.Decimal
	}{
		{"joint zero bracket", d(80000), domain.FilingMarriedJointly, d(0.00)},
		{"joint 15% bracket", d(300000), domain.FilingMarriedJointly, d(0.15)},
		{"joint 20% bracket", d(700000), domain.FilingMarriedJointly, d(0.20)},
		{"separate 20% starts at 300k", d(350000), domain.FilingMarriedSeparately, d(0.20)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertRate(t, tc.expected, LongTermRate(tc.income, tc.fs))
		})
	}
}

func TestSurtaxApplies(t *testing.T) {
	assert.False(t, SurtaxApplies(d(250000), domain.FilingMarriedJointly), "at threshold, not above")
	assert.True(t, SurtaxApplies(d(250001), domain.FilingMarriedJointly))
	assert.True(t, SurtaxApplies(d(200001), domain.FilingSingle))
	assert.True(t, SurtaxApplies(d(125001), domain.FilingMarriedSeparately))
	assert.False(t, SurtaxApplies(d(150000), domain.FilingHeadOfHousehold))
}

func TestResolveTaxRates_BracketPath(t *testing.T) {
	resolved := ResolveTaxRates(d(1000000), d(0.05), domain.FilingMarriedJointly, domain.FlatRateOverrides{})

	assert.Equal(t, BracketBased, resolved.Source)
	assertRate(t, d(0.458), resolved.Ordinary) // 0.37 + 0.05 + 0.038
	assertRate(t, d(0.288), resolved.LongTerm)
}

func TestResolveTaxRates_BracketPathBelowSurtax(t *testing.T) {
	resolved := ResolveTaxRates(d(150000), decimal.Zero, domain.FilingMarriedJointly, domain.FlatRateOverrides{})

	assertRate(t, d(0.22), resolved.Ordinary)
	assertRate(t, d(0.15), resolved.LongTerm)
}

func TestResolveTaxRates_FlatOverridePath(t *testing.T) {
	flat := domain.FlatRateOverrides{
		OrdinaryRate: d(0.40),
		LongTermRate: d(0.20),
		SurtaxRate:   d(0.038),
	}
	resolved := ResolveTaxRates(d(1000000), d(0.05), domain.FilingMarriedJointly, flat)

	assert.Equal(t, FlatOverride, resolved.Source)
	// The surtax override folds into the long-term rate only.
	assertRate(t, d(0.45), resolved.Ordinary)
	assertRate(t, d(0.288), resolved.LongTerm)
}

func TestResolver_EffectiveSTLossRate_Schedule(t *testing.T) {
	strategy, err := LookupStrategy("qfaf_moderate")
	require.NoError(t, err)
	resolver := NewResolver(nil)
	settings := domain.EngineSettings{}

	assertRate(t, d(0.13), resolver.EffectiveSTLossRate(strategy, 1, settings))
	assertRate(t, d(0.122), resolver.EffectiveSTLossRate(strategy, 2, settings))
	assertRate(t, d(0.086), resolver.EffectiveSTLossRate(strategy, 10, settings))
	// Years past the schedule clamp to the last entry.
	assertRate(t, d(0.086), resolver.EffectiveSTLossRate(strategy, 15, settings))
}

func TestResolver_EffectiveSTLossRate_OverrideAddsLTGainBack(t *testing.T) {
	strategy, err := LookupStrategy("qfaf_moderate")
	require.NoError(t, err)

	store := NewMemoryStore()
	store.Set("qfaf_moderate", 3, d(0.10))
	resolver := NewResolver(store)

	assertRate(t, d(0.129), resolver.EffectiveSTLossRate(strategy, 3, domain.EngineSettings{}))
	assertRate(t, d(0.122), resolver.EffectiveSTLossRate(strategy, 2, domain.EngineSettings{}),
		"unoverridden year uses the schedule")
}

func TestResolver_EffectiveSTLossRate_Decay(t *testing.T) {
	strategy, err := LookupStrategy("qfaf_conservative")
	require.NoError(t, err)
	resolver := NewResolver(nil)
	settings := domain.EngineSettings{
		LossRateDecay: d(0.5),
		LossRateFloor: d(0.03),
	}

	assertRate(t, d(0.09), resolver.EffectiveSTLossRate(strategy, 1, settings))
	assertRate(t, d(0.045), resolver.EffectiveSTLossRate(strategy, 2, settings))
	assertRate(t, d(0.03), resolver.EffectiveSTLossRate(strategy, 3, settings), "floored at 3%")
}

func TestResolver_AverageSTLossRate(t *testing.T) {
	strategy, err := LookupStrategy("qfaf_moderate")
	require.NoError(t, err)
	resolver := NewResolver(nil)
	settings := domain.EngineSettings{}

	assertRate(t, d(0.13), resolver.AverageSTLossRate(strategy, 1, settings))
	assertRate(t, d(0.126), resolver.AverageSTLossRate(strategy, 2, settings))
	// Zero and negative windows count as one year.
	assertRate(t, d(0.13), resolver.AverageSTLossRate(strategy, 0, settings))
	// Oversized windows clamp to the schedule.
	assertRate(t, resolver.AverageSTLossRate(strategy, 10, settings),
		resolver.AverageSTLossRate(strategy, 40, settings))
}

func TestLookupStrategy(t *testing.T) {
	strategy, err := LookupStrategy("qfaf_aggressive")
	require.NoError(t, err)
	assert.Equal(t, "QFAF Aggressive", strategy.Name)
	assertRate(t, d(0.18), strategy.Year1STLossRate())

	_, err = LookupStrategy("qfaf_unknown")
	var invalidErr *domain.InvalidStrategyError
	require.ErrorAs(t, err, &invalidErr)
}

func TestStrategyIDs(t *testing.T) {
	assert.Equal(t, []string{"qfaf_aggressive", "qfaf_conservative", "qfaf_moderate"}, StrategyIDs())
}
