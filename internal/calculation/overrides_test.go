package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/taxalpha/internal/domain"
)

func TestEngine_ProjectWithOverrides_IncomeOverride(t *testing.T) {
	income := d(750000)
	overrides := map[int]domain.YearOverride{
		3: {Income: &income},
	}

	engine := NewEngine()
	result, err := engine.ProjectWithOverrides(moderateProfile(1000000), domain.DefaultSettings(), overrides)
	require.NoError(t, err)

	for _, year := range result.Years {
		if year.Year == 3 {
			assertDecimal(t, d(750000), year.Income)
		} else {
			assertDecimal(t, d(1000000), year.Income)
		}
	}
}

func TestEngine_ProjectWithOverrides_NegativeIncomeClampsToZero(t *testing.T) {
	income := d(-50000)
	overrides := map[int]domain.YearOverride{
		2: {Income: &income},
	}

	engine := NewEngine()
	result, err := engine.ProjectWithOverrides(moderateProfile(1000000), domain.DefaultSettings(), overrides)
	require.NoError(t, err)

	assert.True(t, result.Years[1].Income.IsZero())
}

func TestEngine_ProjectWithOverrides_CashInfusionResizesGenerator(t *testing.T) {
	infusion := d(500000)
	overrides := map[int]domain.YearOverride{
		2: {CashInfusion: &infusion},
	}

	engine := NewEngine()
	result, err := engine.ProjectWithOverrides(moderateProfile(1000000), domain.DefaultSettings(), overrides)
	require.NoError(t, err)

	assertDecimal(t, d(500000), result.Summary.TotalInfusions)
	assertDecimal(t, d(1500000), result.Sizing.CollateralValue, "sizing restated with the infusion")

	// Year-1 collateral compounds to 1,064,000; the infusion brings
	// year 2 to 1,564,000 and the generator resizes to manufacture a
	// matching gain at the base 13% rate.
	year2 := result.Years[1]
	assertDecimal(t, d(203320), year2.GeneratorGain)

	// The infused run out-earns the base run from year 2 on.
	base, err := engine.Project(moderateProfile(1000000), domain.DefaultSettings())
	require.NoError(t, err)
	assert.True(t, year2.NetTaxSavings.GreaterThan(base.Years[1].NetTaxSavings))
}

func TestEngine_ProjectWithOverrides_InfusionWithGeneratorDisabled(t *testing.T) {
	infusion := d(250000)
	overrides := map[int]domain.YearOverride{
		2: {CashInfusion: &infusion},
	}

	profile := moderateProfile(1000000)
	profile.GeneratorEnabled = false

	engine := NewEngine()
	result, err := engine.ProjectWithOverrides(profile, domain.DefaultSettings(), overrides)
	require.NoError(t, err)

	for _, year := range result.Years {
		assert.True(t, year.GeneratorGain.IsZero(), "year %d: disabled generator stays at zero", year.Year)
	}
	assertDecimal(t, d(250000), result.Summary.TotalInfusions)
}

func TestEngine_ProjectWithOverrides_EmptyMapMatchesBase(t *testing.T) {
	engine := NewEngine()
	settings := domain.DefaultSettings()

	base, err := engine.Project(moderateProfile(1000000), settings)
	require.NoError(t, err)
	overridden, err := engine.ProjectWithOverrides(moderateProfile(1000000), settings, map[int]domain.YearOverride{})
	require.NoError(t, err)

	assert.Equal(t, base.Years, overridden.Years)
	assert.True(t, overridden.Summary.TotalInfusions.IsZero())
}
