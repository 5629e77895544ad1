package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/taxalpha/internal/domain"
)

func TestEngine_ProjectWithSensitivity_EmptyInputMatchesBase(t *testing.T) {
	engine := NewEngine()
	settings := domain.DefaultSettings()

	base, err := engine.Project(moderateProfile(1000000), settings)
	require.NoError(t, err)
	perturbed, err := engine.ProjectWithSensitivity(moderateProfile(1000000), settings, domain.SensitivityInput{})
	require.NoError(t, err)

	assert.Equal(t, base.Years, perturbed.Years, "empty input is a no-op perturbation")
}

func TestEngine_ProjectWithSensitivity_FederalDelta(t *testing.T) {
	engine := NewEngine()
	result, err := engine.ProjectWithSensitivity(moderateProfile(1000000), domain.DefaultSettings(),
		domain.SensitivityInput{FederalRateDelta: d(0.05)})
	require.NoError(t, err)

	// 37% + 3.8% surtax + 5% delta; 20% + 3.8% + 5%.
	year1 := result.Years[0]
	assertDecimal(t, d(0.458), year1.OrdinaryRate)
	assertDecimal(t, d(0.288), year1.LongTermRate)
}

func TestEngine_ProjectWithSensitivity_StateDelta(t *testing.T) {
	engine := NewEngine()
	result, err := engine.ProjectWithSensitivity(moderateProfile(1000000), domain.DefaultSettings(),
		domain.SensitivityInput{StateRateDelta: d(0.03)})
	require.NoError(t, err)

	year1 := result.Years[0]
	assertDecimal(t, d(0.438), year1.OrdinaryRate)
	assertDecimal(t, d(0.268), year1.LongTermRate)
}

func TestEngine_ProjectWithSensitivity_HigherRatesRaiseSavings(t *testing.T) {
	engine := NewEngine()
	settings := domain.DefaultSettings()

	base, err := engine.Project(moderateProfile(1000000), settings)
	require.NoError(t, err)
	perturbed, err := engine.ProjectWithSensitivity(moderateProfile(1000000), settings,
		domain.SensitivityInput{FederalRateDelta: d(0.05)})
	require.NoError(t, err)

	// The strategy converts ordinary deductions; a higher ordinary rate
	// is worth more.
	assert.True(t, perturbed.Summary.CumulativeTaxSavings.GreaterThan(base.Summary.CumulativeTaxSavings))
}

func TestEngine_ProjectWithSensitivity_ReturnSubstituteForcesGrowth(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.GrowthEnabled = false

	ret := d(0.05)
	engine := NewEngine()
	result, err := engine.ProjectWithSensitivity(moderateProfile(1000000), settings,
		domain.SensitivityInput{AnnualReturn: &ret})
	require.NoError(t, err)

	// 5% return less 0.6% financing, compounded despite the disabled
	// growth flag.
	assertDecimal(t, d(1044000), result.Years[0].CollateralValueAfter)
}

func TestEngine_ProjectWithSensitivity_Variances(t *testing.T) {
	engine := NewEngine()
	result, err := engine.ProjectWithSensitivity(moderateProfile(1000000), domain.DefaultSettings(),
		domain.SensitivityInput{
			STLossVariance: d(1.20),
			LTGainVariance: d(0.50),
		})
	require.NoError(t, err)

	year1 := result.Years[0]
	assertDecimal(t, d(0.156), year1.EffectiveSTLossRate, "13% scaled by 1.2")
	assertDecimal(t, d(156000), year1.HarvestedLoss)
	assertDecimal(t, d(14500), year1.LongTermGain, "29,000 halved")
}

func TestEngine_SweepScenarios(t *testing.T) {
	engine := NewEngine()
	cases, err := engine.SweepScenarios(moderateProfile(1000000), domain.DefaultSettings())
	require.NoError(t, err)
	require.Len(t, cases, 3)

	byName := make(map[string]*domain.CalculationResult, len(cases))
	for _, c := range cases {
		require.NotNil(t, c.Result, "case %s should carry a result", c.Name)
		byName[c.Name] = c.Result
	}
	require.Contains(t, byName, "bull")
	require.Contains(t, byName, "base")
	require.Contains(t, byName, "bear")

	assert.True(t, byName["bull"].Summary.CumulativeTaxSavings.
		GreaterThan(byName["bear"].Summary.CumulativeTaxSavings),
		"bull case should out-save the bear case")
	assert.Equal(t, "base", cases[1].Name, "case order is stable")
}

func TestEngine_SweepScenarios_InvalidProfile(t *testing.T) {
	profile := moderateProfile(1000000)
	profile.StrategyID = "nope"

	engine := NewEngine()
	_, err := engine.SweepScenarios(profile, domain.DefaultSettings())
	assert.Error(t, err)
}
