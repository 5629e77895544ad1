package calculation

import (
	"sync"

	"github.com/quantfolio/taxalpha/internal/domain"
	"github.com/quantfolio/taxalpha/internal/rates"
	"github.com/shopspring/decimal"
)

// ProjectWithSensitivity re-runs the core loop with globally perturbed
// inputs: additive deltas on the resolved federal and state rates, a
// substitute return assumption, and multiplicative variance on the
// strategy's short-term loss and long-term gain rates. The waterfall
// and cap logic are the base loop's, untouched.
func (e *Engine) ProjectWithSensitivity(profile *domain.ClientProfile, settings domain.EngineSettings, input domain.SensitivityInput) (*domain.CalculationResult, error) {
	rc, err := e.newRunContext(profile, settings)
	if err != nil {
		return nil, err
	}

	s := input.Normalized()

	// Re-resolve with the perturbed state rate, then layer the federal
	// delta onto both resolved rates.
	rc.tax = rates.ResolveTaxRates(
		profile.AnnualIncome,
		profile.StateRate.Add(s.StateRateDelta),
		profile.FilingStatus,
		settings.FlatRates,
	)
	rc.tax.Ordinary = rc.tax.Ordinary.Add(s.FederalRateDelta)
	rc.tax.LongTerm = rc.tax.LongTerm.Add(s.FederalRateDelta)

	// A substitute return assumption forces growth on when it differs
	// from the configured default.
	if s.AnnualReturn != nil && !s.AnnualReturn.Equal(settings.AnnualReturn) {
		rc.annualReturn = *s.AnnualReturn
		rc.growthEnabled = true
	}

	rc.stVariance = s.STLossVariance
	rc.ltVariance = s.LTGainVariance

	return e.run(rc)
}

// SweepCase labels one run of a bull/base/bear sweep.
type SweepCase struct {
	Name   string
	Input  domain.SensitivityInput
	Result *domain.CalculationResult
}

// SweepScenarios runs the standard bull/base/bear stress cases. Each
// run is independent and side-effect-free, so the three execute
// concurrently.
func (e *Engine) SweepScenarios(profile *domain.ClientProfile, settings domain.EngineSettings) ([]SweepCase, error) {
	bull := settings.AnnualReturn.Add(decimal.NewFromFloat(0.02))
	bear := settings.AnnualReturn.Sub(decimal.NewFromFloat(0.04))

	cases := []SweepCase{
		{Name: "bull", Input: domain.SensitivityInput{
			AnnualReturn:   &bull,
			STLossVariance: decimal.NewFromFloat(1.10),
			LTGainVariance: decimal.NewFromFloat(1.10),
		}},
		{Name: "base", Input: domain.SensitivityInput{}},
		{Name: "bear", Input: domain.SensitivityInput{
			AnnualReturn:   &bear,
			STLossVariance: decimal.NewFromFloat(0.90),
			LTGainVariance: decimal.NewFromFloat(0.90),
		}},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(cases))
	for i := range cases {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cases[i].Result, errs[i] = e.ProjectWithSensitivity(profile, settings, cases[i].Input)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return cases, nil
}
