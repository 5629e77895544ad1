package calculation

import "github.com/quantfolio/taxalpha/internal/domain"

// ProjectWithOverrides re-runs the core loop with sparse per-year
// substitutions: an income override affects that year's cap and NOL
// computation only; a cash infusion lands at year start and, with the
// generator enabled, resizes the generator position. Cumulative
// infusions restate the sizing totals at the end of the run.
func (e *Engine) ProjectWithOverrides(profile *domain.ClientProfile, settings domain.EngineSettings, overrides map[int]domain.YearOverride) (*domain.CalculationResult, error) {
	rc, err := e.newRunContext(profile, settings)
	if err != nil {
		return nil, err
	}
	rc.overrides = overrides
	return e.run(rc)
}
