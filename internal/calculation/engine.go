package calculation

import (
	"github.com/google/uuid"
	"github.com/quantfolio/taxalpha/internal/domain"
	"github.com/quantfolio/taxalpha/internal/rates"
	"github.com/shopspring/decimal"
)

// Engine runs the multi-year projection. It carries no mutable state
// across runs; every run is a deterministic fold over the year range,
// so callers may run many scenarios in parallel on one Engine.
type Engine struct {
	// Store is the external rate-override store. It is snapshotted at
	// the start of each run so a run sees one consistent view.
	Store  rates.OverrideStore
	Logger Logger
}

// NewEngine creates an engine with no override store and a no-op
// logger.
func NewEngine() *Engine {
	return &Engine{Logger: NopLogger{}}
}

// NewEngineWithStore creates an engine consulting the given override
// store.
func NewEngineWithStore(store rates.OverrideStore) *Engine {
	return &Engine{Store: store, Logger: NopLogger{}}
}

// SetLogger replaces the engine logger; nil restores the no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// runContext is the per-run snapshot of everything the year loop
// needs. Built once, read every year, never mutated mid-run.
type runContext struct {
	profile  *domain.ClientProfile
	settings domain.EngineSettings
	strategy domain.StrategyRates
	resolver *rates.Resolver
	tax      rates.ResolvedTaxRates

	projectionYears int
	annualReturn    decimal.Decimal
	growthEnabled   bool
	generatorGrowth bool

	// Sensitivity perturbations; both 1 on an unperturbed run.
	stVariance decimal.Decimal
	ltVariance decimal.Decimal

	// Sparse per-year overrides; empty on an unperturbed run.
	overrides map[int]domain.YearOverride
}

func (e *Engine) newRunContext(profile *domain.ClientProfile, settings domain.EngineSettings) (*runContext, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	strategy, err := rates.LookupStrategy(profile.StrategyID)
	if err != nil {
		return nil, err
	}

	store := e.Store
	if store != nil {
		store = store.Snapshot()
	}

	years := settings.ProjectionYears
	if years <= 0 {
		years = 10
	}

	return &runContext{
		profile:         profile,
		settings:        settings,
		strategy:        strategy,
		resolver:        rates.NewResolver(store),
		tax:             rates.ResolveTaxRates(profile.AnnualIncome, profile.StateRate, profile.FilingStatus, settings.FlatRates),
		projectionYears: years,
		annualReturn:    settings.AnnualReturn,
		growthEnabled:   settings.GrowthEnabled,
		generatorGrowth: settings.GeneratorGrowthEnabled,
		stVariance:      one,
		ltVariance:      one,
	}, nil
}

// Project runs the core loop for the configured horizon.
func (e *Engine) Project(profile *domain.ClientProfile, settings domain.EngineSettings) (*domain.CalculationResult, error) {
	rc, err := e.newRunContext(profile, settings)
	if err != nil {
		return nil, err
	}
	return e.run(rc)
}

// run executes the year fold: YearState(n) -> YearResult(n),
// YearState(n+1).
func (e *Engine) run(rc *runContext) (*domain.CalculationResult, error) {
	sizing, err := sizeWithResolver(rc.resolver, rc.profile, rc.settings)
	if err != nil {
		return nil, err
	}

	state := domain.YearState{
		GeneratorValue:  sizing.GeneratorValue,
		CollateralValue: rc.profile.CollateralAmount,
		ShortTermCF:     rc.profile.ShortTermCarryforward,
		LongTermCF:      rc.profile.LongTermCarryforward,
		NOLCF:           rc.profile.NOLCarryforward,
	}

	totalInfusions := decimal.Zero
	years := make([]domain.YearResult, 0, rc.projectionYears)

	for year := 1; year <= rc.projectionYears; year++ {
		income := rc.profile.AnnualIncome
		if ov, ok := rc.overrides[year]; ok {
			if ov.Income != nil {
				income = clampNonNeg(*ov.Income)
			}
			if ov.CashInfusion != nil && ov.CashInfusion.GreaterThan(decimal.Zero) {
				state = applyInfusion(rc, state, *ov.CashInfusion)
				totalInfusions = totalInfusions.Add(*ov.CashInfusion)
				e.Logger.Debugf("year %d: cash infusion %s, generator resized to %s",
					year, ov.CashInfusion.StringFixed(2), state.GeneratorValue.StringFixed(2))
			}
		}

		result, next := simulateYear(rc, year, income, state)
		years = append(years, result)
		state = next
	}

	restated := *sizing
	if totalInfusions.GreaterThan(decimal.Zero) {
		restated.CollateralValue = restated.CollateralValue.Add(totalInfusions)
		restated.TotalExposure = restated.GeneratorValue.Add(restated.CollateralValue)
	}

	summary := buildSummary(&restated, years, totalInfusions, rc.projectionYears)

	return &domain.CalculationResult{
		RunID:   uuid.NewString(),
		Sizing:  restated,
		Years:   years,
		Summary: summary,
	}, nil
}

// applyInfusion adds cash to the collateral balance and, with the
// generator enabled, resizes the generator to the new collateral's
// loss-generating capacity at the strategy's base rate.
func applyInfusion(rc *runContext, state domain.YearState, infusion decimal.Decimal) domain.YearState {
	state.CollateralValue = state.CollateralValue.Add(infusion)
	if rc.profile.GeneratorEnabled {
		baseRate := rc.resolver.EffectiveSTLossRate(rc.strategy, 1, rc.settings)
		target := state.CollateralValue.Mul(baseRate)
		state.GeneratorValue = safeDiv(target, rc.settings.GeneratorMultiplier).
			Mul(one.Sub(rc.profile.SizingCushion))
	}
	return state
}

// simulateYear computes one year's tax events, runs the netting
// waterfall, prices the savings, and compounds the positions forward.
func simulateYear(rc *runContext, year int, income decimal.Decimal, state domain.YearState) (domain.YearResult, domain.YearState) {
	settings := rc.settings

	// Generator events: gains and ordinary losses, each at the
	// multiplier.
	genGain := state.GeneratorValue.Mul(settings.GeneratorMultiplier)
	genOrdLoss := genGain

	// Collateral events.
	effRate := rc.resolver.EffectiveSTLossRate(rc.strategy, year, settings).Mul(rc.stVariance)
	grossHarvest := state.CollateralValue.Mul(effRate)
	harvested := grossHarvest.Mul(one.Sub(settings.WashSaleFraction))
	ltGain := state.CollateralValue.Mul(rc.strategy.LTGainRate).Mul(rc.ltVariance)

	netST := genGain.Sub(harvested)

	// Statutory ordinary-loss cap; the excess is this year's NOL
	// contribution.
	cap := settings.OrdinaryLossCap(rc.profile.FilingStatus)
	usableOrdLoss := minDec(genOrdLoss, cap, income)
	nolContribution := clampNonNeg(genOrdLoss.Sub(usableOrdLoss))

	wf := runWaterfall(waterfallInput{
		NetShortTerm:       netST,
		LongTermGain:       ltGain,
		ShortTermCF:        state.ShortTermCF,
		LongTermCF:         state.LongTermCF,
		NOLCF:              state.NOLCF,
		Income:             income,
		UsableOrdinaryLoss: usableOrdLoss,
		FilingStatus:       rc.profile.FilingStatus,
		NOLFraction:        settings.NOLUsableFraction,
	})

	// Short-term gain actually offset: the collateral's harvested
	// losses absorbed first, then carryforward steps 1 and 4.
	stOffset := minDec(genGain, harvested).Add(wf.STGainOffsetByCF)

	ord := rc.tax.Ordinary
	lt := rc.tax.LongTerm
	savings := usableOrdLoss.Mul(ord).
		Add(stOffset.Mul(ord.Sub(lt))).
		Add(wf.CapitalLossUsed.Mul(ord)).
		Add(wf.NOLUsed.Mul(ord)).
		Sub(wf.TaxableLongTerm.Mul(lt)).
		Sub(wf.TaxableShortTerm.Mul(ord))

	nolAfter := clampNonNeg(state.NOLCF.Sub(wf.NOLUsed)).Add(nolContribution)

	// Compound positions forward, net of financing cost.
	growthFactor := one.Add(rc.annualReturn.Sub(rc.strategy.FinancingRate))
	nextCollateral := state.CollateralValue
	nextGenerator := state.GeneratorValue
	if rc.growthEnabled {
		nextCollateral = clampNonNeg(nextCollateral.Mul(growthFactor))
		if rc.generatorGrowth {
			nextGenerator = clampNonNeg(nextGenerator.Mul(growthFactor))
		}
	}

	result := domain.YearResult{
		Year:   year,
		Income: income,

		GeneratorGain:         genGain,
		GeneratorOrdinaryLoss: genOrdLoss,
		GrossHarvestedLoss:    grossHarvest,
		HarvestedLoss:         harvested,
		LongTermGain:          ltGain,

		UsableOrdinaryLoss:  usableOrdLoss,
		OrdinaryLossLimited: nolContribution,
		ShortTermGainOffset: stOffset,
		CapitalLossUsed:     wf.CapitalLossUsed,
		NOLUsed:             wf.NOLUsed,
		NOLGenerated:        nolContribution,

		TaxableShortTermGain: wf.TaxableShortTerm,
		TaxableLongTermGain:  wf.TaxableLongTerm,

		ShortTermCFAfter: wf.ShortTermCF,
		LongTermCFAfter:  wf.LongTermCF,
		NOLCFAfter:       nolAfter,

		NetTaxSavings: savings,

		OrdinaryRate:        ord,
		LongTermRate:        lt,
		EffectiveSTLossRate: effRate,

		GeneratorValueAfter:  nextGenerator,
		CollateralValueAfter: nextCollateral,
	}

	next := domain.YearState{
		GeneratorValue:  nextGenerator,
		CollateralValue: nextCollateral,
		ShortTermCF:     wf.ShortTermCF,
		LongTermCF:      wf.LongTermCF,
		NOLCF:           nolAfter,
	}

	return result, next
}
