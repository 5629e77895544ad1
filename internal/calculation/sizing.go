package calculation

import (
	"github.com/quantfolio/taxalpha/internal/domain"
	"github.com/quantfolio/taxalpha/internal/rates"
	"github.com/shopspring/decimal"
)

// SizeStrategy computes the one-time generator sizing for a profile
// without consulting an override store. Pure: identical inputs always
// produce identical output.
func SizeStrategy(profile *domain.ClientProfile, settings domain.EngineSettings) (*domain.CalculatedSizing, error) {
	return sizeWithResolver(rates.NewResolver(nil), profile, settings)
}

func sizeWithResolver(resolver *rates.Resolver, profile *domain.ClientProfile, settings domain.EngineSettings) (*domain.CalculatedSizing, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	strategy, err := rates.LookupStrategy(profile.StrategyID)
	if err != nil {
		return nil, err
	}

	window := profile.SizingWindowYears
	if window < 1 {
		window = 1
	}
	if n := len(strategy.LossSchedule); window > n {
		window = n
	}
	avgRate := resolver.AverageSTLossRate(strategy, window, settings)

	generator := sizeGenerator(profile, settings, avgRate)
	manual := profile.GeneratorOverride != nil && profile.GeneratorEnabled

	year1Gain := generator.Mul(settings.GeneratorMultiplier)
	year1Loss := year1Gain
	year1Harvest := profile.CollateralAmount.
		Mul(resolver.EffectiveSTLossRate(strategy, 1, settings)).
		Mul(one.Sub(settings.WashSaleFraction))
	year1LTGain := profile.CollateralAmount.Mul(strategy.LTGainRate)

	cap := settings.OrdinaryLossCap(profile.FilingStatus)
	usable := minDec(year1Loss, cap)
	excess := clampNonNeg(year1Loss.Sub(usable))

	return &domain.CalculatedSizing{
		GeneratorValue:    generator,
		CollateralValue:   profile.CollateralAmount,
		TotalExposure:     generator.Add(profile.CollateralAmount),
		AverageLossRate:   avgRate,
		SizingWindowYears: window,
		CushionApplied:    profile.SizingCushion,
		ManualOverride:    manual,

		Year1GeneratedGain: year1Gain,
		Year1GeneratedLoss: year1Loss,
		Year1HarvestedLoss: year1Harvest,
		Year1LongTermGain:  year1LTGain,

		StatutoryCap:     cap,
		Year1UsableLoss:  usable,
		Year1ExcessToNOL: excess,
	}, nil
}

// sizeGenerator applies the averaged-window sizing formula: the target
// short-term loss divided by the gain multiplier, shrunk by the
// cushion. A manual override wins outright; a disabled generator sizes
// to zero.
func sizeGenerator(profile *domain.ClientProfile, settings domain.EngineSettings, avgRate decimal.Decimal) decimal.Decimal {
	if !profile.GeneratorEnabled {
		return decimal.Zero
	}
	if profile.GeneratorOverride != nil {
		return clampNonNeg(*profile.GeneratorOverride)
	}
	targetLoss := profile.CollateralAmount.Mul(avgRate)
	return safeDiv(targetLoss, settings.GeneratorMultiplier).
		Mul(one.Sub(profile.SizingCushion))
}
