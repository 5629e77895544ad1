package domain

import "github.com/shopspring/decimal"

// FlatRateOverrides replaces bracket lookup with caller-supplied flat
// rates. The surtax is added to the long-term rate only; a flat
// short-term rate is used as given.
type FlatRateOverrides struct {
	OrdinaryRate decimal.Decimal `yaml:"ordinary_rate"`
	LongTermRate decimal.Decimal `yaml:"long_term_rate"`
	SurtaxRate   decimal.Decimal `yaml:"surtax_rate"`
}

// IsZero reports whether no override rate is set.
func (f FlatRateOverrides) IsZero() bool {
	return f.OrdinaryRate.IsZero() && f.LongTermRate.IsZero() && f.SurtaxRate.IsZero()
}

// EngineSettings holds the formula constants for one run. Supplied once
// and treated as read-only configuration.
type EngineSettings struct {
	// GeneratorMultiplier scales generator market value into the
	// manufactured short-term gain and ordinary loss (each).
	GeneratorMultiplier decimal.Decimal `yaml:"generator_multiplier"`

	GrowthEnabled          bool `yaml:"growth_enabled"`
	GeneratorGrowthEnabled bool `yaml:"generator_growth_enabled"`

	// WashSaleFraction is the portion of gross harvested losses
	// disallowed each year.
	WashSaleFraction decimal.Decimal `yaml:"wash_sale_fraction"`

	// OrdinaryLossCaps are the statutory annual ceilings on ordinary
	// loss usage, keyed by filing status.
	OrdinaryLossCaps map[FilingStatus]decimal.Decimal `yaml:"ordinary_loss_caps"`

	// NOLUsableFraction limits NOL usage to this fraction of taxable
	// income before NOL.
	NOLUsableFraction decimal.Decimal `yaml:"nol_usable_fraction"`

	AnnualReturn    decimal.Decimal `yaml:"annual_return"`
	ProjectionYears int             `yaml:"projection_years"`

	// LossRateDecay, when positive, replaces the strategy schedule with
	// geometric decay of the year-1 rate toward LossRateFloor.
	LossRateDecay decimal.Decimal `yaml:"loss_rate_decay"`
	LossRateFloor decimal.Decimal `yaml:"loss_rate_floor"`

	// FlatRates, when non-zero, bypasses bracket lookup entirely.
	FlatRates FlatRateOverrides `yaml:"flat_rates"`
}

// DefaultSettings returns the standard configuration: 150% multiplier,
// 10-year horizon, 7% assumed return, 80% NOL limitation, and the
// 512,000/256,000 ordinary-loss caps.
func DefaultSettings() EngineSettings {
	return EngineSettings{
		GeneratorMultiplier:    decimal.NewFromFloat(1.5),
		GrowthEnabled:          true,
		GeneratorGrowthEnabled: true,
		WashSaleFraction:       decimal.Zero,
		OrdinaryLossCaps: map[FilingStatus]decimal.Decimal{
			FilingMarriedJointly:    decimal.NewFromInt(512000),
			FilingSingle:            decimal.NewFromInt(256000),
			FilingMarriedSeparately: decimal.NewFromInt(256000),
			FilingHeadOfHousehold:   decimal.NewFromInt(256000),
		},
		NOLUsableFraction: decimal.NewFromFloat(0.80),
		AnnualReturn:      decimal.NewFromFloat(0.07),
		ProjectionYears:   10,
	}
}

// OrdinaryLossCap returns the statutory cap for the filing status,
// falling back to the single-filer cap when the map omits the status.
func (s EngineSettings) OrdinaryLossCap(fs FilingStatus) decimal.Decimal {
	if cap, ok := s.OrdinaryLossCaps[fs]; ok {
		return cap
	}
	return s.OrdinaryLossCaps[FilingSingle]
}

// CapitalLossCap is the small-dollar annual ceiling on using capital
// loss carryforward against ordinary income. Two tiers: separate filers
// get half the standard cap.
func CapitalLossCap(fs FilingStatus) decimal.Decimal {
	if fs == FilingMarriedSeparately {
		return decimal.NewFromInt(1500)
	}
	return decimal.NewFromInt(3000)
}
