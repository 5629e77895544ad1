package config

import (
	"fmt"
	"os"

	"github.com/quantfolio/taxalpha/internal/domain"
	"github.com/quantfolio/taxalpha/internal/rates"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Scenario is one loadable scenario file: the client profile plus
// optional settings overrides, per-year overrides, sensitivity input,
// and external rate overrides.
type Scenario struct {
	Profile     domain.ClientProfile        `yaml:"profile"`
	Settings    *SettingsDoc                `yaml:"settings,omitempty"`
	Overrides   map[int]domain.YearOverride `yaml:"overrides,omitempty"`
	Sensitivity *domain.SensitivityInput    `yaml:"sensitivity,omitempty"`

	// RateOverrides seed the external rate-override store before a run.
	RateOverrides []RateOverride `yaml:"rate_overrides,omitempty"`
}

// RateOverride pins a base short-term loss rate for one strategy-year.
type RateOverride struct {
	StrategyID string          `yaml:"strategy_id"`
	Year       int             `yaml:"year"`
	Rate       decimal.Decimal `yaml:"rate"`
}

// SettingsDoc is the YAML shape of EngineSettings. Every field is
// optional; nil fields keep the engine defaults.
type SettingsDoc struct {
	GeneratorMultiplier    *decimal.Decimal           `yaml:"generator_multiplier,omitempty"`
	GrowthEnabled          *bool                      `yaml:"growth_enabled,omitempty"`
	GeneratorGrowthEnabled *bool                      `yaml:"generator_growth_enabled,omitempty"`
	WashSaleFraction       *decimal.Decimal           `yaml:"wash_sale_fraction,omitempty"`
	OrdinaryLossCaps       map[string]decimal.Decimal `yaml:"ordinary_loss_caps,omitempty"`
	NOLUsableFraction      *decimal.Decimal           `yaml:"nol_usable_fraction,omitempty"`
	AnnualReturn           *decimal.Decimal           `yaml:"annual_return,omitempty"`
	ProjectionYears        *int                       `yaml:"projection_years,omitempty"`
	LossRateDecay          *decimal.Decimal           `yaml:"loss_rate_decay,omitempty"`
	LossRateFloor          *decimal.Decimal           `yaml:"loss_rate_floor,omitempty"`
	FlatRates              *domain.FlatRateOverrides  `yaml:"flat_rates,omitempty"`
}

// Apply layers the document's set fields onto a base settings value.
func (d *SettingsDoc) Apply(base domain.EngineSettings) domain.EngineSettings {
	if d == nil {
		return base
	}
	out := base
	if d.GeneratorMultiplier != nil {
		out.GeneratorMultiplier = *d.GeneratorMultiplier
	}
	if d.GrowthEnabled != nil {
		out.GrowthEnabled = *d.GrowthEnabled
	}
	if d.GeneratorGrowthEnabled != nil {
		out.GeneratorGrowthEnabled = *d.GeneratorGrowthEnabled
	}
	if d.WashSaleFraction != nil {
		out.WashSaleFraction = *d.WashSaleFraction
	}
	if len(d.OrdinaryLossCaps) > 0 {
		caps := make(map[domain.FilingStatus]decimal.Decimal, len(d.OrdinaryLossCaps))
		for k, v := range base.OrdinaryLossCaps {
			caps[k] = v
		}
		for k, v := range d.OrdinaryLossCaps {
			caps[domain.FilingStatus(k)] = v
		}
		out.OrdinaryLossCaps = caps
	}
	if d.NOLUsableFraction != nil {
		out.NOLUsableFraction = *d.NOLUsableFraction
	}
	if d.AnnualReturn != nil {
		out.AnnualReturn = *d.AnnualReturn
	}
	if d.ProjectionYears != nil {
		out.ProjectionYears = *d.ProjectionYears
	}
	if d.LossRateDecay != nil {
		out.LossRateDecay = *d.LossRateDecay
	}
	if d.LossRateFloor != nil {
		out.LossRateFloor = *d.LossRateFloor
	}
	if d.FlatRates != nil {
		out.FlatRates = *d.FlatRates
	}
	return out
}

// InputParser handles parsing and validation of scenario files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a scenario from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.Validate(&scenario); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}
	return &scenario, nil
}

// Validate performs field-level validation of a loaded scenario.
func (ip *InputParser) Validate(s *Scenario) error {
	if err := s.Profile.Validate(); err != nil {
		return err
	}
	if _, err := rates.LookupStrategy(s.Profile.StrategyID); err != nil {
		return err
	}

	if s.Settings != nil {
		if s.Settings.ProjectionYears != nil {
			if y := *s.Settings.ProjectionYears; y < 1 || y > 50 {
				return fmt.Errorf("projection years must be between 1 and 50")
			}
		}
		if s.Settings.GeneratorMultiplier != nil && s.Settings.GeneratorMultiplier.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("generator multiplier must be positive")
		}
		if s.Settings.WashSaleFraction != nil {
			w := *s.Settings.WashSaleFraction
			if w.LessThan(decimal.Zero) || w.GreaterThanOrEqual(decimal.NewFromInt(1)) {
				return fmt.Errorf("wash sale fraction must be in [0, 1)")
			}
		}
		if s.Settings.NOLUsableFraction != nil {
			f := *s.Settings.NOLUsableFraction
			if f.LessThan(decimal.Zero) || f.GreaterThan(decimal.NewFromInt(1)) {
				return fmt.Errorf("NOL usable fraction must be in [0, 1]")
			}
		}
		for status := range s.Settings.OrdinaryLossCaps {
			if _, err := domain.ParseFilingStatus(status); err != nil {
				return fmt.Errorf("ordinary loss caps: %w", err)
			}
		}
	}

	for year, ov := range s.Overrides {
		if year < 1 {
			return fmt.Errorf("override year %d: years are 1-based", year)
		}
		if ov.Income != nil && ov.Income.LessThan(decimal.Zero) {
			return fmt.Errorf("override year %d: income cannot be negative", year)
		}
		if ov.CashInfusion != nil && ov.CashInfusion.LessThan(decimal.Zero) {
			return fmt.Errorf("override year %d: cash infusion cannot be negative", year)
		}
	}

	for i, ro := range s.RateOverrides {
		if _, err := rates.LookupStrategy(ro.StrategyID); err != nil {
			return fmt.Errorf("rate override %d: %w", i, err)
		}
		if ro.Year < 1 {
			return fmt.Errorf("rate override %d: years are 1-based", i)
		}
		if ro.Rate.LessThan(decimal.Zero) || ro.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("rate override %d: rate must be in [0, 1)", i)
		}
	}

	if s.Sensitivity != nil {
		if s.Sensitivity.STLossVariance.LessThan(decimal.Zero) || s.Sensitivity.LTGainVariance.LessThan(decimal.Zero) {
			return fmt.Errorf("sensitivity variances cannot be negative")
		}
	}

	return nil
}

// EngineSettings resolves the scenario's effective settings over the
// defaults.
func (s *Scenario) EngineSettings() domain.EngineSettings {
	return s.Settings.Apply(domain.DefaultSettings())
}

// BuildStore seeds an override store from the scenario's rate
// overrides. Returns nil when the scenario carries none.
func (s *Scenario) BuildStore() *rates.MemoryStore {
	if len(s.RateOverrides) == 0 {
		return nil
	}
	store := rates.NewMemoryStore()
	for _, ro := range s.RateOverrides {
		store.Set(ro.StrategyID, ro.Year, ro.Rate)
	}
	return store
}
