package rates

import (
	"github.com/quantfolio/taxalpha/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX RATE ASSUMPTIONS:
//
// 1. Federal ordinary and long-term brackets use the 2025 tables for
//    all projection years. No inflation indexing is applied.
// 2. State tax is a flat rate supplied on the profile.
// 3. The net investment income surtax (3.8%) applies above the
//    filing-status threshold.

// Bracket is one marginal federal bracket.
type Bracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// SurtaxRate is the statutory net-investment-income surtax.
var SurtaxRate = decimal.NewFromFloat(0.038)

func bracket(min, max int64, rate float64) Bracket {
	return Bracket{
		Min:  decimal.NewFromInt(min),
		Max:  decimal.NewFromInt(max),
		Rate: decimal.NewFromFloat(rate),
	}
}

const bracketTop = 999999999

var ordinaryBrackets = map[domain.FilingStatus][]Bracket{
	domain.FilingSingle: {
		bracket(0, 11925, 0.10),
		bracket(11925, 48475, 0.12),
		bracket(48475, 103350, 0.22),
		bracket(103350, 197300, 0.24),
		bracket(197300, 250525, 0.32),
		bracket(250525, 626350, 0.35),
		bracket(626350, bracketTop, 0.37),
	},
	domain.FilingMarriedJointly: {
		bracket(0, 23850, 0.10),
		bracket(23850, 96950, 0.12),
		bracket(96950, 206700, 0.22),
		bracket(206700, 394600, 0.24),
		bracket(394600, 501050, 0.32),
		bracket(501050, 751600, 0.35),
		bracket(751600, bracketTop, 0.37),
	},
	domain.FilingMarriedSeparately: {
		bracket(0, 11925, 0.10),
		bracket(11925, 48475, 0.12),
		bracket(48475, 103350, 0.22),
		bracket(103350, 197300, 0.24),
		bracket(197300, 250525, 0.32),
		bracket(250525, 375800, 0.35),
		bracket(375800, bracketTop, 0.37),
	},
	domain.FilingHeadOfHousehold: {
		bracket(0, 17000, 0.10),
		bracket(17000, 64850, 0.12),
		bracket(64850, 103350, 0.22),
		bracket(103350, 197300, 0.24),
		bracket(197300, 250500, 0.32),
		bracket(250500, 626350, 0.35),
		bracket(626350, bracketTop, 0.37),
	},
}

var longTermBrackets = map[domain.FilingStatus][]Bracket{
	domain.FilingSingle: {
		bracket(0, 48350, 0.00),
		bracket(48350, 533400, 0.15),
		bracket(533400, bracketTop, 0.20),
	},
	domain.FilingMarriedJointly: {
		bracket(0, 96700, 0.00),
		bracket(96700, 600050, 0.15),
		bracket(600050, bracketTop, 0.20),
	},
	domain.FilingMarriedSeparately: {
		bracket(0, 48350, 0.00),
		bracket(48350, 300000, 0.15),
		bracket(300000, bracketTop, 0.20),
	},
	domain.FilingHeadOfHousehold: {
		bracket(0, 64750, 0.00),
		bracket(64750, 566700, 0.15),
		bracket(566700, bracketTop, 0.20),
	},
}

var surtaxThresholds = map[domain.FilingStatus]decimal.Decimal{
	domain.FilingSingle:            decimal.NewFromInt(200000),
	domain.FilingMarriedJointly:    decimal.NewFromInt(250000),
	domain.FilingMarriedSeparately: decimal.NewFromInt(125000),
	domain.FilingHeadOfHousehold:   decimal.NewFromInt(200000),
}

func marginalRate(brackets []Bracket, income decimal.Decimal) decimal.Decimal {
	if len(brackets) == 0 {
		return decimal.Zero
	}
	for _, b := range brackets {
		if income.LessThan(b.Max) {
			return b.Rate
		}
	}
	return brackets[len(brackets)-1].Rate
}

// OrdinaryRate returns the marginal federal ordinary-income rate for
// the income and filing status.
func OrdinaryRate(income decimal.Decimal, fs domain.FilingStatus) decimal.Decimal {
	return marginalRate(ordinaryBrackets[fs], income)
}

// LongTermRate returns the marginal federal long-term capital gains
// rate for the income and filing status.
func LongTermRate(income decimal.Decimal, fs domain.FilingStatus) decimal.Decimal {
	return marginalRate(longTermBrackets[fs], income)
}

// SurtaxApplies reports whether the net-investment-income surtax kicks
// in at the given income for the filing status.
func SurtaxApplies(income decimal.Decimal, fs domain.FilingStatus) bool {
	threshold, ok := surtaxThresholds[fs]
	if !ok {
		return false
	}
	return income.GreaterThan(threshold)
}
