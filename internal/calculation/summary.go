package calculation

import (
	"github.com/quantfolio/taxalpha/internal/domain"
	"github.com/shopspring/decimal"
)

// buildSummary reduces the year sequence into run totals. Tax alpha is
// annualized savings over total strategy exposure; a zero exposure
// degenerates to zero alpha rather than an error.
func buildSummary(sizing *domain.CalculatedSizing, years []domain.YearResult, totalInfusions decimal.Decimal, horizon int) domain.Summary {
	cumSavings := decimal.Zero
	cumNOL := decimal.Zero
	for _, yr := range years {
		cumSavings = cumSavings.Add(yr.NetTaxSavings)
		cumNOL = cumNOL.Add(yr.NOLGenerated)
	}

	finalPortfolio := decimal.Zero
	if n := len(years); n > 0 {
		last := years[n-1]
		finalPortfolio = last.GeneratorValueAfter.Add(last.CollateralValueAfter)
	}

	annualized := cumSavings
	if horizon > 0 {
		annualized = cumSavings.Div(decimal.NewFromInt(int64(horizon)))
	}

	return domain.Summary{
		CumulativeTaxSavings: cumSavings,
		CumulativeNOL:        cumNOL,
		FinalPortfolioValue:  finalPortfolio,
		TaxAlpha:             safeDiv(annualized, sizing.TotalExposure),
		TotalInfusions:       totalInfusions,
	}
}
