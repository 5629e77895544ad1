package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/quantfolio/taxalpha/internal/domain"
)

// CSVFormatter emits one row per simulated year.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(result *domain.CalculationResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"year", "income",
		"generator_gain", "generator_ordinary_loss",
		"harvested_loss", "long_term_gain",
		"usable_ordinary_loss", "st_gain_offset",
		"capital_loss_used", "nol_used", "nol_generated",
		"taxable_st_gain", "taxable_lt_gain",
		"st_cf_after", "lt_cf_after", "nol_cf_after",
		"net_tax_savings",
		"generator_value_after", "collateral_value_after",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, yr := range result.Years {
		record := []string{
			strconv.Itoa(yr.Year),
			yr.Income.StringFixed(2),
			yr.GeneratorGain.StringFixed(2),
			yr.GeneratorOrdinaryLoss.StringFixed(2),
			yr.HarvestedLoss.StringFixed(2),
			yr.LongTermGain.StringFixed(2),
			yr.UsableOrdinaryLoss.StringFixed(2),
			yr.ShortTermGainOffset.StringFixed(2),
			yr.CapitalLossUsed.StringFixed(2),
			yr.NOLUsed.StringFixed(2),
			yr.NOLGenerated.StringFixed(2),
			yr.TaxableShortTermGain.StringFixed(2),
			yr.TaxableLongTermGain.StringFixed(2),
			yr.ShortTermCFAfter.StringFixed(2),
			yr.LongTermCFAfter.StringFixed(2),
			yr.NOLCFAfter.StringFixed(2),
			yr.NetTaxSavings.StringFixed(2),
			yr.GeneratorValueAfter.StringFixed(2),
			yr.CollateralValueAfter.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
