package output

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/quantfolio/taxalpha/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1)
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(28)
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)
)

// ConsoleFormatter renders a styled plain-text report.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(result *domain.CalculationResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, titleStyle.Render("TAX ALPHA PROJECTION"))
	fmt.Fprintf(&buf, "run %s\n\n", result.RunID)

	s := result.Sizing
	fmt.Fprintln(&buf, sectionStyle.Render("SIZING"))
	row(&buf, "Generator position", FormatCurrency(s.GeneratorValue))
	row(&buf, "Collateral position", FormatCurrency(s.CollateralValue))
	row(&buf, "Total exposure", FormatCurrency(s.TotalExposure))
	row(&buf, "Average loss rate", FormatPercent(s.AverageLossRate))
	row(&buf, "Sizing window", fmt.Sprintf("%d year(s)", s.SizingWindowYears))
	row(&buf, "Year-1 generated gain", FormatCurrency(s.Year1GeneratedGain))
	row(&buf, "Year-1 harvested loss", FormatCurrency(s.Year1HarvestedLoss))
	row(&buf, "Statutory cap", FormatCurrency(s.StatutoryCap))
	row(&buf, "Year-1 excess to NOL", FormatCurrency(s.Year1ExcessToNOL))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, sectionStyle.Render("YEAR BY YEAR"))
	fmt.Fprintln(&buf, headerStyle.Render(fmt.Sprintf("%-5s %14s %14s %14s %14s %14s %14s",
		"Year", "Ord Loss Used", "ST CF After", "LT CF After", "NOL After", "NOL Used", "Net Savings")))
	for _, yr := range result.Years {
		fmt.Fprintf(&buf, "%-5d %14s %14s %14s %14s %14s %14s\n",
			yr.Year,
			yr.UsableOrdinaryLoss.StringFixed(0),
			yr.ShortTermCFAfter.StringFixed(0),
			yr.LongTermCFAfter.StringFixed(0),
			yr.NOLCFAfter.StringFixed(0),
			yr.NOLUsed.StringFixed(0),
			yr.NetTaxSavings.StringFixed(0),
		)
	}
	fmt.Fprintln(&buf)

	sum := result.Summary
	fmt.Fprintln(&buf, sectionStyle.Render("SUMMARY"))
	row(&buf, "Cumulative tax savings", FormatCurrency(sum.CumulativeTaxSavings))
	row(&buf, "Cumulative NOL generated", FormatCurrency(sum.CumulativeNOL))
	row(&buf, "Final portfolio value", FormatCurrency(sum.FinalPortfolioValue))
	row(&buf, "Tax alpha (annualized)", FormatPercent(sum.TaxAlpha))
	if !sum.TotalInfusions.IsZero() {
		row(&buf, "Total cash infusions", FormatCurrency(sum.TotalInfusions))
	}

	return buf.Bytes(), nil
}

func row(buf *bytes.Buffer, label, value string) {
	fmt.Fprintf(buf, "%s %s\n", labelStyle.Render(label), value)
}
