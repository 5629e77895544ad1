package output

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/taxalpha/internal/calculation"
	"github.com/quantfolio/taxalpha/internal/domain"
)

func sampleResult(t *testing.T) *domain.CalculationResult {
	t.Helper()
	profile := &domain.ClientProfile{
		FilingStatus:      domain.FilingMarriedJointly,
		AnnualIncome:      decimal.NewFromInt(1000000),
		StrategyID:        "qfaf_moderate",
		CollateralAmount:  decimal.NewFromInt(1000000),
		GeneratorEnabled:  true,
		SizingWindowYears: 1,
	}
	result, err := calculation.NewEngine().Project(profile, domain.DefaultSettings())
	require.NoError(t, err)
	return result
}

func TestGetFormatterByName(t *testing.T) {
	for _, name := range []string{"console", "csv", "json"} {
		f := GetFormatterByName(name)
		require.NotNil(t, f, "formatter %q should be registered", name)
		assert.Equal(t, name, f.Name())
	}
	assert.Nil(t, GetFormatterByName("html"))
}

func TestFormatterNames(t *testing.T) {
	assert.Equal(t, []string{"console", "csv", "json"}, FormatterNames())
}

func TestConsoleFormatter(t *testing.T) {
	data, err := ConsoleFormatter{}.Format(sampleResult(t))
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "SIZING")
	assert.Contains(t, text, "YEAR BY YEAR")
	assert.Contains(t, text, "SUMMARY")
	assert.Contains(t, text, "$")
}

func TestCSVFormatter(t *testing.T) {
	result := sampleResult(t)
	data, err := CSVFormatter{}.Format(result)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(result.Years)+1, "header plus one row per year")

	assert.Equal(t, "year", records[0][0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, result.Years[0].NetTaxSavings.StringFixed(2), records[1][16])
}

func TestJSONFormatter(t *testing.T) {
	result := sampleResult(t)
	data, err := JSONFormatter{}.Format(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, result.RunID, decoded["runId"])
	years, ok := decoded["years"].([]any)
	require.True(t, ok)
	assert.Len(t, years, len(result.Years))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$86666.67", FormatCurrency(decimal.NewFromFloat(86666.67)))
	assert.Equal(t, "13.00%", FormatPercent(decimal.NewFromFloat(0.13)))
}
