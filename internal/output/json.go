package output

import (
	"encoding/json"

	"github.com/quantfolio/taxalpha/internal/domain"
)

// JSONFormatter emits the full calculation result as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(result *domain.CalculationResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
