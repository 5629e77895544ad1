package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/quantfolio/taxalpha/internal/calculation"
	"github.com/quantfolio/taxalpha/internal/config"
	"github.com/quantfolio/taxalpha/internal/domain"
	"github.com/quantfolio/taxalpha/internal/output"
	"github.com/quantfolio/taxalpha/internal/rates"
	"github.com/quantfolio/taxalpha/internal/tui"
)

// zerologAdapter implements calculation.Logger on top of zerolog.
type zerologAdapter struct {
	log zerolog.Logger
}

func (z zerologAdapter) Debugf(format string, args ...any) { z.log.Debug().Msgf(format, args...) }
func (z zerologAdapter) Infof(format string, args ...any)  { z.log.Info().Msgf(format, args...) }
func (z zerologAdapter) Warnf(format string, args ...any)  { z.log.Warn().Msgf(format, args...) }
func (z zerologAdapter) Errorf(format string, args ...any) { z.log.Error().Msgf(format, args...) }

func newCLILogger(debugMode bool) zerologAdapter {
	level := zerolog.InfoLevel
	if debugMode {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerologAdapter{log: zerolog.New(writer).Level(level).With().Timestamp().Logger()}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "taxalpha",
	Short: "Tax-optimization strategy projection CLI",
	Long:  "Multi-year projections of paired gain-generator and loss-harvesting positions, including sizing, carryforward netting, and tax savings estimates.",
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "taxalpha %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

func loadScenario(path string) (*config.Scenario, error) {
	parser := config.NewInputParser()
	return parser.LoadFromFile(path)
}

func engineFor(scenario *config.Scenario, debugMode bool) *calculation.Engine {
	engine := calculation.NewEngine()
	if store := scenario.BuildStore(); store != nil {
		engine = calculation.NewEngineWithStore(store)
	}
	if debugMode {
		engine.SetLogger(newCLILogger(true))
	}
	return engine
}

func writeResult(cmd *cobra.Command, result *domain.CalculationResult) error {
	format, _ := cmd.Flags().GetString("format")
	formatter := output.GetFormatterByName(format)
	if formatter == nil {
		return fmt.Errorf("unknown output format %q (valid: %s)", format, strings.Join(output.FormatterNames(), ", "))
	}
	data, err := formatter.Format(result)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

var projectCmd = &cobra.Command{
	Use:   "project [scenario-file]",
	Short: "Run a multi-year projection for a scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := loadScenario(args[0])
		if err != nil {
			return err
		}

		debugMode, _ := cmd.Flags().GetBool("debug")
		engine := engineFor(scenario, debugMode)
		settings := scenario.EngineSettings()

		var result *domain.CalculationResult
		if len(scenario.Overrides) > 0 {
			result, err = engine.ProjectWithOverrides(&scenario.Profile, settings, scenario.Overrides)
		} else {
			result, err = engine.Project(&scenario.Profile, settings)
		}
		if err != nil {
			return err
		}
		return writeResult(cmd, result)
	},
}

var sizeCmd = &cobra.Command{
	Use:   "size [scenario-file]",
	Short: "Compute strategy sizing without running a full projection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := loadScenario(args[0])
		if err != nil {
			return err
		}

		sizing, err := calculation.SizeStrategy(&scenario.Profile, scenario.EngineSettings())
		if err != nil {
			return err
		}

		fmt.Printf("Strategy:          %s\n", scenario.Profile.StrategyID)
		fmt.Printf("Generator:         %s\n", output.FormatCurrency(sizing.GeneratorValue))
		fmt.Printf("Collateral:        %s\n", output.FormatCurrency(sizing.CollateralValue))
		fmt.Printf("Total exposure:    %s\n", output.FormatCurrency(sizing.TotalExposure))
		fmt.Printf("Avg loss rate:     %s (%d-year window)\n", output.FormatPercent(sizing.AverageLossRate), sizing.SizingWindowYears)
		fmt.Printf("Year 1 ord. loss:  %s\n", output.FormatCurrency(sizing.Year1GeneratedLoss))
		fmt.Printf("Year 1 usable:     %s (cap %s)\n", output.FormatCurrency(sizing.Year1UsableLoss), output.FormatCurrency(sizing.StatutoryCap))
		if sizing.Year1ExcessToNOL.IsPositive() {
			fmt.Printf("Year 1 NOL excess: %s\n", output.FormatCurrency(sizing.Year1ExcessToNOL))
		}
		if sizing.ManualOverride {
			fmt.Println("Generator value set by manual override")
		}
		return nil
	},
}

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [scenario-file]",
	Short: "Run a projection with rate and return perturbations",
	Long: `Run a projection with the scenario's sensitivity block applied,
or sweep the built-in bull/base/bear cases with --sweep.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := loadScenario(args[0])
		if err != nil {
			return err
		}

		debugMode, _ := cmd.Flags().GetBool("debug")
		engine := engineFor(scenario, debugMode)
		settings := scenario.EngineSettings()

		sweep, _ := cmd.Flags().GetBool("sweep")
		if sweep {
			cases, err := engine.SweepScenarios(&scenario.Profile, settings)
			if err != nil {
				return err
			}
			for _, c := range cases {
				sum := c.Result.Summary
				fmt.Printf("%-6s savings %14s  NOL %14s  alpha %s\n",
					c.Name,
					output.FormatCurrency(sum.CumulativeTaxSavings),
					output.FormatCurrency(sum.CumulativeNOL),
					output.FormatPercent(sum.TaxAlpha))
			}
			return nil
		}

		input := domain.SensitivityInput{}
		if scenario.Sensitivity != nil {
			input = *scenario.Sensitivity
		}
		if v, _ := cmd.Flags().GetFloat64("federal-delta"); v != 0 {
			input.FederalRateDelta = decimal.NewFromFloat(v)
		}
		if v, _ := cmd.Flags().GetFloat64("state-delta"); v != 0 {
			input.StateRateDelta = decimal.NewFromFloat(v)
		}

		result, err := engine.ProjectWithSensitivity(&scenario.Profile, settings, input)
		if err != nil {
			return err
		}
		return writeResult(cmd, result)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [scenario-file]",
	Short: "Validate a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadScenario(args[0]); err != nil {
			return err
		}
		fmt.Printf("Scenario file %s is valid\n", args[0])
		return nil
	},
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List built-in strategy rate schedules",
	Run: func(cmd *cobra.Command, args []string) {
		for _, id := range rates.StrategyIDs() {
			strategy, _ := rates.LookupStrategy(id)
			fmt.Printf("%-20s year-1 loss %s, LT gain %s, financing %s\n",
				id,
				output.FormatPercent(strategy.Year1STLossRate()),
				output.FormatPercent(strategy.LTGainRate),
				output.FormatPercent(strategy.FinancingRate))
		}
	},
}

var exploreCmd = &cobra.Command{
	Use:   "explore [scenario-file]",
	Short: "Interactively explore projection inputs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := loadScenario(args[0])
		if err != nil {
			return err
		}
		model := tui.NewModel(&scenario.Profile, scenario.EngineSettings())
		_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	projectCmd.Flags().StringP("format", "f", "console", "Output format (console, csv, json)")
	projectCmd.Flags().Bool("debug", false, "Enable debug output for per-year calculations")

	sensitivityCmd.Flags().StringP("format", "f", "console", "Output format (console, csv, json)")
	sensitivityCmd.Flags().Bool("debug", false, "Enable debug output for per-year calculations")
	sensitivityCmd.Flags().Bool("sweep", false, "Run the built-in bull/base/bear sweep")
	sensitivityCmd.Flags().Float64("federal-delta", 0, "Additive federal rate delta, e.g. 0.02")
	sensitivityCmd.Flags().Float64("state-delta", 0, "Additive state rate delta, e.g. -0.01")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(sizeCmd)
	rootCmd.AddCommand(sensitivityCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(strategiesCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
