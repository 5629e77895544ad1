package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/quantfolio/taxalpha/internal/calculation"
	"github.com/quantfolio/taxalpha/internal/domain"
	"github.com/quantfolio/taxalpha/internal/output"
	"github.com/quantfolio/taxalpha/internal/rates"
)

const (
	fieldCollateral = iota
	fieldIncome
	fieldStrategy
	fieldFilingStatus
	fieldCount
)

// Model is the interactive parameter explorer: edit the core scenario
// inputs, re-project on every change, and watch the summary update.
type Model struct {
	inputs  []textinput.Model
	focused int

	settings domain.EngineSettings
	engine   *calculation.Engine

	result *domain.CalculationResult
	err    error

	width  int
	height int
}

// NewModel builds an explorer seeded from a profile.
func NewModel(profile *domain.ClientProfile, settings domain.EngineSettings) Model {
	mk := func(placeholder, value string) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.SetValue(value)
		in.CharLimit = 40
		in.Width = 24
		return in
	}

	inputs := make([]textinput.Model, fieldCount)
	inputs[fieldCollateral] = mk("collateral", profile.CollateralAmount.StringFixed(0))
	inputs[fieldIncome] = mk("annual income", profile.AnnualIncome.StringFixed(0))
	inputs[fieldStrategy] = mk("strategy", profile.StrategyID)
	inputs[fieldFilingStatus] = mk("filing status", string(profile.FilingStatus))
	inputs[0].Focus()

	return Model{
		inputs:   inputs,
		settings: settings,
		engine:   calculation.NewEngine(),
	}
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return m.project()
}

type resultMsg struct {
	result *domain.CalculationResult
	err    error
}

func (m Model) project() tea.Cmd {
	profile, err := m.profileFromInputs()
	if err != nil {
		return func() tea.Msg { return resultMsg{err: err} }
	}
	engine := m.engine
	settings := m.settings
	return func() tea.Msg {
		result, err := engine.Project(profile, settings)
		return resultMsg{result: result, err: err}
	}
}

func (m Model) profileFromInputs() (*domain.ClientProfile, error) {
	collateral, err := decimal.NewFromString(strings.TrimSpace(m.inputs[fieldCollateral].Value()))
	if err != nil {
		return nil, fmt.Errorf("collateral: %w", err)
	}
	income, err := decimal.NewFromString(strings.TrimSpace(m.inputs[fieldIncome].Value()))
	if err != nil {
		return nil, fmt.Errorf("income: %w", err)
	}
	fs, err := domain.ParseFilingStatus(strings.TrimSpace(m.inputs[fieldFilingStatus].Value()))
	if err != nil {
		return nil, err
	}
	return &domain.ClientProfile{
		FilingStatus:      fs,
		AnnualIncome:      income,
		StrategyID:        strings.TrimSpace(m.inputs[fieldStrategy].Value()),
		CollateralAmount:  collateral,
		GeneratorEnabled:  true,
		SizingWindowYears: 1,
	}, nil
}

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case resultMsg:
		m.result = msg.result
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "tab", "down":
			m = m.focusField((m.focused + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m = m.focusField((m.focused + fieldCount - 1) % fieldCount)
			return m, nil
		case "enter":
			return m, m.project()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m Model) focusField(i int) Model {
	m.inputs[m.focused].Blur()
	m.focused = i
	m.inputs[m.focused].Focus()
	return m
}

// View satisfies tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("taxalpha explorer"))
	b.WriteString("\n\n")

	labels := []string{"Collateral", "Income", "Strategy", "Filing status"}
	for i, in := range m.inputs {
		label := labelStyle.Render(labels[i])
		if i == m.focused {
			label = focusedLabelStyle.Render(labels[i])
		}
		fmt.Fprintf(&b, "%s %s\n", label, in.View())
	}
	b.WriteString(helpStyle.Render("\nknown strategies: " + strings.Join(rates.StrategyIDs(), ", ")))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
	case m.result != nil:
		sum := m.result.Summary
		b.WriteString(summaryBoxStyle.Render(strings.Join([]string{
			"Generator:    " + output.FormatCurrency(m.result.Sizing.GeneratorValue),
			"Cum. savings: " + output.FormatCurrency(sum.CumulativeTaxSavings),
			"Cum. NOL:     " + output.FormatCurrency(sum.CumulativeNOL),
			"Tax alpha:    " + output.FormatPercent(sum.TaxAlpha),
		}, "\n")))
	}

	b.WriteString(helpStyle.Render("\n\ntab: next field • enter: recalculate • q: quit\n"))
	return b.String()
}
