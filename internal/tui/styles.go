package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	focusedLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).Width(16)
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	summaryBoxStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")).
				Padding(0, 2)
)
