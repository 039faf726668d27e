package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1a365d")).MarginBottom(1)

	labelStyle        = lipgloss.NewStyle().Bold(true)
	focusedLabelStyle = labelStyle.Copy().Foreground(lipgloss.Color("#2c5282"))

	buttonStyle         = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#1a365d"))
	disabledButtonStyle = buttonStyle.Copy().Background(lipgloss.Color("#9ca3af"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#dc2626")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ef4444")).
			Padding(0, 1)

	contentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#e5e7eb")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)
