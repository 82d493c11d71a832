package cli

import "github.com/charmbracelet/lipgloss"

var (
	colorOK      = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorDanger  = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(14)

	statusOKStyle = lipgloss.NewStyle().
			Foreground(colorOK).
			Bold(true)

	statusDegradedStyle = lipgloss.NewStyle().
				Foreground(colorWarning).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			PaddingLeft(2)
)
