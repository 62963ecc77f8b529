package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	// Input area
	inputPromptStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Bold(true)

	// Results
	labelStyle = lipgloss.NewStyle().Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(successColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(primaryColor)
)
