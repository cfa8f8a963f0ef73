package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#9F94FF"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	colorError   = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Strikethrough(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
