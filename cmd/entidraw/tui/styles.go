package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/entidraw/entidraw/pkg/document"
)

var (
	// Color palette
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorText    = lipgloss.Color("#F3F4F6")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(lipgloss.Color("#1F2937")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	dirtyStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	savedStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	renameBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

	// Cell paint classes for the canvas grid, in increasing priority.
	entityStyle = lipgloss.NewStyle().Foreground(colorText)
	edgeStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	netStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	linkStyle   = lipgloss.NewStyle().Foreground(colorWarning)
)

// FormatKey formats one help entry.
func FormatKey(key, description string) string {
	return helpKeyStyle.Render(key) + " " + mutedStyle.Render(description)
}

// accentStyle renders in a presence accent color.
func accentStyle(c document.Color) lipgloss.Style {
	hex := fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(true)
}
