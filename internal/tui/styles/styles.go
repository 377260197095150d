package styles

import (
	"github.com/buemura/recon/pkg/types"
	"github.com/charmbracelet/lipgloss"
)

// Risk colors.
var (
	ColorHigh   = lipgloss.Color("#FF3B30")
	ColorMedium = lipgloss.Color("#FFCC00")
	ColorLow    = lipgloss.Color("#00CC00")
	ColorMuted  = lipgloss.Color("#666666")
	ColorAccent = lipgloss.Color("#7D56F4")
)

// Styles used across TUI views.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(ColorAccent).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			MarginBottom(1)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	CursorStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorHigh).
			Bold(true)

	RiskHighStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorHigh)
	RiskMediumStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorMedium)
	RiskLowStyle    = lipgloss.NewStyle().Foreground(ColorLow)

	PortOpenStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorMedium)
	PortClosedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
)

// RiskStyle returns the style for a risk tier.
func RiskStyle(risk types.Risk) lipgloss.Style {
	switch risk {
	case types.RiskHigh:
		return RiskHighStyle
	case types.RiskMedium:
		return RiskMediumStyle
	case types.RiskLow:
		return RiskLowStyle
	default:
		return lipgloss.NewStyle()
	}
}

// PortStyle returns the style for a port status.
func PortStyle(status types.PortStatus) lipgloss.Style {
	if status == types.PortOpen {
		return PortOpenStyle
	}
	return PortClosedStyle
}
