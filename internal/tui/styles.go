package tui

import "github.com/charmbracelet/lipgloss"

var (
	Cyan   = lipgloss.Color("#22D3EE")
	Green  = lipgloss.Color("#10B981")
	Yellow = lipgloss.Color("#FACC15")
	Muted  = lipgloss.Color("#9CA3AF")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan)

	BarsStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Green)

	InfoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Yellow)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted)
)

// Panel returns a rounded panel of the given border color.
func Panel(border lipgloss.Color, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width).
		Align(lipgloss.Center)
}
