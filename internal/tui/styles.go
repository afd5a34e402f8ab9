// Package tui renders barqctl's live "top" dashboard: grid coverage, the
// active-repositioning roster, and recent rebalance cycles, polling the
// engine on a tick in the teacher's bubbletea dashboard style
// (cortex-key-vault's internal/tui/screens).
package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#7C3AED")
	success = lipgloss.Color("#10B981")
	warning = lipgloss.Color("#F59E0B")
	danger  = lipgloss.Color("#EF4444")
	muted   = lipgloss.AdaptiveColor{Light: "#737373", Dark: "#737373"}

	headerStyle = lipgloss.NewStyle().Foreground(primary).Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#888888")).
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(muted)

	statusBarStyle = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
)

func coverageColor(state string) lipgloss.Color {
	switch state {
	case "underserved":
		return danger
	case "overserved":
		return warning
	default:
		return success
	}
}
