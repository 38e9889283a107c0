package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	detail     lipgloss.Style
	warning    lipgloss.Style
	pairing    lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	stateReady lipgloss.Style
	stateWait  lipgloss.Style
	stateDown  lipgloss.Style
	stateDead  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		pairing:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		stateReady: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		stateWait:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		stateDown:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("241")),
		stateDead:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}
