package plan

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	section  lipgloss.Style
	heading  lipgloss.Style
	remove   lipgloss.Style
	install  lipgloss.Style
	update   lipgloss.Style
	detail   lipgloss.Style
	success  lipgloss.Style
	warning  lipgloss.Style
	empty    lipgloss.Style
	conflict lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		section:  lipgloss.NewStyle().MarginTop(1),
		heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		remove:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		install:  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		update:   lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		success:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		empty:    lipgloss.NewStyle().Faint(true),
		conflict: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
}
