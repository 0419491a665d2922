package tui

import (
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#6B7280")
	danger = lipgloss.Color("#E53935")
	border = lipgloss.Color("#2A3850")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(accent)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(muted)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(accent).Underline(true)
	statusStyle    = lipgloss.NewStyle().Foreground(muted)
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(danger)
	helpStyle      = lipgloss.NewStyle().Foreground(muted).Italic(true)
	paneStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
	cursorStyle    = lipgloss.NewStyle().Foreground(accent).Bold(true)
	excludedStyle  = lipgloss.NewStyle().Foreground(muted).Strikethrough(true)
)

func gridStyles() btable.Styles {
	s := btable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(border).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#101F38")).
		Background(accent).
		Bold(false)
	return s
}
