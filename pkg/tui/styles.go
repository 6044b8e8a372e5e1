package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary    = lipgloss.Color("#6C8EEF")
	secondary  = lipgloss.Color("#9ECBFF")
	accent     = lipgloss.Color("#FFD787")
	successCol = lipgloss.Color("#A6E3A1")
	errorCol   = lipgloss.Color("#F38BA8")
	textCol    = lipgloss.Color("#CDD6F4")
	muted      = lipgloss.Color("#7F849C")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(primary)
	subtitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(secondary)
	labelStyle     = lipgloss.NewStyle().Foreground(textCol)
	focusedStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle     = lipgloss.NewStyle().Foreground(muted).Italic(true)
	successStyle   = lipgloss.NewStyle().Foreground(successCol)
	errorStyle     = lipgloss.NewStyle().Foreground(errorCol)
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorCol).
			Padding(1, 2)
)
