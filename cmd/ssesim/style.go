package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	headStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

func kv(key string, value any) string {
	return keyStyle.Render(key) + valueStyle.Render(fmtValue(value))
}
