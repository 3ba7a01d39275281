package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("12")  // bright blue
	green  = lipgloss.Color("10")  // bright green
	gray   = lipgloss.Color("240")
	yellow = lipgloss.Color("11")
	frame  = lipgloss.Color("238") // dark gray
)

// theme groups the styles of the browser.
type theme struct {
	prompt    lipgloss.Style
	input     lipgloss.Style
	cursor    lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	otherType lipgloss.Style
	dim       lipgloss.Style
	empty     lipgloss.Style
	list      lipgloss.Style
	preview   lipgloss.Style
	status    lipgloss.Style
}

func newTheme() theme {
	panel := lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	typeCol := lipgloss.NewStyle().Width(4)
	return theme{
		prompt:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		input:     lipgloss.NewStyle().Foreground(accent).Bold(true),
		cursor:    lipgloss.NewStyle().Foreground(yellow).Bold(true),
		user:      typeCol.Foreground(accent),
		assistant: typeCol.Foreground(green),
		otherType: typeCol.Foreground(gray),
		dim:       lipgloss.NewStyle().Foreground(gray),
		empty:     lipgloss.NewStyle().Foreground(gray).Align(lipgloss.Center, lipgloss.Center),
		list:      panel.BorderForeground(frame),
		preview:   panel.BorderForeground(accent),
		status:    lipgloss.NewStyle().Foreground(gray).Padding(0, 1),
	}
}

var styles = newTheme()
