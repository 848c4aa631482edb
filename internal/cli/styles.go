package cli

import "github.com/charmbracelet/lipgloss"

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	DateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Underline(true)

	TimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	ConflictStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	NoticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)
