package tui

import "github.com/charmbracelet/lipgloss"

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	docStyle = lipgloss.NewStyle().Padding(1, 2)

	habitNameStyle = lipgloss.NewStyle().
			Width(22).
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = habitNameStyle.
				Foreground(lipgloss.Color("205")).
				Bold(true)

	dayHeaderStyle = lipgloss.NewStyle().
			Width(5).
			Align(lipgloss.Center).
			Foreground(lipgloss.Color("241"))

	todayHeaderStyle = dayHeaderStyle.
				Foreground(lipgloss.Color("205")).
				Bold(true)

	cellStyle = lipgloss.NewStyle().
			Width(5).
			Align(lipgloss.Center)

	cursorCellStyle = cellStyle.
			Background(lipgloss.Color("236"))

	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	partialStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	missedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	swipeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)
