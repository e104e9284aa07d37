package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateWeek:
		content = m.viewWeek()
	case StateToday:
		content = m.agenda.View()
	}

	parts := []string{m.viewTabs(), docStyle.Render(content)}
	if m.err != nil {
		parts = append(parts, dangerStyle.Render("Error: "+m.err.Error()))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewWeek() string {
	if len(m.week.Dates) == 0 {
		return "Loading week..."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Week of %s", m.week.Dates[0]))
	if off := m.swipeOffset(); off != 0 {
		b.WriteString(swipeStyle.Render(fmt.Sprintf("  swiping %+.1f weeks", off)))
	}
	b.WriteString("\n\n")

	header := []string{habitNameStyle.Render("")}
	for _, d := range m.week.Dates {
		style := dayHeaderStyle
		if d == m.today {
			style = todayHeaderStyle
		}
		header = append(header, style.Render(dayLabel(d)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...) + "\n")

	if len(m.week.Rows) == 0 {
		b.WriteString("\nNo active habits. Add one with 'matic habit add'.")
		return b.String()
	}

	for i, row := range m.week.Rows {
		name := habitNameStyle.Render(truncate(row.Habit.Name, 20))
		if i == m.row {
			name = selectedRowStyle.Render(truncate(row.Habit.Name, 20))
		}
		cells := []string{name}
		for j, cell := range row.Cells {
			style := cellStyle
			if i == m.row && j == m.col {
				style = cursorCellStyle
			}
			cells = append(cells, style.Render(cellGlyph(cell)))
		}
		cells = append(cells, fmt.Sprintf(" %d/%d", row.DoneCount, row.DueCount))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n")
	}
	return b.String()
}

func dayLabel(date string) string {
	d, err := utils.ParseDate(date)
	if err != nil {
		return date
	}
	return d.Format("Mon")[:2] + " " + d.Format("02")
}

func cellGlyph(cell utils.WeekCell) string {
	switch cell.State {
	case constants.ProgressCompleted:
		return completedStyle.Render("●")
	case constants.ProgressPartial:
		return partialStyle.Render("◐")
	}
	if cell.Due {
		return missedStyle.Render("○")
	}
	return missedStyle.Render("·")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
