package agenda

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/scheduler"
)

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(8)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Strikethrough(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginTop(1)
)

// Model renders one day's agenda in a scrollable viewport.
type Model struct {
	viewport viewport.Model
	Agenda   *scheduler.Agenda
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Agenda == nil {
		return "Loading agenda..."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetAgenda(a scheduler.Agenda) {
	m.Agenda = &a
	m.Render()
}

func (m *Model) Render() {
	if m.Agenda == nil {
		m.viewport.SetContent("No agenda loaded.")
		return
	}
	m.viewport.SetContent(Render(*m.Agenda))
}

// Render formats an agenda as plain styled lines.
func Render(a scheduler.Agenda) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  habits %d/%d  tasks %d/%d\n",
		titleStyle.Render(a.Date), a.HabitsDone, a.HabitsDue, a.TasksDone, a.TasksDue)

	if len(a.Timed) == 0 && len(a.Anytime) == 0 {
		b.WriteString(statusStyle.Render("Nothing due today."))
		return b.String()
	}
	if len(a.Timed) > 0 {
		b.WriteString(headerStyle.Render("Scheduled") + "\n")
		for _, it := range a.Timed {
			b.WriteString(line(it.Time, it) + "\n")
		}
	}
	if len(a.Anytime) > 0 {
		b.WriteString(headerStyle.Render("Anytime") + "\n")
		for _, it := range a.Anytime {
			b.WriteString(line("", it) + "\n")
		}
	}
	return b.String()
}

func line(clock string, it scheduler.Item) string {
	title := titleStyle.Render(it.Title)
	if it.Done {
		title = doneStyle.Render(it.Title)
	}
	status := string(it.Kind)
	if it.Kind == scheduler.KindHabit && it.State != constants.ProgressNone && it.State != "" {
		status += " · " + string(it.State)
	}
	if it.Category != "" {
		status += " · " + it.Category
	}
	return fmt.Sprintf("%s %s %s", timeStyle.Render(clock), title, statusStyle.Render(status))
}
