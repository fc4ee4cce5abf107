package summary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/models"
)

const barWidth = 20

var (
	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(16)

	filledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)
)

type Model struct {
	viewport viewport.Model
	Summary  []models.DaySummary
	loaded   bool
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
	if !m.loaded {
		return "Loading summary..."
	}
	if len(m.Summary) == 0 {
		return "No tracked days yet."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetSummary(summary []models.DaySummary) {
	m.Summary = summary
	m.loaded = true
	m.Render()
}

// Render lists the most recent day first
func (m *Model) Render() {
	var b strings.Builder
	for i := len(m.Summary) - 1; i >= 0; i-- {
		day := m.Summary[i]
		label := fmt.Sprintf("%s %s", calendar.Format(day.Date), day.Date.Weekday().String()[:3])
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			dateStyle.Render(label),
			Bar(day.Completed, day.Possible),
			countStyle.Render(fmt.Sprintf("%d/%d", day.Completed, day.Possible)),
		))
	}
	m.viewport.SetContent(b.String())
}

// Bar renders completed/possible as a fixed-width bar
func Bar(completed, possible int) string {
	filled := 0
	switch {
	case possible > 0 && completed < possible:
		filled = completed * barWidth / possible
	case completed > 0:
		filled = barWidth
	}
	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", barWidth-filled))
}
