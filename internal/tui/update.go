package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/tui/components/habitlist"
)

// rows taken by tabs, date header, status line and help
const chromeHeight = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.habitList.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		m.summaryModel.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		return m, nil

	case dayLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.habitList.SetDay(msg.view)
		}
		return m, nil

	case summaryLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.summaryModel.SetSummary(msg.summary)
		}
		return m, nil

	case toggledMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Marked %s", msg.state)
		return m, tea.Batch(m.loadDay(), m.loadSummary())

	case habitAddedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Added habit %s", msg.habit.Title)
		return m, tea.Batch(m.loadDay(), m.loadSummary())

	case habitlist.ToggleHabitMsg:
		return m, m.toggle(msg.ID)
	}

	if m.state == StateAddHabit {
		return m.updateAddHabit(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.status = ""
			return m, tea.Batch(m.loadDay(), m.loadSummary())
		}

		if m.state == StateDay {
			switch {
			case key.Matches(msg, m.keys.PrevDay):
				m.day = m.day.AddDate(0, 0, -1)
				return m, m.loadDay()
			case key.Matches(msg, m.keys.NextDay):
				m.day = m.day.AddDate(0, 0, 1)
				return m, m.loadDay()
			case key.Matches(msg, m.keys.Today):
				m.day = m.svc.Today()
				return m, m.loadDay()
			case key.Matches(msg, m.keys.Add):
				m.previousState = m.state
				m.state = StateAddHabit
				m.habitForm = &HabitFormModel{}
				m.form = NewHabitForm(m.habitForm)
				return m, m.form.Init()
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateDay:
		m.habitList, cmd = m.habitList.Update(msg)
	case StateSummary:
		m.summaryModel, cmd = m.summaryModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = m.previousState
		return m, tea.Batch(cmd, m.addHabit(*m.habitForm))
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}
