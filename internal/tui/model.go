package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tracker"
	"github.com/julianstephens/habitual/internal/tui/components/habitlist"
	"github.com/julianstephens/habitual/internal/tui/components/summary"
)

type SessionState int

const (
	StateDay SessionState = iota
	StateSummary
	StateAddHabit
)

// number of tabs reachable with tab/shift+tab
const tabCount = 2

type dayLoadedMsg struct {
	view models.DayView
	err  error
}

type summaryLoadedMsg struct {
	summary []models.DaySummary
	err     error
}

type toggledMsg struct {
	habitID string
	state   models.CompletionState
	err     error
}

type habitAddedMsg struct {
	habit models.Habit
	err   error
}

type Model struct {
	svc           *tracker.Service
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	day           time.Time
	habitList     habitlist.Model
	summaryModel  summary.Model
	form          *huh.Form
	habitForm     *HabitFormModel
	status        string
	err           error
	quitting      bool
	width         int
	height        int
}

func NewModel(svc *tracker.Service) Model {
	return Model{
		svc:          svc,
		state:        StateDay,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		day:          svc.Today(),
		habitList:    habitlist.New(0, 0),
		summaryModel: summary.New(0, 0),
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateDay:
		keys = append(keys, m.keys.Toggle, m.keys.PrevDay, m.keys.NextDay, m.keys.Add)
	case StateSummary:
		keys = append(keys, m.keys.Refresh)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.PrevDay, m.keys.NextDay, m.keys.Today}
	actions := []key.Binding{m.keys.Toggle, m.keys.Add}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadDay(), m.loadSummary())
}

func (m Model) loadDay() tea.Cmd {
	svc, day := m.svc, m.day
	return func() tea.Msg {
		view, err := svc.GetDay(context.Background(), day)
		return dayLoadedMsg{view: view, err: err}
	}
}

func (m Model) loadSummary() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		s, err := svc.Summary(context.Background())
		return summaryLoadedMsg{summary: s, err: err}
	}
}

func (m Model) toggle(habitID string) tea.Cmd {
	svc, day := m.svc, m.day
	return func() tea.Msg {
		state, err := svc.ToggleOn(context.Background(), day, habitID)
		return toggledMsg{habitID: habitID, state: state, err: err}
	}
}

func (m Model) addHabit(fm HabitFormModel) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		habit, err := svc.CreateHabit(context.Background(), fm.Title, fm.WeekDays)
		return habitAddedMsg{habit: habit, err: err}
	}
}
