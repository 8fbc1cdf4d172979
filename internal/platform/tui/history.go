package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arcade-motion/internal/registry"
	"github.com/vovakirdan/arcade-motion/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show game list sidebar
	sidebarWidth       = 20  // Width of game list sidebar
	maxRuns            = 100 // Max runs to load
	maxEvents          = 500 // Max events to load for one run
)

// HistoryKeyMap defines the key bindings for the run history.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Order    key.Binding
	Events   key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.Order, k.Events, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Order, k.Events, k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next game"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev game"),
		),
		Order: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "recent/top"),
		),
		Events: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "events"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for browsing saved runs.
type HistoryModel struct {
	games       []registry.GameInfo
	gameCursor  int
	store       *storage.Store
	runs        []storage.Run
	top         bool // Order by score instead of recency
	table       table.Model
	events      table.Model
	showEvents  bool
	eventsOf    int64 // Run whose events are shown
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	err         error
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewHistoryModel creates a history browser. gameID selects the initial
// game; an unknown or empty ID starts on the first one.
func NewHistoryModel(store *storage.Store, gameID string, width, height int) HistoryModel {
	h := help.New()

	m := HistoryModel{
		games:       registry.List(),
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	for i, g := range m.games {
		if g.ID == gameID {
			m.gameCursor = i
		}
	}

	m.table = m.createRunTable()
	m.events = m.createEventTable()
	m.loadRuns()
	return m
}

func (m *HistoryModel) tableWidth() int {
	w := m.width - 4 // Margins
	if m.showSidebar {
		w -= sidebarWidth + 3 // Sidebar + border + gap
	}
	return w
}

func (m *HistoryModel) styled(t table.Model) table.Model {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// createRunTable creates the runs table with columns sized to the window.
func (m *HistoryModel) createRunTable() table.Model {
	columns := []table.Column{
		{Title: "Run", Width: 5},
		{Title: "Mode", Width: 11},
		{Title: "Score", Width: 7},
		{Title: "Lvl", Width: 4},
		{Title: "Ticks", Width: 7},
		{Title: "Events", Width: 7},
		{Title: "Date", Width: 12},
	}
	if w := m.tableWidth(); w < 70 {
		// Drop mode and events on narrow terminals
		columns = []table.Column{columns[0], columns[2], columns[3], columns[4], columns[6]}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)
	return m.styled(t)
}

func (m *HistoryModel) createEventTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Tick", Width: 7},
			{Title: "Event", Width: 16},
			{Title: "Subject", Width: 8},
			{Title: "Other", Width: 8},
			{Title: "Detail", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)
	return m.styled(t)
}

func (m *HistoryModel) currentGame() string {
	if len(m.games) == 0 {
		return ""
	}
	return m.games[m.gameCursor].ID
}

// loadRuns loads runs for the selected game.
func (m *HistoryModel) loadRuns() {
	m.runs = nil
	m.err = nil
	m.showEvents = false
	if m.store != nil && len(m.games) > 0 {
		if m.top {
			m.runs, m.err = m.store.TopRuns(m.currentGame(), maxRuns)
		} else {
			m.runs, m.err = m.store.RecentRuns(m.currentGame(), maxRuns)
		}
	}
	m.updateRunRows()
}

func (m *HistoryModel) updateRunRows() {
	narrow := len(m.table.Columns()) < 7
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		date := r.CreatedAt.Format("Jan 02 15:04")
		if narrow {
			rows[i] = table.Row{
				fmt.Sprintf("%d", r.ID),
				fmt.Sprintf("%d", r.Score),
				fmt.Sprintf("%d", r.Level),
				fmt.Sprintf("%d", r.Ticks),
				date,
			}
			continue
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.ID),
			r.Mode,
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Level),
			fmt.Sprintf("%d", r.Ticks),
			fmt.Sprintf("%d", r.Events),
			date,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// loadEvents loads the events of the highlighted run.
func (m *HistoryModel) loadEvents() {
	i := m.table.Cursor()
	if m.store == nil || i < 0 || i >= len(m.runs) {
		return
	}
	run := m.runs[i]
	events, err := m.store.RunEvents(run.ID, maxEvents)
	if err != nil {
		m.err = err
		return
	}

	rows := make([]table.Row, len(events))
	for j, e := range events {
		other := ""
		if e.Other != 0 {
			other = fmt.Sprintf("%d", e.Other)
		}
		rows[j] = table.Row{fmt.Sprintf("%d", e.Tick), e.Kind, fmt.Sprintf("%d", e.Subject), other, e.Detail}
	}
	m.events.SetRows(rows)
	m.events.GotoTop()
	m.eventsOf = run.ID
	m.showEvents = true
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.showEvents {
				m.showEvents = false
				return m, nil
			}
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Events):
			if !m.showEvents {
				m.loadEvents()
			}
			return m, nil

		case key.Matches(msg, m.keys.Order):
			m.top = !m.top
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.NextGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + 1) % len(m.games)
				m.loadRuns()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor - 1 + len(m.games)) % len(m.games)
				m.loadRuns()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createRunTable()
		m.events = m.createEventTable()
		m.updateRunRows()
		m.help.Width = msg.Width
		if m.showEvents {
			m.loadEvents()
		}
		return m, nil
	}

	if m.showEvents {
		m.events, cmd = m.events.Update(msg)
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	order := "RECENT RUNS"
	if m.top {
		order = "TOP RUNS"
	}
	title := order
	if len(m.games) > 0 {
		title = fmt.Sprintf("%s - %s", order, m.games[m.gameCursor].Title)
	}
	if m.showEvents {
		title = fmt.Sprintf("EVENTS - run %d", m.eventsOf)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	content := m.renderTableContent()
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", boxStyle.Render(content)))
	} else {
		if len(m.games) > 0 {
			b.WriteString(centerText(fmt.Sprintf("< %s >", m.games[m.gameCursor].Title), m.width))
			b.WriteString("\n\n")
		}
		b.WriteString(boxStyle.Render(content))
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m HistoryModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Games\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, g := range m.games {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.gameCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		name := g.Title
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	return sidebarStyle.Render(sidebar.String())
}

func (m HistoryModel) renderTableContent() string {
	if m.showEvents {
		if len(m.events.Rows()) == 0 {
			return emptyStyle.Render("No events were recorded for this run.")
		}
		return m.events.View()
	}
	if len(m.runs) == 0 {
		return emptyStyle.Render("No runs recorded yet.\nRun or play a game to record one!")
	}
	return m.table.View()
}

var emptyStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241")).
	Italic(true).
	Padding(2, 4)

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history browser.
// Returns true if user wants to go back to menu, false if quitting.
func RunHistory(store *storage.Store, gameID string, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewHistoryModel(store, gameID, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(HistoryModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
