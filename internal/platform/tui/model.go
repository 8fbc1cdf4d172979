package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/registry"
	"github.com/vovakirdan/arcade-motion/internal/render"
	"github.com/vovakirdan/arcade-motion/internal/storage"
)

// maxSavedEvents bounds the events kept in memory for one saved run.
const maxSavedEvents = 10000

var (
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	autoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
)

// Model is the Bubble Tea model for playing or watching a game.
type Model struct {
	game       registry.Game
	canvas     *render.Canvas
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	autopilot  bool
	ticks      int
	events     []core.EventRecord
	err        error
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the run has been saved for the current game over
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, autopilot bool) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	m := Model{
		game:       game,
		store:      store,
		logger:     log.Default().WithPrefix("viewer"),
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		autopilot:  autopilot,
	}
	m.canvas = render.NewCanvas(cfg.ScreenW, m.arenaHeight())
	if err := game.Reset(cfg); err != nil {
		m.err = err
	}
	m.gameState = game.State()
	return m
}

// WithLogger sets the logger used for saved runs and failures.
func (m Model) WithLogger(l *log.Logger) Model {
	if l != nil {
		m.logger = l
	}
	return m
}

// arenaHeight leaves one row for the help line.
func (m Model) arenaHeight() int {
	return max(m.config.ScreenH-1, 2)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	if m.err != nil {
		return nil
	}
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.canvas.Resize(msg.Width, m.arenaHeight())
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Back):
		m.backToMenu = true
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case msg.String() == "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Auto):
		if _, ok := m.game.(registry.Pilot); ok {
			m.autopilot = !m.autopilot
		}
		return m, nil
	}

	m.keyMapper.MapKeyToFrame(msg, &m.inputFrame)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.err != nil {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed++
		if err := m.game.Reset(m.config); err != nil {
			m.err = err
			return m, nil
		}
		m.gameState = m.game.State()
		m.ticks = 0
		m.events = nil
		m.runSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	input := m.inputFrame
	if p, ok := m.game.(registry.Pilot); ok && m.autopilot {
		input = p.Autopilot()
		// Pause still belongs to the player.
		if m.inputFrame.Has(core.ActionPause) {
			input.Set(core.ActionPause)
		}
	}

	result, err := m.game.Step(input)
	if err != nil {
		m.logger.Error("step failed", "game", m.game.ID(), "tick", m.ticks, "error", err)
		m.err = err
		return m, nil
	}
	m.gameState = result.State
	m.ticks++
	if len(m.events) < maxSavedEvents {
		m.events = append(m.events, result.Events...)
	}

	if m.gameState.GameOver && !m.runSaved {
		m.saveRun()
		m.runSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveRun records the finished game in the history database.
func (m *Model) saveRun() {
	if m.store == nil {
		return
	}
	snap := m.game.World().Snapshot()
	id, err := m.store.SaveRun(storage.Run{
		GameID:   m.game.ID(),
		Mode:     storage.ModeInteractive,
		Seed:     m.config.Seed,
		Preset:   m.config.Preset,
		Ticks:    m.ticks,
		Score:    m.gameState.Score,
		Level:    m.gameState.Level,
		Lives:    m.gameState.Lives,
		GameOver: true,
		Hash:     snap.Hash(),
	}, m.events)
	if err != nil {
		m.logger.Error("could not save run", "game", m.game.ID(), "error", err)
		return
	}
	m.logger.Debug("run saved", "game", m.game.ID(), "run_id", id, "score", m.gameState.Score)
}

// saveScreenshot writes the current frame as plain text.
func (m *Model) saveScreenshot() {
	render.Frame(m.canvas, m.game.World(), m.hud())

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".arcade-motion", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.canvas.String()), 0o600)
}

func (m Model) hud() string {
	return fmt.Sprintf("%s  %s", m.game.Title(), m.game.HUD())
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	if m.err != nil {
		return errorStyle.Render("error: "+m.err.Error()) + "\n" + helpStyle.Render("q: quit")
	}

	render.Frame(m.canvas, m.game.World(), m.hud())

	var b strings.Builder
	b.WriteString(RenderCanvas(m.canvas))
	b.WriteString("\n")
	if m.autopilot {
		b.WriteString(autoStyle.Render(" AUTO "))
		b.WriteString(" ")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keyMapper.Keys())))
	return b.String()
}

// State returns the last game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// Err returns the simulation error that stopped the game, if any.
func (m Model) Err() error {
	return m.err
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
// It returns true when the user asked to go back to the menu.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, autopilot bool) (backToMenu bool, err error) {
	model := NewModel(game, store, cfg, autopilot)

	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	if !ok {
		return false, nil
	}
	return m.BackToMenu(), m.Err()
}
