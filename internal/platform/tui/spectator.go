package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arcade-motion/internal/broadcast"
	"github.com/vovakirdan/arcade-motion/internal/core"
)

var liveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Bold(true)

// FrameMsg carries a broadcast frame into the Bubble Tea loop.
type FrameMsg broadcast.Frame

// endedMsg reports that the broadcast closed the session.
type endedMsg struct{}

// SpectatorModel shows the shared live broadcast.
type SpectatorModel struct {
	hub        *broadcast.Hub
	session    *broadcast.ChannelSession
	frame      broadcast.Frame
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	ended      bool
	quitting   bool
	backToMenu bool
}

// NewSpectatorModel subscribes to hub. The subscription ends when the user
// leaves or when done is closed.
func NewSpectatorModel(hub *broadcast.Hub, cfg core.RuntimeConfig, done <-chan struct{}) SpectatorModel {
	s := hub.Subscribe()
	go func() {
		select {
		case <-done:
			hub.Unsubscribe(s.ID())
		case <-s.Done():
		}
	}()

	return SpectatorModel{
		hub:       hub,
		session:   s,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// waitForFrame blocks until the next frame arrives.
func waitForFrame(s *broadcast.ChannelSession) tea.Cmd {
	return func() tea.Msg {
		select {
		case f := <-s.Frames():
			return FrameMsg(f)
		case <-s.Done():
			return endedMsg{}
		}
	}
}

// Init starts listening for frames.
func (m SpectatorModel) Init() tea.Cmd {
	return waitForFrame(m.session)
}

// Update handles messages.
func (m SpectatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.keyMapper.MapKeyToMenuAction(msg) {
		case MenuActionQuit:
			m.hub.Unsubscribe(m.session.ID())
			m.quitting = true
			return m, tea.Quit
		case MenuActionBack:
			m.hub.Unsubscribe(m.session.ID())
			m.backToMenu = true
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height

	case FrameMsg:
		m.frame = broadcast.Frame(msg)
		return m, waitForFrame(m.session)

	case endedMsg:
		m.ended = true
	}
	return m, nil
}

// View renders the latest frame with a status line.
func (m SpectatorModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	var b strings.Builder
	if m.frame.Canvas != nil {
		b.WriteString(RenderCanvas(m.frame.Canvas))
		b.WriteString("\n")
	}

	status := fmt.Sprintf(" %d watching  tick %d  esc: back  q: quit", m.frame.Spectators, m.frame.Tick)
	if m.ended {
		status = " broadcast ended  esc: back  q: quit"
	}
	b.WriteString(liveStyle.Render(" LIVE "))
	b.WriteString(helpStyle.Render(status))
	return b.String()
}

// IsQuitting returns true if user requested to quit entirely.
func (m SpectatorModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m SpectatorModel) BackToMenu() bool {
	return m.backToMenu
}
