package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/games/pong"
	"github.com/vovakirdan/arcade-motion/internal/registry"
	"github.com/vovakirdan/arcade-motion/internal/render"
)

func update(t *testing.T, m tea.Model, msg tea.Msg) tea.Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next
}

func TestModelTicksGame(t *testing.T) {
	m := NewModel(pong.New(), nil, core.DefaultConfig(), true)
	if m.Err() != nil {
		t.Fatalf("NewModel error: %v", m.Err())
	}

	var next tea.Model = m
	for range 5 {
		next = update(t, next, TickMsg{})
	}

	got := next.(Model)
	if got.ticks != 5 {
		t.Errorf("ticks = %d, expected 5", got.ticks)
	}
	if got.Err() != nil {
		t.Errorf("unexpected error: %v", got.Err())
	}
	if !strings.Contains(got.View(), "AUTO") {
		t.Error("View() missing AUTO badge while the autopilot flies")
	}
}

func TestModelKeys(t *testing.T) {
	m := NewModel(pong.New(), nil, core.DefaultConfig(), false)

	toggled := update(t, m, tea.KeyMsg{Type: tea.KeyTab}).(Model)
	if !toggled.autopilot {
		t.Error("tab did not enable the autopilot")
	}

	back := update(t, m, tea.KeyMsg{Type: tea.KeyEsc}).(Model)
	if !back.BackToMenu() {
		t.Error("esc did not request the menu")
	}
	if back.View() != "" {
		t.Error("View() should be empty after leaving")
	}

	quit := update(t, m, runeKey("q")).(Model)
	if !quit.IsQuitting() {
		t.Error("q did not quit")
	}

	fire := update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}).(Model)
	if !fire.inputFrame.Has(core.ActionFire) {
		t.Error("space not recorded as fire")
	}
}

func TestModelResize(t *testing.T) {
	m := NewModel(pong.New(), nil, core.DefaultConfig(), false)
	got := update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30}).(Model)

	if got.canvas.Width() != 100 || got.canvas.Height() != 29 {
		t.Errorf("canvas = %dx%d, expected 100x29", got.canvas.Width(), got.canvas.Height())
	}
}

func TestMenuNavigation(t *testing.T) {
	live := &registry.GameInfo{ID: "pong", Title: "Pong"}
	m := NewMenuModel(core.DefaultConfig(), live)

	if len(m.items) < 2 || !m.items[0].Spectate {
		t.Fatalf("expected a live entry first, got %+v", m.items)
	}

	// Up at the top stays put.
	var next tea.Model = m
	next = update(t, next, tea.KeyMsg{Type: tea.KeyUp})
	if next.(MenuModel).cursor != 0 {
		t.Errorf("cursor = %d, expected 0", next.(MenuModel).cursor)
	}

	next = update(t, next, tea.KeyMsg{Type: tea.KeyDown})
	next = update(t, next, tea.KeyMsg{Type: tea.KeyEnter})

	sel := next.(MenuModel).Selected()
	if sel == nil {
		t.Fatal("Selected() = nil after enter")
	}
	if sel.Spectate {
		t.Error("second entry should start a game, not the broadcast")
	}
	if !registry.Exists(sel.GameID) {
		t.Errorf("selected unknown game %q", sel.GameID)
	}
}

func TestMenuHistory(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig(), nil)
	got := update(t, m, tea.KeyMsg{Type: tea.KeyTab}).(MenuModel)
	if !got.WantsHistory() {
		t.Error("tab did not open the history")
	}
	if got.Selected() != nil {
		t.Error("history should not select a game")
	}
}

func TestRenderCanvas(t *testing.T) {
	c := render.NewCanvas(4, 2)
	c.DrawText(0, 0, "ab", render.ColorRed)
	c.Set(3, 1, 'x', render.ColorDefault)

	out := RenderCanvas(c)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, expected 2", len(lines))
	}
	if !strings.Contains(lines[0], "ab") {
		t.Errorf("first line %q missing text", lines[0])
	}
	if !strings.Contains(lines[1], "x") {
		t.Errorf("second line %q missing rune", lines[1])
	}
}
