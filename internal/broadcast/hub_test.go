package broadcast

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/arcade-motion/internal/config"
	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/engine"
	"github.com/vovakirdan/arcade-motion/internal/games/pong"
	"github.com/vovakirdan/arcade-motion/internal/storage"
)

// countdownGame ends after a fixed number of steps.
type countdownGame struct {
	world  *engine.World
	length int
	steps  int
	resets []int64
}

func (g *countdownGame) ID() string    { return "countdown" }
func (g *countdownGame) Title() string { return "Countdown" }

func (g *countdownGame) Reset(cfg core.RuntimeConfig) error {
	w, err := engine.NewWorld(core.NewRect(0, 0, 800, 600), config.DefaultPhysicsConfig())
	if err != nil {
		return err
	}
	g.world = w
	g.steps = 0
	g.resets = append(g.resets, cfg.Seed)
	return nil
}

func (g *countdownGame) Step(core.InputFrame) (core.StepResult, error) {
	if _, err := g.world.Advance(nil); err != nil {
		return core.StepResult{}, err
	}
	g.steps++
	res := core.StepResult{State: g.State()}
	res.Events = []core.EventRecord{{Tick: uint64(g.steps), Kind: "tick"}}
	return res, nil
}

func (g *countdownGame) State() core.GameState {
	return core.GameState{Score: g.steps * 10, Level: 1, GameOver: g.steps >= g.length}
}

func (g *countdownGame) World() *engine.World { return g.world }
func (g *countdownGame) HUD() string          { return "left " + strings.Repeat("*", g.length-g.steps) }

type savedRun struct {
	run    storage.Run
	events int
}

type memSaver struct {
	runs []savedRun
}

func (m *memSaver) SaveRun(run storage.Run, events []core.EventRecord) (int64, error) {
	m.runs = append(m.runs, savedRun{run: run, events: len(events)})
	return int64(len(m.runs)), nil
}

func newHub(t *testing.T, cfg Config) (*Hub, *countdownGame) {
	t.Helper()
	game := &countdownGame{length: 3}
	h, err := NewHub(game, cfg, nil)
	if err != nil {
		t.Fatalf("NewHub() error = %v", err)
	}
	return h, game
}

func TestHubPublishesFrames(t *testing.T) {
	h, _ := newHub(t, Config{Runtime: core.DefaultConfig(), Buffer: 8})
	s := h.Subscribe()

	for i := 0; i < 2; i++ {
		if err := h.Step(); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
	}

	for _, expected := range []uint64{0, 1, 2} {
		f := <-s.Frames()
		if f.Tick != expected {
			t.Errorf("frame tick = %d, expected %d", f.Tick, expected)
		}
		if f.Canvas == nil || f.Canvas.Width() != 80 || f.Canvas.Height() != 24 {
			t.Fatalf("frame %d canvas missing or wrong size", f.Tick)
		}
		if f.GameID != "countdown" {
			t.Errorf("frame game = %q, expected countdown", f.GameID)
		}
		if f.Tick > 0 && f.Spectators != 1 {
			t.Errorf("frame %d spectators = %d, expected 1", f.Tick, f.Spectators)
		}
	}

	if latest := h.Latest(); latest.Tick != 2 || !strings.HasPrefix(latest.Canvas.Row(0), "left *") {
		t.Errorf("Latest() = tick %d row %q", latest.Tick, latest.Canvas.Row(0))
	}
}

func TestHubRestartsAfterGameOver(t *testing.T) {
	rt := core.DefaultConfig()
	rt.Seed = 5
	h, game := newHub(t, Config{Runtime: rt, RestartDelay: 2})
	saver := &memSaver{}
	h.SetSaver(saver)

	// Three steps end the game, two more hold the game over screen.
	for i := 0; i < 5; i++ {
		if err := h.Step(); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
		if i == 3 && !strings.Contains(h.Latest().Canvas.String(), "NEXT GAME IN") {
			t.Error("expected the game over countdown on screen")
		}
	}

	if len(saver.runs) != 1 {
		t.Fatalf("saved %d runs, expected 1", len(saver.runs))
	}
	run := saver.runs[0]
	if run.run.Mode != storage.ModeBroadcast || run.run.Ticks != 3 || run.run.Score != 30 || run.run.Seed != 5 {
		t.Errorf("saved run = %+v", run.run)
	}
	if run.events != 3 {
		t.Errorf("saved %d events, expected 3", run.events)
	}

	if len(game.resets) != 2 || game.resets[1] != 6 {
		t.Errorf("resets = %v, expected [5 6]", game.resets)
	}
	if game.steps != 0 || h.Latest().State.GameOver {
		t.Error("expected a fresh game after the restart delay")
	}
}

func TestHubUnsubscribe(t *testing.T) {
	h, _ := newHub(t, Config{Runtime: core.DefaultConfig()})
	s := h.Subscribe()
	if h.Spectators() != 1 {
		t.Fatalf("Spectators() = %d, expected 1", h.Spectators())
	}

	h.Unsubscribe(s.ID())
	if h.Spectators() != 0 {
		t.Errorf("Spectators() = %d, expected 0", h.Spectators())
	}
	select {
	case <-s.Done():
	default:
		t.Error("unsubscribed session should be closed")
	}
}

func TestHubRunUntilCancelled(t *testing.T) {
	rt := core.DefaultConfig()
	rt.TickRate = 500
	h, err := NewHub(pong.New(), Config{Runtime: rt, Buffer: 64}, nil)
	if err != nil {
		t.Fatalf("NewHub() error = %v", err)
	}
	s := h.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	var last uint64
	for last < 5 {
		select {
		case f := <-s.Frames():
			if f.Tick < last {
				t.Fatalf("frame tick went backwards: %d after %d", f.Tick, last)
			}
			last = f.Tick
		case <-deadline:
			t.Fatal("timed out waiting for frames")
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}

	select {
	case <-s.Done():
	default:
		t.Error("sessions should be closed when the hub stops")
	}
}
