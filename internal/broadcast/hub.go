package broadcast

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/registry"
	"github.com/vovakirdan/arcade-motion/internal/render"
	"github.com/vovakirdan/arcade-motion/internal/storage"
)

// DefaultRestartDelay is how long the game over screen stays up: 3s at 60fps.
const DefaultRestartDelay = 180

// RunSaver persists finished games. *storage.Store implements it.
type RunSaver interface {
	SaveRun(run storage.Run, events []core.EventRecord) (int64, error)
}

// Config holds hub settings.
type Config struct {
	Runtime      core.RuntimeConfig
	RestartDelay int // Ticks between game over and the next game
	Buffer       int // Frames buffered per spectator
}

// Hub owns a game and steps it on a fixed tick. The game plays itself with
// its autopilot; every tick is drawn once and shared by all spectators.
type Hub struct {
	game     registry.Game
	cfg      Config
	sessions *SessionRegistry
	saver    RunSaver
	logger   *log.Logger

	mu     sync.RWMutex
	latest Frame

	tick      uint64
	gameTicks int
	events    []core.EventRecord
	over      int // Ticks left on the game over screen
	seed      int64
}

// NewHub resets game and prepares the first frame.
func NewHub(game registry.Game, cfg Config, logger *log.Logger) (*Hub, error) {
	if cfg.Runtime.TickRate <= 0 {
		cfg.Runtime.TickRate = 60
	}
	if cfg.Runtime.ScreenW <= 0 || cfg.Runtime.ScreenH <= 1 {
		cfg.Runtime.ScreenW, cfg.Runtime.ScreenH = 80, 24
	}
	if cfg.RestartDelay <= 0 {
		cfg.RestartDelay = DefaultRestartDelay
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := &Hub{
		game:     game,
		cfg:      cfg,
		sessions: NewSessionRegistry(),
		logger:   logger.With("game", game.ID()),
		seed:     cfg.Runtime.Seed,
	}
	if err := h.reset(); err != nil {
		return nil, err
	}
	h.publish()
	return h, nil
}

// SetSaver sets where finished games are recorded.
func (h *Hub) SetSaver(s RunSaver) {
	h.saver = s
}

// GameID returns the broadcast game's identifier.
func (h *Hub) GameID() string {
	return h.game.ID()
}

// Subscribe registers a new spectator and sends it the latest frame.
func (h *Hub) Subscribe() *ChannelSession {
	s := NewChannelSession(NewSessionID(), h.cfg.Buffer)
	h.sessions.Register(s)
	s.Send(h.Latest())
	h.logger.Info("spectator joined", "session", s.ID(), "spectators", h.sessions.Count())
	return s
}

// Unsubscribe closes and removes a spectator.
func (h *Hub) Unsubscribe(id SessionID) {
	if s, ok := h.sessions.Get(id); ok {
		if c, ok := s.(*ChannelSession); ok {
			c.Close()
		}
	}
	h.sessions.Unregister(id)
	h.logger.Info("spectator left", "session", id, "spectators", h.sessions.Count())
}

// Spectators returns the number of connected spectators.
func (h *Hub) Spectators() int {
	return h.sessions.Count()
}

// Latest returns the most recently published frame.
func (h *Hub) Latest() Frame {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Run steps the game at the configured tick rate until ctx is done.
// All spectator sessions are closed when it returns.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(h.cfg.Runtime.TickRate))
	defer ticker.Stop()
	defer h.sessions.CloseAll()

	h.logger.Info("broadcast started", "tick_rate", h.cfg.Runtime.TickRate, "seed", h.seed)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("broadcast stopped", "ticks", h.tick)
			return nil
		case <-ticker.C:
			if err := h.Step(); err != nil {
				h.logger.Error("broadcast failed", "tick", h.tick, "error", err)
				return err
			}
		}
	}
}

// Step advances the hub by one tick and publishes the frame. While the
// game over screen is showing the game is not stepped; when it expires a
// new game starts with the next seed.
func (h *Hub) Step() error {
	if h.over > 0 {
		h.over--
		if h.over == 0 {
			h.seed++
			if err := h.reset(); err != nil {
				return err
			}
			h.logger.Info("new game", "seed", h.seed)
		}
	} else {
		res, err := h.game.Step(h.input())
		if err != nil {
			return fmt.Errorf("broadcast: tick %d: %w", h.tick, err)
		}
		h.gameTicks++
		for _, e := range res.Events {
			h.logger.Debug("event", "tick", e.Tick, "kind", e.Kind, "subject", e.Subject, "other", e.Other)
		}
		h.events = append(h.events, res.Events...)
		if res.State.GameOver {
			h.finish(res.State)
			h.over = h.cfg.RestartDelay
		}
	}

	h.tick++
	h.publish()
	return nil
}

func (h *Hub) input() core.InputFrame {
	if p, ok := h.game.(registry.Pilot); ok {
		return p.Autopilot()
	}
	return core.NewInputFrame()
}

func (h *Hub) reset() error {
	rt := h.cfg.Runtime
	rt.Seed = h.seed
	if err := h.game.Reset(rt); err != nil {
		return fmt.Errorf("broadcast: reset %s: %w", h.game.ID(), err)
	}
	h.gameTicks = 0
	h.events = nil
	return nil
}

// finish logs and saves a completed game.
func (h *Hub) finish(state core.GameState) {
	snap := h.game.World().Snapshot()
	hash := snap.Hash()
	h.logger.Info("game over",
		"score", state.Score,
		"level", state.Level,
		"ticks", h.gameTicks,
		"events", len(h.events),
		"hash", fmt.Sprintf("%016x", hash),
	)
	if h.saver == nil {
		return
	}
	id, err := h.saver.SaveRun(storage.Run{
		GameID:   h.game.ID(),
		Mode:     storage.ModeBroadcast,
		Seed:     h.seed,
		Preset:   h.cfg.Runtime.Preset,
		Ticks:    h.gameTicks,
		Score:    state.Score,
		Level:    state.Level,
		Lives:    state.Lives,
		GameOver: true,
		Hash:     hash,
	}, h.events)
	if err != nil {
		h.logger.Error("could not save run", "error", err)
		return
	}
	h.logger.Info("run saved", "run_id", id)
}

// publish draws the current state and fans it out.
func (h *Hub) publish() {
	canvas := render.NewCanvas(h.cfg.Runtime.ScreenW, h.cfg.Runtime.ScreenH)
	hud := h.game.HUD()
	render.Frame(canvas, h.game.World(), hud)
	if h.over > 0 {
		canvas.DrawTextCentered(canvas.Height()/2, fmt.Sprintf(" NEXT GAME IN %ds ", h.secondsLeft()), render.ColorBrightYellow)
	}

	f := Frame{
		Tick:       h.tick,
		GameID:     h.game.ID(),
		Title:      h.game.Title(),
		HUD:        hud,
		State:      h.game.State(),
		Spectators: h.sessions.Count(),
		Canvas:     canvas,
	}

	h.mu.Lock()
	h.latest = f
	h.mu.Unlock()

	h.sessions.Broadcast(f)
}

func (h *Hub) secondsLeft() int {
	rate := h.cfg.Runtime.TickRate
	return (h.over + rate - 1) / rate
}
