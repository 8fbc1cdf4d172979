// Package lander implements Lunar Lander on the motion engine: a craft
// falling under gravity with limited fuel, which must touch down gently on
// the flat platform of a generated ridge.
package lander

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/arcade-motion/internal/config"
	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/engine"
	"github.com/vovakirdan/arcade-motion/internal/registry"
)

// GameState constants
const (
	StateFlying   = "flying"
	StateLanded   = "landed"  // Holding the result before the next level
	StateCrashed  = "crashed" // Holding the wreck before the next attempt
	StatePaused   = "paused"
	StateGameOver = "gameover"
)

// Game implements Lunar Lander on top of an engine.World.
type Game struct {
	runtime core.RuntimeConfig
	cfg     config.LanderConfig
	world   *engine.World
	rng     *rand.Rand

	craft  engine.ID
	fuel   int
	impact float64 // Vertical speed of the last touchdown or crash

	state     string
	resume    string // State to return to when unpaused
	score     int
	lives     int
	level     int
	tickCount int
	hold      int // Ticks left showing the landed or crashed result
}

// New creates a new Lunar Lander game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string { return "lander" }

// Title returns the display name for this game.
func (g *Game) Title() string { return "Lunar Lander" }

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) error {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed)) //#nosec G404 -- deterministic level generation

	physics, err := config.LoadTuned(runtime.PhysicsPath, runtime.Preset)
	if err != nil {
		return fmt.Errorf("lander: %w", err)
	}
	cfg, err := config.LoadLander(runtime.ConfigPath)
	if err != nil {
		return fmt.Errorf("lander: %w", err)
	}
	g.cfg = cfg

	world, err := engine.NewWorld(core.NewRect(0, 0, cfg.Arena.Width, cfg.Arena.Height), physics)
	if err != nil {
		return fmt.Errorf("lander: %w", err)
	}
	g.world = world

	g.score = 0
	g.lives = cfg.Lives
	g.level = 1
	g.tickCount = 0
	g.craft = 0

	if err := g.newTerrain(); err != nil {
		return err
	}
	return g.launch()
}

// newTerrain generates the ridge for the next level.
func (g *Game) newTerrain() error {
	t, err := engine.GenerateTerrain(g.rng, g.cfg.Arena.Width, g.cfg.Arena.Height, g.cfg.SegmentSize)
	if err != nil {
		return fmt.Errorf("lander: %w", err)
	}
	g.world.SetTerrain(t)
	return nil
}

// launch removes any previous craft and starts a fresh one at the top
// centre with a full tank.
func (g *Game) launch() error {
	if g.craft != 0 {
		if _, ok := g.world.Entity(g.craft); ok {
			if err := g.world.Destroy(g.craft); err != nil {
				return err
			}
		}
	}
	id, err := g.world.Create(engine.KindLanderCraft, core.V(g.cfg.Arena.Width/2, g.cfg.StartY), core.Vec{}, 270)
	if err != nil {
		return fmt.Errorf("lander: craft: %w", err)
	}
	g.craft = id
	g.fuel = g.cfg.Fuel
	g.state = StateFlying
	return nil
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) (core.StepResult, error) {
	if g.state == StateGameOver {
		if in.Has(core.ActionRestart) {
			err := g.Reset(g.runtime)
			return core.StepResult{State: g.State()}, err
		}
		return core.StepResult{State: g.State()}, nil
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		if g.state == StatePaused {
			g.state = g.resume
		} else {
			g.resume = g.state
			g.state = StatePaused
		}
	}
	if g.state == StatePaused {
		return core.StepResult{State: g.State()}, nil
	}

	g.tickCount++

	if g.state == StateLanded || g.state == StateCrashed {
		g.hold--
		if g.hold > 0 {
			return core.StepResult{State: g.State()}, nil
		}
		if g.state == StateLanded {
			if err := g.newTerrain(); err != nil {
				return core.StepResult{State: g.State()}, err
			}
		}
		if err := g.launch(); err != nil {
			return core.StepResult{State: g.State()}, err
		}
	}

	events, err := g.world.Advance(map[engine.ID]engine.Command{g.craft: g.command(in)})
	if err != nil {
		return core.StepResult{State: g.State()}, err
	}
	g.handleEvents(events)

	return core.StepResult{State: g.State(), Events: engine.Records(events)}, nil
}

// command turns input into a craft command, spending fuel. One burn per
// tick: the main engine wins over the side jets.
func (g *Game) command(in core.InputFrame) engine.Command {
	var cmd engine.Command
	if g.state != StateFlying {
		return cmd
	}
	switch {
	case in.Has(core.ActionUp) && g.fuel > 0:
		cmd.Thrust = true
		g.fuel = max(0, g.fuel-g.cfg.ThrustCost)
	case in.Has(core.ActionLeft) && g.fuel > 0:
		cmd.TurnLeft = true
		g.fuel = max(0, g.fuel-g.cfg.StrafeCost)
	case in.Has(core.ActionRight) && g.fuel > 0:
		cmd.TurnRight = true
		g.fuel = max(0, g.fuel-g.cfg.StrafeCost)
	}
	return cmd
}

// handleEvents scores a touchdown or counts a crash.
func (g *Game) handleEvents(events []engine.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case engine.ShipLanded:
			if e.Ship != g.craft {
				continue
			}
			g.impact = e.Speed
			g.score += g.level*10 + g.fuel
			g.level++
			g.state = StateLanded
			g.hold = g.cfg.PauseTicks
		case engine.ShipCrashed:
			if e.Ship != g.craft {
				continue
			}
			g.impact = e.Speed
			g.lives--
			if g.lives <= 0 {
				g.state = StateGameOver
				continue
			}
			g.state = StateCrashed
			g.hold = g.cfg.PauseTicks
		}
	}
}

// Fuel returns the fuel left in the tank.
func (g *Game) Fuel() int { return g.fuel }

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		Lives:    g.lives,
		Level:    g.level,
		GameOver: g.state == StateGameOver,
		Paused:   g.state == StatePaused,
	}
}

// World returns the simulation.
func (g *Game) World() *engine.World { return g.world }

// HUD returns the instrument line: fuel, altitude above the ground and speeds.
func (g *Game) HUD() string {
	switch g.state {
	case StateLanded:
		return fmt.Sprintf("Success, you have safely landed! vy %.1f", g.impact)
	case StateCrashed, StateGameOver:
		return fmt.Sprintf("YOU HAVE CRASHED! vy %.1f", g.impact)
	}

	craft, ok := g.world.Entity(g.craft)
	if !ok {
		return fmt.Sprintf("FUEL %3d", g.fuel)
	}
	alt := g.world.Terrain().HeightAt(craft.Pos.X) - craft.Bounds().Bottom()
	return fmt.Sprintf("FUEL %3d  ALT %3.0f  VERT SPD %4.1f  HORZ SPD %4.1f",
		g.fuel, alt, craft.Vel.Y, craft.Vel.X)
}

// Register the game with the registry
func init() {
	registry.Register("lander", func() registry.Game {
		return New()
	})
}
