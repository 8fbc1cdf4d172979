package breakout

import (
	"fmt"

	"github.com/vovakirdan/arcade-motion/internal/config"
	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/engine"
	"github.com/vovakirdan/arcade-motion/internal/registry"
)

// GameState constants
const (
	StateServe    = "serve"    // Ball not yet launched
	StatePlaying  = "playing"  // Ball in play
	StateGameOver = "gameover" // No lives left
	StatePaused   = "paused"   // Game paused
)

// serveDelayTicks is the pause after a miss or a cleared level before the
// ball can be launched again.
const serveDelayTicks = 60

// Game implements Breakout on top of an engine.World.
type Game struct {
	runtime core.RuntimeConfig
	cfg     config.BreakoutConfig
	world   *engine.World

	paddle  engine.ID
	ball    engine.ID // Zero while serving
	target  float64   // Paddle target x
	points  map[engine.ID]int
	layout  *Layout
	bounces int // Paddle bounces, used by the autopilot to vary its aim

	state      string
	resume     string // State to return to when unpaused
	score      int
	lives      int
	level      int
	tickCount  int
	serveDelay int
}

// New creates a new Breakout game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string { return "breakout" }

// Title returns the display name for this game.
func (g *Game) Title() string { return "Breakout" }

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) error {
	g.runtime = runtime

	physics, err := config.LoadTuned(runtime.PhysicsPath, runtime.Preset)
	if err != nil {
		return fmt.Errorf("breakout: %w", err)
	}
	cfg, err := config.LoadBreakout(runtime.ConfigPath)
	if err != nil {
		return fmt.Errorf("breakout: %w", err)
	}
	g.cfg = cfg

	world, err := engine.NewWorld(core.NewRect(0, 0, cfg.Arena.Width, cfg.Arena.Height), physics)
	if err != nil {
		return fmt.Errorf("breakout: %w", err)
	}
	if err := world.Register(engine.KindBall, engine.KindPaddle); err != nil {
		return err
	}
	if err := world.Register(engine.KindBall, engine.KindBlock); err != nil {
		return err
	}
	g.world = world

	g.target = cfg.Arena.Width / 2
	g.paddle, err = world.Spawn(engine.EntitySpec{
		Kind: engine.KindPaddle,
		Pos:  core.V(g.target, cfg.Arena.Height-cfg.PaddleInset),
		Face: engine.FaceUp,
	})
	if err != nil {
		return fmt.Errorf("breakout: paddle: %w", err)
	}

	g.score = 0
	g.lives = cfg.Lives
	g.level = 1
	g.tickCount = 0
	g.bounces = 0
	g.ball = 0
	g.serveDelay = 0
	g.state = StateServe

	return g.loadLevel()
}

// loadLevel spawns the blocks of the current level.
func (g *Game) loadLevel() error {
	g.layout = GetLayout(g.level)
	g.points = make(map[engine.ID]int, len(g.layout.Cells))

	grid := g.cfg.Grid
	bc := g.world.Physics().Kinds[config.KindBlock].Shape
	shape := engine.Box(bc.Width, bc.Height)
	for _, c := range g.layout.Cells {
		if c.Col >= grid.Cols || c.Row >= grid.Rows {
			continue
		}
		pos := core.V(
			grid.OriginX+(float64(c.Col)+0.5)*shape.W,
			grid.OriginY+(float64(grid.TopRow+c.Row)+0.5)*shape.H,
		)
		id, err := g.world.Spawn(engine.EntitySpec{Kind: engine.KindBlock, Pos: pos, Shape: shape})
		if err != nil {
			return fmt.Errorf("breakout: block %d,%d: %w", c.Col, c.Row, err)
		}
		points := c.Points
		if points == 0 {
			points = g.cfg.BlockPoints
		}
		g.points[id] = points
	}
	return nil
}

// launch puts a ball in play just above the paddle. The paddle may still be
// waiting to join the world, so its position comes from the target and the
// configured inset.
func (g *Game) launch() error {
	physics := g.world.Physics()
	r := physics.Kinds[config.KindBall].Shape.Radius
	paddleTop := g.cfg.Arena.Height - g.cfg.PaddleInset - physics.Kinds[config.KindPaddle].Shape.Height/2
	id, err := g.world.Spawn(engine.EntitySpec{
		Kind: engine.KindBall,
		Pos:  core.V(g.target, paddleTop-r-2),
		Vel:  core.FromAngle(g.cfg.LaunchAngle, g.cfg.BallSpeed),
	})
	if err != nil {
		return fmt.Errorf("breakout: ball: %w", err)
	}
	g.ball = id
	g.state = StatePlaying
	return nil
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) (core.StepResult, error) {
	// Handle restart
	if in.Has(core.ActionRestart) && g.state == StateGameOver {
		err := g.Reset(g.runtime)
		return core.StepResult{State: g.State()}, err
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		switch g.state {
		case StatePaused:
			g.state = g.resume
		case StateServe, StatePlaying:
			g.resume = g.state
			g.state = StatePaused
		}
	}

	if g.state == StatePaused || g.state == StateGameOver {
		return core.StepResult{State: g.State()}, nil
	}

	g.tickCount++
	g.updateTarget(in)

	if g.state == StateServe {
		if g.serveDelay > 0 {
			g.serveDelay--
		} else if in.Has(core.ActionFire) {
			if err := g.launch(); err != nil {
				return core.StepResult{State: g.State()}, err
			}
		}
	}

	events, err := g.world.Advance(map[engine.ID]engine.Command{g.paddle: engine.MoveTo(g.target)})
	if err != nil {
		return core.StepResult{State: g.State()}, err
	}

	if err := g.handleEvents(events); err != nil {
		return core.StepResult{State: g.State(), Events: engine.Records(events)}, err
	}

	return core.StepResult{State: g.State(), Events: engine.Records(events)}, nil
}

// updateTarget moves the paddle target with the left/right actions.
func (g *Game) updateTarget(in core.InputFrame) {
	if in.Has(core.ActionLeft) {
		g.target -= g.cfg.PaddleStep
	}
	if in.Has(core.ActionRight) {
		g.target += g.cfg.PaddleStep
	}

	hw := g.world.Physics().Kinds[config.KindPaddle].Shape.Width / 2
	g.target = core.ClampF(g.target, hw, g.cfg.Arena.Width-hw)
}

// handleEvents applies the tick's events to score, lives and level.
func (g *Game) handleEvents(events []engine.Event) error {
	for _, ev := range events {
		switch e := ev.(type) {
		case engine.EntityDestroyed:
			switch e.Kind {
			case engine.KindBlock:
				g.score += g.points[e.ID]
				delete(g.points, e.ID)
			case engine.KindBall:
				if e.ID == g.ball {
					g.handleMiss()
				}
			}
		case engine.PaddleBounce:
			g.bounces++
		}
	}

	if g.state != StateGameOver && g.world.Count(engine.KindBlock) == 0 && g.world.Pending() == 0 {
		return g.handleLevelClear()
	}
	return nil
}

// handleMiss handles the ball leaving through the bottom.
func (g *Game) handleMiss() {
	g.ball = 0
	g.lives--

	if g.lives <= 0 {
		g.state = StateGameOver
		return
	}

	g.state = StateServe
	g.serveDelay = serveDelayTicks
}

// handleLevelClear awards the level bonus and loads the next layout.
func (g *Game) handleLevelClear() error {
	g.level++
	g.score += g.level * 100

	if g.ball != 0 {
		if err := g.world.Destroy(g.ball); err != nil {
			return err
		}
		g.ball = 0
	}
	g.state = StateServe
	g.serveDelay = serveDelayTicks

	return g.loadLevel()
}

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

// HUD returns the layout name, the blocks left and a serve hint.
func (g *Game) HUD() string {
	hud := fmt.Sprintf("%s  blocks %d", g.layout.Name, len(g.points))
	switch {
	case g.state == StateServe && g.serveDelay > 0:
		hud += "  get ready..."
	case g.state == StateServe:
		hud += "  SPACE to launch"
	}
	return hud
}

// Register the game with the registry
func init() {
	registry.Register("breakout", func() registry.Game {
		return New()
	})
}
