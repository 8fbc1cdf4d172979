// Package pong implements Pong on the motion engine.
// Player 1 controls the left paddle, the CPU controls the right paddle.
package pong

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
	StateServe    = "serve"
	StatePlaying  = "playing"
	StatePaused   = "paused"
	StateGameOver = "gameover"
)

// Player sides
const (
	SidePlayer = 1
	SideCPU    = 2
)

const (
	cpuSkillMax     = 0.85 // CPU skill stops improving here
	cpuSkillEvery   = 600  // ticks between skill increases
	serveAngleRange = 25.0 // degrees either side of horizontal
)

// Game implements Pong on top of an engine.World.
type Game struct {
	runtime core.RuntimeConfig
	cfg     config.PongConfig
	world   *engine.World
	rng     *rand.Rand

	left, right engine.ID
	ball        engine.ID // Zero while serving
	leftTarget  float64
	rightTarget float64
	cpuSkill    float64
	rallies     int

	score1, score2 int
	winner         int
	serveTo        int // Side the next serve travels toward
	state          string
	serveDelay     int
	tickCount      int
}

// New creates a new Pong game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string { return "pong" }

// Title returns the display name for this game.
func (g *Game) Title() string { return "Pong" }

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) error {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed)) //#nosec G404 -- deterministic gameplay RNG

	physics, err := config.LoadTuned(runtime.PhysicsPath, runtime.Preset)
	if err != nil {
		return fmt.Errorf("pong: %w", err)
	}
	cfg, err := config.LoadPong(runtime.ConfigPath)
	if err != nil {
		return fmt.Errorf("pong: %w", err)
	}
	g.cfg = cfg

	world, err := engine.NewWorld(core.NewRect(0, 0, cfg.Arena.Width, cfg.Arena.Height), physics)
	if err != nil {
		return fmt.Errorf("pong: %w", err)
	}
	if err := world.Register(engine.KindBall, engine.KindPaddle); err != nil {
		return err
	}
	g.world = world

	shape := engine.Box(cfg.PaddleWidth, cfg.PaddleHeight)
	centreY := cfg.Arena.Height / 2
	g.left, err = world.Spawn(engine.EntitySpec{
		Kind:  engine.KindPaddle,
		Pos:   core.V(cfg.PaddleOffset+cfg.PaddleWidth/2, centreY),
		Shape: shape,
		Face:  engine.FaceRight,
	})
	if err != nil {
		return fmt.Errorf("pong: left paddle: %w", err)
	}
	g.right, err = world.Spawn(engine.EntitySpec{
		Kind:  engine.KindPaddle,
		Pos:   core.V(cfg.Arena.Width-cfg.PaddleOffset-cfg.PaddleWidth/2, centreY),
		Shape: shape,
		Face:  engine.FaceLeft,
	})
	if err != nil {
		return fmt.Errorf("pong: right paddle: %w", err)
	}

	g.leftTarget = centreY
	g.rightTarget = centreY
	g.cpuSkill = cfg.CPUSkill
	g.rallies = 0
	g.score1 = 0
	g.score2 = 0
	g.winner = 0
	g.tickCount = 0
	g.startServe(SidePlayer)
	return nil
}

// startServe waits out the serve delay before the ball is put in play.
func (g *Game) startServe(toward int) {
	g.ball = 0
	g.serveTo = toward
	g.serveDelay = g.cfg.ServeDelay
	g.state = StateServe
}

// serve spawns the ball at the centre heading toward g.serveTo.
func (g *Game) serve() error {
	angle := (g.rng.Float64()*2 - 1) * serveAngleRange
	if g.serveTo == SidePlayer {
		angle += 180
	}
	id, err := g.world.Spawn(engine.EntitySpec{
		Kind: engine.KindBall,
		Pos:  core.V(g.cfg.Arena.Width/2, g.cfg.Arena.Height/2),
		Vel:  core.FromAngle(angle, g.cfg.BallSpeed),
		Exit: engine.EdgeLeft | engine.EdgeRight,
	})
	if err != nil {
		return fmt.Errorf("pong: ball: %w", err)
	}
	g.ball = id
	g.state = StatePlaying
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
			g.state = StatePlaying
			if g.ball == 0 {
				g.state = StateServe
			}
		} else {
			g.state = StatePaused
		}
	}
	if g.state == StatePaused {
		return core.StepResult{State: g.State()}, nil
	}

	g.tickCount++

	if g.state == StateServe {
		g.serveDelay--
		if g.serveDelay <= 0 {
			if err := g.serve(); err != nil {
				return core.StepResult{State: g.State()}, err
			}
		}
	}

	// Paddles move during the serve too
	if in.Has(core.ActionUp) {
		g.leftTarget -= g.cfg.PaddleStep
	}
	if in.Has(core.ActionDown) {
		g.leftTarget += g.cfg.PaddleStep
	}
	g.leftTarget = g.clampTarget(g.leftTarget)
	g.updateCPU()

	// Gradually increase CPU skill
	if g.tickCount%cpuSkillEvery == 0 && g.cpuSkill < cpuSkillMax {
		g.cpuSkill = min(g.cpuSkill+0.02, cpuSkillMax)
	}

	events, err := g.world.Advance(map[engine.ID]engine.Command{
		g.left:  engine.MoveTo(g.leftTarget),
		g.right: engine.MoveTo(g.rightTarget),
	})
	if err != nil {
		return core.StepResult{State: g.State()}, err
	}
	g.handleEvents(events)

	return core.StepResult{State: g.State(), Events: engine.Records(events)}, nil
}

// updateCPU moves the CPU paddle target toward the ball while the ball
// approaches, at a fraction of the player's paddle speed.
func (g *Game) updateCPU() {
	ball, ok := g.world.Entity(g.ball)
	if !ok || ball.Vel.X <= 0 {
		return
	}

	step := g.cfg.PaddleStep * g.cpuSkill
	diff := ball.Pos.Y - g.rightTarget
	if diff > step {
		diff = step
	} else if diff < -step {
		diff = -step
	}
	g.rightTarget = g.clampTarget(g.rightTarget + diff)
}

func (g *Game) clampTarget(y float64) float64 {
	hh := g.cfg.PaddleHeight / 2
	return core.ClampF(y, hh, g.cfg.Arena.Height-hh)
}

// handleEvents scores balls that left the arena and counts rallies.
func (g *Game) handleEvents(events []engine.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case engine.PaddleBounce:
			g.rallies++
		case engine.EntityDestroyed:
			if e.ID != g.ball {
				continue
			}
			if e.Exit.Has(engine.EdgeLeft) {
				g.point(SideCPU)
			} else {
				g.point(SidePlayer)
			}
		}
	}
}

// point awards a point to side and serves toward the side that conceded.
func (g *Game) point(side int) {
	conceded := SideCPU
	if side == SidePlayer {
		g.score1++
	} else {
		g.score2++
		conceded = SidePlayer
	}

	if g.score1 >= g.cfg.WinScore || g.score2 >= g.cfg.WinScore {
		g.ball = 0
		g.winner = side
		g.state = StateGameOver
		return
	}
	g.startServe(conceded)
}

// Scores returns the player and CPU scores.
func (g *Game) Scores() (player, cpu int) {
	return g.score1, g.score2
}

// Winner returns the winning side, or 0 while the match is running.
func (g *Game) Winner() int { return g.winner }

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score1, // Report player's score
		Level:    1,
		GameOver: g.state == StateGameOver,
		Paused:   g.state == StatePaused,
	}
}

// World returns the simulation.
func (g *Game) World() *engine.World { return g.world }

// HUD returns the match score and a status hint.
func (g *Game) HUD() string {
	hud := fmt.Sprintf("P1 %d : %d CPU", g.score1, g.score2)
	switch {
	case g.state == StateServe:
		hud += "  serving..."
	case g.winner == SidePlayer:
		hud += "  YOU WIN!"
	case g.winner == SideCPU:
		hud += "  CPU WINS!"
	}
	return hud
}

// Register the game with the registry
func init() {
	registry.Register("pong", func() registry.Game {
		return New()
	})
}
