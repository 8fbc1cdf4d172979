// Package asteroids implements Asteroids on the motion engine: a ship on a
// wrapping field shooting asteroids that split into smaller stages.
package asteroids

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/arcade-motion/internal/config"
	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/engine"
	"github.com/vovakirdan/arcade-motion/internal/registry"
)

// GameState constants
const (
	StatePlaying  = "playing"
	StateRespawn  = "respawn" // Ship destroyed, waiting to respawn
	StatePaused   = "paused"
	StateGameOver = "gameover"
)

const (
	respawnTicks = 90
	safeRadius   = 150.0 // new waves keep this clear around the arena centre
	placeTries   = 32
)

// Game implements Asteroids on top of an engine.World.
type Game struct {
	runtime core.RuntimeConfig
	cfg     config.AsteroidsConfig
	world   *engine.World
	rng     *rand.Rand

	ship   engine.ID // Zero while respawning
	stages map[engine.ID]int

	state        string
	score        int
	lives        int
	level        int
	tickCount    int
	cooldown     int
	respawnDelay int
	fired        int
}

// New creates a new Asteroids game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string { return "asteroids" }

// Title returns the display name for this game.
func (g *Game) Title() string { return "Asteroids" }

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) error {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed)) //#nosec G404 -- deterministic gameplay RNG

	physics, err := config.LoadTuned(runtime.PhysicsPath, runtime.Preset)
	if err != nil {
		return fmt.Errorf("asteroids: %w", err)
	}
	cfg, err := config.LoadAsteroids(runtime.ConfigPath)
	if err != nil {
		return fmt.Errorf("asteroids: %w", err)
	}
	if cfg.Stages < 1 || len(cfg.StageRadius) < cfg.Stages || len(cfg.PointsByStage) < cfg.Stages {
		return fmt.Errorf("asteroids: %w: %d stages need as many radii and point values",
			config.ErrInvalidConfig, cfg.Stages)
	}
	g.cfg = cfg

	world, err := engine.NewWorld(core.NewRect(0, 0, cfg.Arena.Width, cfg.Arena.Height), physics)
	if err != nil {
		return fmt.Errorf("asteroids: %w", err)
	}
	for _, pair := range [][2]engine.Kind{
		{engine.KindShip, engine.KindAsteroid},
		{engine.KindShip, engine.KindShot},
		{engine.KindShot, engine.KindAsteroid},
	} {
		if err := world.Register(pair[0], pair[1]); err != nil {
			return err
		}
	}
	g.world = world

	g.stages = make(map[engine.ID]int)
	g.score = 0
	g.lives = cfg.Lives
	g.level = 1
	g.tickCount = 0
	g.cooldown = 0
	g.fired = 0
	g.respawnDelay = 0
	g.state = StatePlaying

	if err := g.spawnShip(); err != nil {
		return err
	}
	return g.spawnWave()
}

// spawnShip places a fresh ship at the centre, pointing up and shielded.
func (g *Game) spawnShip() error {
	id, err := g.world.Spawn(engine.EntitySpec{
		Kind:  engine.KindShip,
		Pos:   core.V(g.cfg.Arena.Width/2, g.cfg.Arena.Height/2),
		Angle: 270,
	})
	if err != nil {
		return fmt.Errorf("asteroids: ship: %w", err)
	}
	g.ship = id
	return nil
}

// spawnWave scatters the asteroids of the current level away from the centre.
func (g *Game) spawnWave() error {
	centre := core.V(g.cfg.Arena.Width/2, g.cfg.Arena.Height/2)
	count := g.cfg.StartCount + g.level - 1

	for range count {
		var pos core.Vec
		for range placeTries {
			pos = core.V(g.rng.Float64()*g.cfg.Arena.Width, g.rng.Float64()*g.cfg.Arena.Height)
			if pos.Dist(centre) >= safeRadius {
				break
			}
		}
		dir := g.rng.Float64() * 360
		speed := g.cfg.MinSpeed + g.rng.Float64()*(g.cfg.MaxSpeed-g.cfg.MinSpeed)
		if _, err := g.spawnAsteroid(g.cfg.Stages, pos, dir, speed); err != nil {
			return err
		}
	}
	return nil
}

// spawnAsteroid adds an asteroid of the given stage; stage 1 is the smallest.
func (g *Game) spawnAsteroid(stage int, pos core.Vec, dir, speed float64) (engine.ID, error) {
	id, err := g.world.Spawn(engine.EntitySpec{
		Kind:  engine.KindAsteroid,
		Pos:   pos,
		Vel:   core.FromAngle(dir, speed),
		Angle: dir,
		Shape: engine.Circle(g.cfg.StageRadius[stage-1]),
	})
	if err != nil {
		return 0, fmt.Errorf("asteroids: asteroid: %w", err)
	}
	g.stages[id] = stage
	return id, nil
}

// fire launches a shot along the ship's heading. Shots inherit the ship's
// speed and never hit the ship that fired them.
func (g *Game) fire() error {
	ship, ok := g.world.Entity(g.ship)
	if !ok {
		return nil
	}
	_, err := g.world.Spawn(engine.EntitySpec{
		Kind:  engine.KindShot,
		Pos:   ship.Pos,
		Vel:   core.FromAngle(ship.Angle, ship.Speed()+g.cfg.ShotSpeed),
		Angle: ship.Angle,
		Owner: ship.ID,
	})
	if err != nil {
		return fmt.Errorf("asteroids: shot: %w", err)
	}
	g.cooldown = g.cfg.FireCooldown
	g.fired++
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
		switch {
		case g.state == StatePaused && g.ship == 0:
			g.state = StateRespawn
		case g.state == StatePaused:
			g.state = StatePlaying
		default:
			g.state = StatePaused
		}
	}
	if g.state == StatePaused {
		return core.StepResult{State: g.State()}, nil
	}

	g.tickCount++
	if g.cooldown > 0 {
		g.cooldown--
	}

	if g.state == StateRespawn {
		g.respawnDelay--
		if g.respawnDelay <= 0 {
			if err := g.spawnShip(); err != nil {
				return core.StepResult{State: g.State()}, err
			}
			g.state = StatePlaying
		}
	}

	commands := map[engine.ID]engine.Command{}
	if g.state == StatePlaying {
		commands[g.ship] = engine.Command{
			Thrust:    in.Has(core.ActionUp),
			TurnLeft:  in.Has(core.ActionLeft),
			TurnRight: in.Has(core.ActionRight),
		}
		if in.Has(core.ActionFire) && g.cooldown == 0 {
			if err := g.fire(); err != nil {
				return core.StepResult{State: g.State()}, err
			}
		}
	}

	events, err := g.world.Advance(commands)
	if err != nil {
		return core.StepResult{State: g.State()}, err
	}
	if err := g.handleEvents(events); err != nil {
		return core.StepResult{State: g.State(), Events: engine.Records(events)}, err
	}

	return core.StepResult{State: g.State(), Events: engine.Records(events)}, nil
}

// handleEvents scores and splits shot asteroids, handles ship losses and
// starts the next wave once the field is clear.
func (g *Game) handleEvents(events []engine.Event) error {
	for _, ev := range events {
		switch e := ev.(type) {
		case engine.EntityDestroyed:
			if e.Kind != engine.KindAsteroid {
				continue
			}
			if err := g.split(e); err != nil {
				return err
			}
		case engine.ShipCrashed:
			if e.Ship == g.ship {
				g.loseShip()
			}
		}
	}

	if g.state != StateGameOver && g.world.Count(engine.KindAsteroid) == 0 && g.world.Pending() == 0 {
		g.level++
		return g.spawnWave()
	}
	return nil
}

// split awards the asteroid's points and replaces it with two asteroids of
// the next smaller stage diverging at the configured angle.
func (g *Game) split(e engine.EntityDestroyed) error {
	stage, ok := g.stages[e.ID]
	if !ok {
		return nil
	}
	delete(g.stages, e.ID)
	g.score += g.cfg.PointsByStage[stage-1]

	if stage <= 1 {
		return nil
	}
	dir := math.Atan2(e.Vel.Y, e.Vel.X) * 180 / math.Pi
	speed := e.Vel.Len()
	for _, turn := range []float64{-g.cfg.SplitAngle, g.cfg.SplitAngle} {
		if _, err := g.spawnAsteroid(stage-1, e.Pos, dir+turn, speed); err != nil {
			return err
		}
	}
	return nil
}

// loseShip handles the ship crashing into an asteroid.
func (g *Game) loseShip() {
	g.ship = 0
	g.lives--

	if g.lives <= 0 {
		g.state = StateGameOver
		return
	}
	g.state = StateRespawn
	g.respawnDelay = respawnTicks
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

// HUD returns the wave, the asteroids left and the ship status.
func (g *Game) HUD() string {
	hud := fmt.Sprintf("wave %d  rocks %d", g.level, g.world.Count(engine.KindAsteroid))
	if g.state == StateRespawn {
		return hud + "  respawning..."
	}
	if ship, ok := g.world.Entity(g.ship); ok && ship.Invulnerable > 0 {
		hud += "  shield"
	}
	return hud
}

// Register the game with the registry
func init() {
	registry.Register("asteroids", func() registry.Game {
		return New()
	})
}
