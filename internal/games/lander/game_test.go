package lander

import (
	"math"
	"strings"
	"testing"

	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/engine"
)

const eps = 1e-9

func newGame(t *testing.T) *Game {
	t.Helper()
	g := New()
	if err := g.Reset(core.DefaultConfig()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	step(t, g)
	return g
}

func step(t *testing.T, g *Game, actions ...core.Action) core.StepResult {
	t.Helper()
	result, err := g.Step(core.FrameOf(actions...))
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	return result
}

// flatPad installs a known terrain whose platform spans x 100..200 at y 500.
func flatPad(t *testing.T, g *Game) *engine.Terrain {
	t.Helper()
	terrain, err := engine.NewTerrain([]core.Vec{
		core.V(0, 450), core.V(100, 500), core.V(200, 500), core.V(300, 420), core.V(600, 420),
	}, 1, 2)
	if err != nil {
		t.Fatalf("NewTerrain() error = %v", err)
	}
	g.world.SetTerrain(terrain)
	return terrain
}

// placeCraft replaces the craft with one at pos moving at vel.
func placeCraft(t *testing.T, g *Game, pos, vel core.Vec) {
	t.Helper()
	if err := g.world.Destroy(g.craft); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	id, err := g.world.Spawn(engine.EntitySpec{Kind: engine.KindLanderCraft, Pos: pos, Vel: vel, Angle: 270})
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	g.craft = id
}

func craft(t *testing.T, g *Game) engine.Entity {
	t.Helper()
	e, ok := g.world.Entity(g.craft)
	if !ok {
		t.Fatal("craft should be in the world")
	}
	return e
}

func TestGameReset(t *testing.T) {
	g := newGame(t)

	if g.world.Terrain() == nil {
		t.Fatal("Reset should generate terrain")
	}
	c := craft(t, g)
	if c.Pos.X != g.cfg.Arena.Width/2 {
		t.Errorf("craft X = %v, expected %v", c.Pos.X, g.cfg.Arena.Width/2)
	}
	if g.Fuel() != g.cfg.Fuel {
		t.Errorf("Fuel() = %d, expected %d", g.Fuel(), g.cfg.Fuel)
	}
	if !strings.Contains(g.HUD(), "FUEL 250") {
		t.Errorf("HUD() = %q, expected the fuel gauge", g.HUD())
	}
}

func TestFuelGatesEngines(t *testing.T) {
	tests := []struct {
		name   string
		action core.Action
		fuel   int
		dv     core.Vec
		spent  int
	}{
		{"main engine", core.ActionUp, 250, core.V(0, -0.3), 2},
		{"left jet", core.ActionLeft, 250, core.V(-0.1, 0.1), 1},
		{"right jet", core.ActionRight, 250, core.V(0.1, 0.1), 1},
		{"empty tank", core.ActionUp, 0, core.V(0, 0.1), 0},
		{"last drop", core.ActionUp, 1, core.V(0, -0.3), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newGame(t)
			g.fuel = tc.fuel
			before := craft(t, g).Vel

			step(t, g, tc.action)

			dv := craft(t, g).Vel.Sub(before)
			if math.Abs(dv.X-tc.dv.X) > eps || math.Abs(dv.Y-tc.dv.Y) > eps {
				t.Errorf("velocity change = %v, expected %v", dv, tc.dv)
			}
			if spent := tc.fuel - g.Fuel(); spent != tc.spent {
				t.Errorf("fuel spent = %d, expected %d", spent, tc.spent)
			}
		})
	}
}

func TestLandingScoresAndAdvances(t *testing.T) {
	g := newGame(t)
	pad := flatPad(t, g)
	placeCraft(t, g, core.V(150, 490), core.V(0, 2))

	result := step(t, g)

	if g.state != StateLanded {
		t.Fatalf("state = %s, expected landed", g.state)
	}
	if result.State.Score != 10+g.cfg.Fuel {
		t.Errorf("Score = %d, expected %d", result.State.Score, 10+g.cfg.Fuel)
	}
	if result.State.Level != 2 {
		t.Errorf("Level = %d, expected 2", result.State.Level)
	}

	for i := 1; i < g.cfg.PauseTicks; i++ {
		step(t, g)
	}
	if g.state != StateLanded {
		t.Fatalf("state = %s, the result should hold for %d ticks", g.state, g.cfg.PauseTicks)
	}

	step(t, g)
	if g.state != StateFlying {
		t.Fatalf("state = %s, expected a new flight", g.state)
	}
	if g.world.Terrain() == pad {
		t.Error("a landing should generate new terrain")
	}
	if g.Fuel() != g.cfg.Fuel {
		t.Errorf("Fuel() = %d, expected a full tank", g.Fuel())
	}
	if n := g.world.Count(engine.KindLanderCraft); n != 1 {
		t.Errorf("crafts = %d, expected only the new one", n)
	}
}

func TestCrashCostsLife(t *testing.T) {
	g := newGame(t)
	pad := flatPad(t, g)
	placeCraft(t, g, core.V(150, 490), core.V(0, 6))

	result := step(t, g)

	if g.state != StateCrashed {
		t.Fatalf("state = %s, expected crashed", g.state)
	}
	if result.State.Lives != g.cfg.Lives-1 {
		t.Errorf("Lives = %d, expected %d", result.State.Lives, g.cfg.Lives-1)
	}
	if result.State.Score != 0 {
		t.Errorf("Score = %d, a crash scores nothing", result.State.Score)
	}

	for i := 0; i < g.cfg.PauseTicks; i++ {
		step(t, g)
	}
	if g.state != StateFlying {
		t.Fatalf("state = %s, expected another attempt", g.state)
	}
	if g.world.Terrain() != pad {
		t.Error("a crash should keep the same terrain")
	}
}

func TestGameOver(t *testing.T) {
	g := newGame(t)
	g.lives = 1
	flatPad(t, g)
	placeCraft(t, g, core.V(50, 460), core.V(0, 2))

	result := step(t, g)
	if !result.State.GameOver {
		t.Fatal("Game should be over after the last craft")
	}
	if !strings.Contains(g.HUD(), "CRASHED") {
		t.Errorf("HUD() = %q, expected the crash message", g.HUD())
	}

	step(t, g, core.ActionRestart)
	if g.state != StateFlying || g.lives != g.cfg.Lives {
		t.Errorf("restart should begin a new game, got state=%s lives=%d", g.state, g.lives)
	}
}

func TestGamePause(t *testing.T) {
	g := newGame(t)

	step(t, g, core.ActionPause)
	before := craft(t, g).Pos
	step(t, g, core.ActionUp)
	if craft(t, g).Pos != before || g.Fuel() != g.cfg.Fuel {
		t.Error("craft should not move or burn fuel while paused")
	}

	step(t, g, core.ActionPause)
	if g.state != StateFlying {
		t.Errorf("state = %s, expected flying after unpause", g.state)
	}
}

func TestGameDeterminism(t *testing.T) {
	run := func() Snapshot {
		g := newGame(t)
		for i := 0; i < 1200; i++ {
			if _, err := g.Step(g.Autopilot()); err != nil {
				t.Fatalf("tick %d: Step() error = %v", i, err)
			}
		}
		return g.Snapshot()
	}

	snap1 := run()
	snap2 := run()
	if snap1.Hash() != snap2.Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", snap1.Hash(), snap2.Hash())
	}
}
