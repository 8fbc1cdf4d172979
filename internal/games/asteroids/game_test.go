package asteroids

import (
	"math"
	"testing"

	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/engine"
)

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

// clearField removes the opening wave so a test can place its own asteroids.
func clearField(t *testing.T, g *Game) {
	t.Helper()
	for _, e := range g.world.Entities() {
		if e.Kind != engine.KindAsteroid {
			continue
		}
		if err := g.world.Destroy(e.ID); err != nil {
			t.Fatalf("Destroy() error = %v", err)
		}
		delete(g.stages, e.ID)
	}
}

func shootAt(t *testing.T, g *Game, pos core.Vec) {
	t.Helper()
	_, err := g.world.Spawn(engine.EntitySpec{
		Kind: engine.KindShot,
		Pos:  pos.Sub(core.V(12, 0)),
		Vel:  core.V(10, 0),
	})
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
}

func TestGameReset(t *testing.T) {
	g := newGame(t)

	if n := g.world.Count(engine.KindAsteroid); n != g.cfg.StartCount {
		t.Errorf("asteroids = %d, expected %d", n, g.cfg.StartCount)
	}
	ship, ok := g.world.Entity(g.ship)
	if !ok {
		t.Fatal("ship should be in the world")
	}
	if ship.Invulnerable <= 0 {
		t.Error("a fresh ship should be shielded")
	}
	if g.lives != g.cfg.Lives || g.level != 1 || g.score != 0 {
		t.Errorf("lives=%d level=%d score=%d, expected %d/1/0", g.lives, g.level, g.score, g.cfg.Lives)
	}

	centre := core.V(g.cfg.Arena.Width/2, g.cfg.Arena.Height/2)
	for _, e := range g.world.Entities() {
		if e.Kind == engine.KindAsteroid && e.Pos.Dist(centre) < safeRadius-g.cfg.MaxSpeed*2 {
			t.Errorf("asteroid %d spawned at %v, too close to the ship", e.ID, e.Pos)
		}
	}
}

func TestFireCooldown(t *testing.T) {
	g := newGame(t)

	step(t, g, core.ActionFire)
	if n := g.world.Count(engine.KindShot); n != 1 {
		t.Fatalf("shots = %d, expected 1", n)
	}
	var shot engine.Entity
	for _, e := range g.world.Entities() {
		if e.Kind == engine.KindShot {
			shot = e
		}
	}
	if shot.Owner != g.ship {
		t.Errorf("shot owner = %d, expected ship %d", shot.Owner, g.ship)
	}
	if math.Abs(shot.Speed()-g.cfg.ShotSpeed) > 1e-9 {
		t.Errorf("shot speed = %v, expected %v", shot.Speed(), g.cfg.ShotSpeed)
	}

	step(t, g, core.ActionFire)
	if g.fired != 1 {
		t.Errorf("fired = %d, expected cooldown to block the second shot", g.fired)
	}

	for i := 0; i < g.cfg.FireCooldown; i++ {
		step(t, g)
	}
	step(t, g, core.ActionFire)
	if g.fired != 2 {
		t.Errorf("fired = %d, expected a shot after the cooldown", g.fired)
	}
}

func TestShotSplitsAsteroid(t *testing.T) {
	g := newGame(t)
	clearField(t, g)

	pos := core.V(600, 100)
	if _, err := g.spawnAsteroid(3, pos, 0, 2); err != nil {
		t.Fatalf("spawnAsteroid() error = %v", err)
	}
	shootAt(t, g, pos)

	result := step(t, g)
	if result.State.Score != g.cfg.PointsByStage[2] {
		t.Errorf("Score = %d, expected %d", result.State.Score, g.cfg.PointsByStage[2])
	}
	if result.State.Level != 1 {
		t.Errorf("Level = %d, the split halves should keep the wave going", result.State.Level)
	}

	step(t, g)
	var children []engine.Entity
	for _, e := range g.world.Entities() {
		if e.Kind == engine.KindAsteroid {
			children = append(children, e)
		}
	}
	if len(children) != 2 {
		t.Fatalf("asteroids = %d, expected 2 halves", len(children))
	}
	for _, c := range children {
		if g.stages[c.ID] != 2 {
			t.Errorf("child stage = %d, expected 2", g.stages[c.ID])
		}
		if c.Shape.Radius != g.cfg.StageRadius[1] {
			t.Errorf("child radius = %v, expected %v", c.Shape.Radius, g.cfg.StageRadius[1])
		}
		if math.Abs(c.Speed()-2) > 1e-9 {
			t.Errorf("child speed = %v, expected 2", c.Speed())
		}
	}
	a := math.Atan2(children[0].Vel.Y, children[0].Vel.X) * 180 / math.Pi
	b := math.Atan2(children[1].Vel.Y, children[1].Vel.X) * 180 / math.Pi
	if math.Abs(math.Abs(a-b)-2*g.cfg.SplitAngle) > 1e-6 {
		t.Errorf("children headings %v and %v, expected %v apart", a, b, 2*g.cfg.SplitAngle)
	}
}

func TestSmallestStageClearsWave(t *testing.T) {
	g := newGame(t)
	clearField(t, g)

	pos := core.V(600, 100)
	if _, err := g.spawnAsteroid(1, pos, 0, 2); err != nil {
		t.Fatalf("spawnAsteroid() error = %v", err)
	}
	shootAt(t, g, pos)

	result := step(t, g)
	if result.State.Score != g.cfg.PointsByStage[0] {
		t.Errorf("Score = %d, expected %d", result.State.Score, g.cfg.PointsByStage[0])
	}
	if result.State.Level != 2 {
		t.Errorf("Level = %d, expected the next wave", result.State.Level)
	}

	step(t, g)
	if n := g.world.Count(engine.KindAsteroid); n != g.cfg.StartCount+1 {
		t.Errorf("wave 2 asteroids = %d, expected %d", n, g.cfg.StartCount+1)
	}
}

// exposeShip swaps the shielded ship for an unshielded one at the same spot.
func exposeShip(t *testing.T, g *Game) core.Vec {
	t.Helper()
	ship, _ := g.world.Entity(g.ship)
	if err := g.world.Destroy(g.ship); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	id, err := g.world.Spawn(engine.EntitySpec{
		Kind:         engine.KindShip,
		Pos:          ship.Pos,
		Angle:        ship.Angle,
		Invulnerable: -1,
	})
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	g.ship = id
	return ship.Pos
}

func TestShipCrashRespawns(t *testing.T) {
	g := newGame(t)
	clearField(t, g)
	pos := exposeShip(t, g)
	if _, err := g.spawnAsteroid(3, pos.Add(core.V(20, 0)), 0, 0); err != nil {
		t.Fatalf("spawnAsteroid() error = %v", err)
	}

	result := step(t, g)
	if result.State.Lives != g.cfg.Lives-1 {
		t.Errorf("Lives = %d, expected %d", result.State.Lives, g.cfg.Lives-1)
	}
	if g.state != StateRespawn {
		t.Fatalf("state = %s, expected respawn", g.state)
	}
	if g.world.Count(engine.KindAsteroid) != 1 {
		t.Error("the asteroid should survive ramming")
	}

	step(t, g, core.ActionFire)
	if g.fired != 0 {
		t.Error("no shots while respawning")
	}

	for i := 1; i < respawnTicks; i++ {
		step(t, g)
	}
	if g.state != StatePlaying {
		t.Fatalf("state = %s, expected playing after respawn", g.state)
	}
	ship, ok := g.world.Entity(g.ship)
	if !ok || ship.Invulnerable <= 0 {
		t.Errorf("respawned ship = %+v, expected a shielded ship", ship)
	}
}

func TestGameOver(t *testing.T) {
	g := newGame(t)
	g.lives = 1
	clearField(t, g)
	pos := exposeShip(t, g)
	if _, err := g.spawnAsteroid(3, pos, 0, 0); err != nil {
		t.Fatalf("spawnAsteroid() error = %v", err)
	}

	result := step(t, g)
	if !result.State.GameOver {
		t.Fatal("Game should be over after the last ship")
	}

	step(t, g, core.ActionRestart)
	if g.state != StatePlaying || g.lives != g.cfg.Lives {
		t.Errorf("restart should begin a new game, got state=%s lives=%d", g.state, g.lives)
	}
}

func TestGamePause(t *testing.T) {
	g := newGame(t)

	step(t, g, core.ActionPause)
	if g.state != StatePaused {
		t.Fatalf("Game should be paused, got %s", g.state)
	}
	tick := g.world.Tick()
	step(t, g, core.ActionFire)
	if g.world.Tick() != tick || g.fired != 0 {
		t.Error("world should not advance while paused")
	}

	step(t, g, core.ActionPause)
	if g.state != StatePlaying {
		t.Errorf("Game should resume, got %s", g.state)
	}
}

func TestGameDeterminism(t *testing.T) {
	run := func() Snapshot {
		g := newGame(t)
		for i := 0; i < 1500; i++ {
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
	if snap1.Fired == 0 {
		t.Error("autopilot should have fired")
	}
}
