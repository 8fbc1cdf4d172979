package engine

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/vovakirdan/arcade-motion/internal/config"
	"github.com/vovakirdan/arcade-motion/internal/core"
)

const eps = 1e-9

func newTestWorld(t *testing.T, pairs ...[2]Kind) *World {
	t.Helper()
	return newTestWorldWith(t, config.DefaultPhysicsConfig(), pairs...)
}

func newTestWorldWith(t *testing.T, physics config.PhysicsConfig, pairs ...[2]Kind) *World {
	t.Helper()
	w, err := NewWorld(core.NewRect(0, 0, 800, 600), physics)
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	for _, p := range pairs {
		if err := w.Register(p[0], p[1]); err != nil {
			t.Fatalf("Register(%v, %v) error = %v", p[0], p[1], err)
		}
	}
	return w
}

func mustSpawn(t *testing.T, w *World, spec EntitySpec) ID {
	t.Helper()
	id, err := w.Spawn(spec)
	if err != nil {
		t.Fatalf("Spawn(%v) error = %v", spec.Kind, err)
	}
	return id
}

func mustAdvance(t *testing.T, w *World, cmds map[ID]Command) []Event {
	t.Helper()
	events, err := w.Advance(cmds)
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	return events
}

func eventTypes(events []Event) []EventType {
	out := make([]EventType, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type())
	}
	return out
}

func TestSpawnIsDeferred(t *testing.T) {
	w := newTestWorld(t)
	id := mustSpawn(t, w, EntitySpec{Kind: KindAsteroid, Pos: core.V(100, 100)})

	if id == 0 {
		t.Fatal("Spawn() returned the zero ID")
	}
	if w.Count(KindAsteroid) != 0 || w.Pending() != 1 {
		t.Errorf("before tick: count=%d pending=%d, expected 0/1", w.Count(KindAsteroid), w.Pending())
	}

	mustAdvance(t, w, nil)

	if w.Count(KindAsteroid) != 1 || w.Pending() != 0 {
		t.Errorf("after tick: count=%d pending=%d, expected 1/0", w.Count(KindAsteroid), w.Pending())
	}
}

func TestIDsAreUniqueAndIncreasing(t *testing.T) {
	w := newTestWorld(t)
	var last ID
	for i := 0; i < 20; i++ {
		id := mustSpawn(t, w, EntitySpec{Kind: KindAsteroid, Pos: core.V(10, 10)})
		if id <= last {
			t.Fatalf("ID %d not greater than previous %d", id, last)
		}
		last = id
		if i%5 == 0 {
			if err := w.Destroy(id); err != nil {
				t.Fatalf("Destroy() error = %v", err)
			}
			mustAdvance(t, w, nil)
		}
	}
}

func TestDestroyIsDeferredAndSilent(t *testing.T) {
	w := newTestWorld(t)
	id := mustSpawn(t, w, EntitySpec{Kind: KindAsteroid, Pos: core.V(100, 100)})
	mustAdvance(t, w, nil)

	if err := w.Destroy(id); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if _, ok := w.Entity(id); !ok {
		t.Error("entity removed before the next tick")
	}

	events := mustAdvance(t, w, nil)
	if _, ok := w.Entity(id); ok {
		t.Error("entity still present after the next tick")
	}
	if len(events) != 0 {
		t.Errorf("Destroy produced events %v, expected none", eventTypes(events))
	}

	if err := w.Destroy(id); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("Destroy(removed) error = %v, expected ErrUnknownEntity", err)
	}
}

func TestDestroyPendingSpawn(t *testing.T) {
	w := newTestWorld(t)
	id := mustSpawn(t, w, EntitySpec{Kind: KindAsteroid, Pos: core.V(100, 100)})
	if err := w.Destroy(id); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	mustAdvance(t, w, nil)
	if w.Count(KindAsteroid) != 0 {
		t.Errorf("Count() = %d, expected 0", w.Count(KindAsteroid))
	}
}

func TestSpawnRejects(t *testing.T) {
	tests := []struct {
		name string
		spec EntitySpec
		err  error
	}{
		{"zero radius", EntitySpec{Kind: KindBall, Shape: Circle(0)}, ErrDegenerateShape},
		{"negative box", EntitySpec{Kind: KindBlock, Shape: Box(-1, 4)}, ErrDegenerateShape},
		{"wrapping paddle", EntitySpec{Kind: KindPaddle, Policy: PolicyWrap}, ErrInvalidPolicy},
		{"removable block", EntitySpec{Kind: KindBlock, Policy: PolicyRemoveOnExit}, ErrInvalidPolicy},
		{"clamped ball", EntitySpec{Kind: KindBall, Policy: PolicyClamp}, ErrInvalidPolicy},
		{"unknown kind", EntitySpec{Kind: Kind(99)}, ErrUnknownKind},
		{"NaN position", EntitySpec{Kind: KindShip, Pos: core.V(math.NaN(), 0)}, ErrNonFinite},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld(t)
			_, err := w.Spawn(tc.spec)
			if !errors.Is(err, tc.err) {
				t.Fatalf("Spawn() error = %v, expected %v", err, tc.err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Spawn() error %T is not a *ConfigError", err)
			}
			if w.Pending() != 0 {
				t.Error("rejected entity was queued")
			}
		})
	}
}

func TestRegisterUnsupportedPair(t *testing.T) {
	w := newTestWorld(t)
	err := w.Register(KindPaddle, KindBlock)

	var contract *ContractError
	if !errors.As(err, &contract) {
		t.Fatalf("Register() error = %v, expected *ContractError", err)
	}
	if !errors.Is(err, ErrUnregisteredPair) {
		t.Error("ContractError should unwrap to ErrUnregisteredPair")
	}

	if err := w.Register(KindAsteroid, KindShot); err != nil {
		t.Errorf("Register() in reverse order error = %v", err)
	}
}

func TestWrapPreservesVelocity(t *testing.T) {
	w := newTestWorld(t)
	id := mustSpawn(t, w, EntitySpec{Kind: KindAsteroid, Pos: core.V(799, 599), Vel: core.V(2, 3)})
	mustAdvance(t, w, nil)

	e, _ := w.Entity(id)
	if math.Abs(e.Pos.X-1) > eps || math.Abs(e.Pos.Y-2) > eps {
		t.Errorf("Pos = %v, expected (1, 2)", e.Pos)
	}
	if e.Vel != core.V(2, 3) {
		t.Errorf("Vel = %v, expected (2, 3)", e.Vel)
	}
}

func TestWrapKindsKeepVelocityWithoutCommands(t *testing.T) {
	physics := config.DefaultPhysicsConfig()

	// Every drifting wrap kind, at a speed above any configured cap.
	vel := core.V(10, -7)
	var kinds []Kind
	for _, k := range Kinds {
		kc, ok := physics.Kind(k.String())
		if !ok || kc.Boundary != config.BoundaryWrap || kc.Gravity != 0 {
			continue
		}
		kinds = append(kinds, k)
	}
	if len(kinds) < 3 {
		t.Fatalf("wrap kinds = %v, expected at least ship, asteroid and shot", kinds)
	}

	for _, k := range kinds {
		t.Run(k.String(), func(t *testing.T) {
			w := newTestWorldWith(t, physics)
			id := mustSpawn(t, w, EntitySpec{Kind: k, Pos: core.V(400, 300), Vel: vel, TTL: -1})

			for i := 0; i < 300; i++ {
				mustAdvance(t, w, nil)
				e, ok := w.Entity(id)
				if !ok {
					t.Fatalf("tick %d: entity gone", i)
				}
				if e.Vel != vel {
					t.Fatalf("tick %d: Vel = %v, expected %v", i, e.Vel, vel)
				}
				if e.Pos.X < 0 || e.Pos.X >= 800 || e.Pos.Y < 0 || e.Pos.Y >= 600 {
					t.Fatalf("tick %d: Pos = %v outside the arena", i, e.Pos)
				}
			}
		})
	}
}

func TestWrapStaysInArena(t *testing.T) {
	w := newTestWorld(t)
	id := mustSpawn(t, w, EntitySpec{Kind: KindAsteroid, Pos: core.V(5, 5), Vel: core.V(-37.3, 91.7)})
	for i := 0; i < 200; i++ {
		mustAdvance(t, w, nil)
		e, _ := w.Entity(id)
		if e.Pos.X < 0 || e.Pos.X >= 800 || e.Pos.Y < 0 || e.Pos.Y >= 600 {
			t.Fatalf("tick %d: Pos = %v outside [0,800)x[0,600)", i, e.Pos)
		}
	}
}

func TestClampKeepsShapeInside(t *testing.T) {
	w := newTestWorld(t)
	id := mustSpawn(t, w, EntitySpec{Kind: KindPaddle, Pos: core.V(400, 560)})
	mustAdvance(t, w, nil)

	mustAdvance(t, w, map[ID]Command{id: MoveTo(-500)})
	e, _ := w.Entity(id)
	if e.Bounds().Left() != 0 {
		t.Errorf("paddle left edge = %v, expected 0", e.Bounds().Left())
	}

	mustAdvance(t, w, map[ID]Command{id: MoveTo(5000)})
	e, _ = w.Entity(id)
	if e.Bounds().Right() != 800 {
		t.Errorf("paddle right edge = %v, expected 800", e.Bounds().Right())
	}
	if e.Pos.Y != 560 {
		t.Errorf("paddle moved off its axis: y = %v", e.Pos.Y)
	}
}

func TestPaddleSpeedLimit(t *testing.T) {
	physics := config.DefaultPhysicsConfig()
	kc := physics.Kinds[config.KindPaddle]
	kc.PaddleSpeed = 8
	physics.Kinds[config.KindPaddle] = kc

	w := newTestWorldWith(t, physics)
	id := mustSpawn(t, w, EntitySpec{Kind: KindPaddle, Pos: core.V(400, 560)})
	mustAdvance(t, w, nil)
	mustAdvance(t, w, map[ID]Command{id: MoveTo(500)})

	e, _ := w.Entity(id)
	if e.Pos.X != 408 || e.Vel.X != 8 {
		t.Errorf("Pos.X, Vel.X = %v, %v, expected 408, 8", e.Pos.X, e.Vel.X)
	}

	mustAdvance(t, w, nil)
	e, _ = w.Entity(id)
	if e.Pos.X != 408 || e.Vel.X != 0 {
		t.Errorf("paddle drifted without a target: Pos.X=%v Vel.X=%v", e.Pos.X, e.Vel.X)
	}
}

func TestRemoveOnExit(t *testing.T) {
	w := newTestWorld(t)
	id := mustSpawn(t, w, EntitySpec{Kind: KindBall, Pos: core.V(400, 597), Vel: core.V(0, 4)})
	events := mustAdvance(t, w, nil)

	if _, ok := w.Entity(id); ok {
		t.Fatal("ball still present after leaving through the bottom")
	}
	if len(events) != 1 {
		t.Fatalf("events = %v, expected one EntityDestroyed", eventTypes(events))
	}
	d, ok := events[0].(EntityDestroyed)
	if !ok || d.ID != id || d.Exit != EdgeBottom || d.Kind != KindBall {
		t.Errorf("event = %+v, expected EntityDestroyed of ball through bottom", events[0])
	}
}

func TestThrustDragAndSpeedCap(t *testing.T) {
	physics := config.DefaultPhysicsConfig()
	if err := config.ApplyPreset(&physics, config.PresetDamped); err != nil {
		t.Fatalf("ApplyPreset() error = %v", err)
	}
	w := newTestWorldWith(t, physics)
	id := mustSpawn(t, w, EntitySpec{Kind: KindShip, Pos: core.V(400, 300), Angle: 0})
	mustAdvance(t, w, nil)

	mustAdvance(t, w, map[ID]Command{id: {Thrust: true}})
	e, _ := w.Entity(id)
	if expected := 0.1 * 0.97; math.Abs(e.Vel.X-expected) > eps {
		t.Errorf("Vel.X after one thrust = %v, expected %v", e.Vel.X, expected)
	}

	for i := 0; i < 500; i++ {
		mustAdvance(t, w, map[ID]Command{id: {Thrust: true}})
	}
	e, _ = w.Entity(id)
	if e.Speed() > 8+eps {
		t.Errorf("Speed() = %v, expected at most 8", e.Speed())
	}
}

func TestSpeedCapOnlyLimitsThrust(t *testing.T) {
	w := newTestWorld(t)
	slow := mustSpawn(t, w, EntitySpec{Kind: KindShip, Pos: core.V(100, 100), Angle: 0})
	fast := mustSpawn(t, w, EntitySpec{Kind: KindShip, Pos: core.V(400, 300), Angle: 0, Vel: core.V(10, 0)})
	mustAdvance(t, w, nil)

	for i := 0; i < 200; i++ {
		mustAdvance(t, w, map[ID]Command{slow: {Thrust: true}, fast: {Thrust: true}})
	}

	s, _ := w.Entity(slow)
	if math.Abs(s.Speed()-8) > eps {
		t.Errorf("thrusting ship Speed() = %v, expected the cap 8", s.Speed())
	}
	f, _ := w.Entity(fast)
	if math.Abs(f.Speed()-10) > eps {
		t.Errorf("fast ship Speed() = %v, expected 10 kept", f.Speed())
	}
}

func TestTurning(t *testing.T) {
	w := newTestWorld(t)
	id := mustSpawn(t, w, EntitySpec{Kind: KindShip, Pos: core.V(400, 300), Angle: 2})
	mustAdvance(t, w, nil)
	mustAdvance(t, w, map[ID]Command{id: {TurnLeft: true}})

	e, _ := w.Entity(id)
	if e.Angle != 357 {
		t.Errorf("Angle = %v, expected 357", e.Angle)
	}
}

func TestShotExpires(t *testing.T) {
	w := newTestWorld(t)
	id := mustSpawn(t, w, EntitySpec{Kind: KindShot, Pos: core.V(10, 10), Vel: core.V(1, 0)})

	for i := 1; i < 60; i++ {
		if events := mustAdvance(t, w, nil); len(events) != 0 {
			t.Fatalf("tick %d: unexpected events %v", i, eventTypes(events))
		}
	}
	events := mustAdvance(t, w, nil)
	if len(events) != 1 {
		t.Fatalf("tick 60: events = %v, expected EntityExpired", eventTypes(events))
	}
	if e, ok := events[0].(EntityExpired); !ok || e.ID != id || e.At() != 60 {
		t.Errorf("event = %+v, expected EntityExpired of shot at tick 60", events[0])
	}
	if _, ok := w.Entity(id); ok {
		t.Error("expired shot still present")
	}
}

func TestIntegrationErrorAbortsTick(t *testing.T) {
	w := newTestWorld(t)
	mustSpawn(t, w, EntitySpec{Kind: KindAsteroid, Pos: core.V(1.7e308, 0), Vel: core.V(1e308, 0)})

	events, err := w.Advance(nil)
	var integ *IntegrationError
	if !errors.As(err, &integ) {
		t.Fatalf("Advance() error = %v, expected *IntegrationError", err)
	}
	if !errors.Is(err, ErrNonFinite) {
		t.Error("IntegrationError should unwrap to ErrNonFinite")
	}
	if events != nil {
		t.Errorf("events = %v, expected none", eventTypes(events))
	}
	if w.Tick() != 0 {
		t.Errorf("Tick() = %d, expected 0", w.Tick())
	}
}

func TestIntegrationErrorLeavesWorldUntouched(t *testing.T) {
	w := newTestWorld(t)
	shot := mustSpawn(t, w, EntitySpec{Kind: KindShot, Pos: core.V(100, 100), Vel: core.V(1, 0), TTL: 1})
	rock := mustSpawn(t, w, EntitySpec{Kind: KindAsteroid, Pos: core.V(10, 10), Vel: core.V(1, 0)})
	ship := mustSpawn(t, w, EntitySpec{Kind: KindShip, Pos: core.V(300, 300), Invulnerable: 5})
	bad := mustSpawn(t, w, EntitySpec{Kind: KindAsteroid, Pos: core.V(1.7e308, 0), Vel: core.V(1e308, 0)})

	if _, err := w.Advance(nil); err == nil {
		t.Fatal("Advance() error = nil, expected *IntegrationError")
	}

	if w.Tick() != 0 {
		t.Errorf("Tick() = %d, expected 0", w.Tick())
	}
	if r, _ := w.Entity(rock); r.Pos != core.V(10, 10) {
		t.Errorf("rock Pos = %v, expected (10, 10)", r.Pos)
	}
	if s, _ := w.Entity(ship); s.Invulnerable != 5 {
		t.Errorf("ship Invulnerable = %d, expected 5", s.Invulnerable)
	}
	s, ok := w.Entity(shot)
	if !ok || s.TTL != 1 || s.Destroyed() || s.Pos != core.V(100, 100) {
		t.Fatalf("shot = %+v (present %v), expected untouched with TTL 1", s, ok)
	}

	// With the bad entity gone the same tick runs normally and the shot
	// expires with its event.
	if err := w.Destroy(bad); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	events := mustAdvance(t, w, nil)
	if len(events) != 1 || events[0].Type() != EventEntityExpired || events[0].Subject() != shot {
		t.Fatalf("events = %v, expected one EntityExpired for the shot", eventTypes(events))
	}
	if _, ok := w.Entity(shot); ok {
		t.Error("expired shot still present")
	}
	if r, _ := w.Entity(rock); r.Pos != core.V(11, 10) {
		t.Errorf("rock Pos = %v, expected (11, 10)", r.Pos)
	}
}

func TestDeterminism(t *testing.T) {
	build := func() (*World, ID) {
		w := newTestWorld(t, [2]Kind{KindShot, KindAsteroid}, [2]Kind{KindShip, KindAsteroid})
		ship := mustSpawn(t, w, EntitySpec{Kind: KindShip, Pos: core.V(400, 300), Invulnerable: -1})
		for i := 0; i < 6; i++ {
			f := float64(i)
			mustSpawn(t, w, EntitySpec{Kind: KindAsteroid, Pos: core.V(60*f, 40*f), Vel: core.V(1.5-f*0.4, 0.7+f*0.3)})
		}
		return w, ship
	}

	a, shipA := build()
	b, shipB := build()
	for i := 0; i < 300; i++ {
		cmd := Command{Thrust: i%3 == 0, TurnLeft: i%7 < 2}
		ea, errA := a.Advance(map[ID]Command{shipA: cmd})
		eb, errB := b.Advance(map[ID]Command{shipB: cmd})
		if (errA != nil) != (errB != nil) {
			t.Fatalf("tick %d: errors differ: %v vs %v", i, errA, errB)
		}
		if !reflect.DeepEqual(ea, eb) {
			t.Fatalf("tick %d: events differ", i)
		}
	}
	if !reflect.DeepEqual(a.Entities(), b.Entities()) {
		t.Error("entities differ after identical runs")
	}
}

func TestEventsCarryTick(t *testing.T) {
	w := newTestWorld(t)
	mustSpawn(t, w, EntitySpec{Kind: KindBall, Pos: core.V(400, 300)})
	mustAdvance(t, w, nil)
	mustAdvance(t, w, nil)

	mustSpawn(t, w, EntitySpec{Kind: KindBall, Pos: core.V(400, 598), Vel: core.V(0, 5)})
	events := mustAdvance(t, w, nil)
	if len(events) != 1 || events[0].At() != 3 {
		t.Fatalf("events = %+v, expected one event at tick 3", events)
	}
	rec := events[0].Record()
	if rec.Tick != 3 || rec.Kind != "entity_destroyed" {
		t.Errorf("Record() = %+v", rec)
	}
}

func TestSnapshotHash(t *testing.T) {
	build := func(vx float64) *World {
		w := newTestWorld(t)
		mustSpawn(t, w, EntitySpec{Kind: KindAsteroid, Pos: core.V(100, 100), Vel: core.V(vx, 1)})
		for i := 0; i < 10; i++ {
			mustAdvance(t, w, nil)
		}
		return w
	}

	a, b, c := build(2), build(2), build(2.5)
	sa, sb, sc := a.Snapshot(), b.Snapshot(), c.Snapshot()
	if sa.Hash() != sb.Hash() {
		t.Errorf("identical worlds hash differently: %d vs %d", sa.Hash(), sb.Hash())
	}
	if sa.Hash() == sc.Hash() {
		t.Error("different worlds hash the same")
	}
	if sa.Tick != 10 || sa.EntityCount != 1 {
		t.Errorf("Snapshot() tick=%d entities=%d, expected 10/1", sa.Tick, sa.EntityCount)
	}
}
