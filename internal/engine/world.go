// Package engine is a deterministic 2D motion and collision engine for
// arcade games. A World owns entities of a fixed set of kinds, advances them
// one tick at a time and reports what happened as events. Scoring, lives and
// levels belong to the games built on top of it.
package engine

import (
	"fmt"

	"github.com/vovakirdan/arcade-motion/internal/config"
	"github.com/vovakirdan/arcade-motion/internal/core"
)

// World is the simulation state. It is not safe for concurrent use.
type World struct {
	bounds  core.Rect
	physics config.PhysicsConfig
	tunings map[Kind]tuning

	arena   *Arena
	rules   []pairRule
	terrain *Terrain
	queue   EventQueue

	tick uint64
}

// NewWorld creates an empty world covering bounds, tuned by physics.
func NewWorld(bounds core.Rect, physics config.PhysicsConfig) (*World, error) {
	if !(bounds.W > 0) || !(bounds.H > 0) || !core.V(bounds.X, bounds.Y).IsFinite() || !core.V(bounds.W, bounds.H).IsFinite() {
		return nil, &ConfigError{Detail: fmt.Sprintf("arena %vx%v", bounds.W, bounds.H), Err: ErrDegenerateShape}
	}
	if err := physics.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		bounds:  bounds,
		physics: physics,
		tunings: make(map[Kind]tuning, len(Kinds)),
		arena:   NewArena(),
	}
	for _, k := range Kinds {
		kc, ok := physics.Kind(k.String())
		if !ok {
			continue
		}
		t, err := newTuning(k, kc)
		if err != nil {
			return nil, err
		}
		w.tunings[k] = t
	}
	return w, nil
}

// Bounds returns the arena rectangle.
func (w *World) Bounds() core.Rect { return w.bounds }

// Tick returns the number of completed ticks.
func (w *World) Tick() uint64 { return w.tick }

// Terrain returns the ground, or nil when none is set.
func (w *World) Terrain() *Terrain { return w.terrain }

// Physics returns the tuning the world was built with.
func (w *World) Physics() config.PhysicsConfig { return w.physics }

// Register enables contact detection between kinds a and b. Pairs are
// detected in registration order. Registering an unsupported pair is a
// programming error and returns a *ContractError.
func (w *World) Register(a, b Kind) error {
	rule, ok := canonicalPair(a, b)
	if !ok {
		return &ContractError{A: a, B: b}
	}
	for _, r := range w.rules {
		if r == rule {
			return nil
		}
	}
	w.rules = append(w.rules, rule)
	return nil
}

// SetTerrain sets the ground that ships and landers can land on or crash
// into. Nil removes it.
func (w *World) SetTerrain(t *Terrain) {
	w.terrain = t
}

// Create spawns an entity of kind k with the kind's default shape and
// boundary policy. See Spawn.
func (w *World) Create(k Kind, pos, vel core.Vec, angle float64) (ID, error) {
	return w.Spawn(EntitySpec{Kind: k, Pos: pos, Vel: vel, Angle: angle})
}

// Spawn validates spec and schedules the entity to join the world at the
// start of the next tick. The returned ID is valid immediately.
func (w *World) Spawn(spec EntitySpec) (ID, error) {
	e, err := w.build(spec)
	if err != nil {
		return 0, err
	}
	return w.arena.queueSpawn(e), nil
}

func (w *World) build(spec EntitySpec) (*Entity, error) {
	if !spec.Kind.valid() {
		return nil, &ConfigError{Kind: spec.Kind, Err: ErrUnknownKind}
	}
	t, ok := w.tunings[spec.Kind]
	if !ok {
		return nil, &ConfigError{Kind: spec.Kind, Detail: "no physics tuning", Err: ErrUnknownKind}
	}
	if !spec.Pos.IsFinite() || !spec.Vel.IsFinite() {
		return nil, &ConfigError{Kind: spec.Kind, Detail: "position or velocity", Err: ErrNonFinite}
	}

	e := &Entity{
		Kind:         spec.Kind,
		Pos:          spec.Pos,
		Vel:          spec.Vel,
		Angle:        core.NormalizeAngle(spec.Angle),
		Oriented:     t.oriented,
		Shape:        spec.Shape,
		Policy:       spec.Policy,
		Exit:         spec.Exit,
		Face:         spec.Face,
		Owner:        spec.Owner,
		TTL:          spec.TTL,
		Invulnerable: spec.Invulnerable,
	}
	if e.Shape.Kind == ShapeNone {
		e.Shape = t.shape
	}
	if err := e.Shape.validate(); err != nil {
		return nil, &ConfigError{Kind: spec.Kind, Err: err}
	}
	if e.Policy == PolicyUnset {
		e.Policy = t.policy
		if e.Exit == EdgeNone {
			e.Exit = t.exit
		}
	}
	if e.Policy == PolicyRemoveOnExit && e.Exit == EdgeNone {
		e.Exit = EdgeAll
	}
	if !compatible(e.Kind, e.Policy) {
		return nil, &ConfigError{Kind: spec.Kind, Detail: e.Policy.String(), Err: ErrInvalidPolicy}
	}
	e.TTL = ticksOrDefault(spec.TTL, t.ttl)
	e.Invulnerable = ticksOrDefault(spec.Invulnerable, t.invulnerable)
	return e, nil
}

// ticksOrDefault resolves a spec tick count: zero takes the kind default and
// a negative value disables the counter.
func ticksOrDefault(v, def int) int {
	switch {
	case v < 0:
		return 0
	case v == 0:
		return def
	}
	return v
}

// Destroy schedules the removal of id at the start of the next tick. No
// event is emitted. It returns ErrUnknownEntity when id is not in the world.
func (w *World) Destroy(id ID) error {
	if !w.arena.queueRemove(id) {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	return nil
}

// Clear removes every entity immediately. IDs are not reused afterwards.
func (w *World) Clear() {
	w.arena.clear()
	w.queue.Reset()
}

// Entity returns a copy of the live entity with the given ID.
func (w *World) Entity(id ID) (Entity, bool) {
	e, ok := w.arena.get(id)
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// Entities returns copies of every live entity in arena order.
func (w *World) Entities() []Entity {
	out := make([]Entity, 0, w.arena.Len())
	for _, e := range w.arena.live() {
		out = append(out, *e)
	}
	return out
}

// Count returns the number of live entities of kind k.
func (w *World) Count(k Kind) int {
	return len(w.arena.ofKind(k))
}

// Pending returns the number of entities waiting to join at the next tick.
func (w *World) Pending() int {
	return w.arena.Pending()
}

// Advance runs one tick:
//
//  1. deferred spawns and removals are applied
//  2. each entity is integrated under its command, TTLs count down
//  3. boundary policies are enforced and balls bounce off walls
//  4. contacts are detected for every registered pair, then resolved
//  5. crafts are checked against the terrain
//  6. destroyed entities are swept
//
// Events are returned in emission order. If integration produces a
// non-finite value the tick is aborted with an *IntegrationError, no events
// are returned and the tick counter does not advance.
func (w *World) Advance(commands map[ID]Command) ([]Event, error) {
	w.arena.flush()

	if err := w.integrateAll(commands); err != nil {
		return nil, err
	}

	for _, e := range w.arena.live() {
		if e.destroyed || e.Landed() {
			continue
		}
		if edge := applyBoundary(e, w.bounds); edge != EdgeNone {
			w.destroy(e, 0, edge)
			continue
		}
		if e.Kind == KindBall && e.Policy != PolicyWrap {
			if hit := bounceWalls(e, w.bounds); hit != EdgeNone {
				w.emit(WallBounce{Tick: w.now(), Ball: e.ID, Edge: hit})
			}
		}
	}

	w.resolve(detect(w.arena, w.rules))
	w.resolveTerrain()

	w.arena.sweep()
	w.tick++
	return w.queue.Drain(), nil
}

// motion is the integrated next state of one entity.
type motion struct {
	e       *Entity
	next    Entity
	expired bool
}

// integrateAll integrates every live entity into temporaries and commits
// them only when all of them are finite, so an aborted tick leaves the
// world exactly as it was.
func (w *World) integrateAll(commands map[ID]Command) error {
	live := w.arena.live()
	moves := make([]motion, 0, len(live))
	for _, e := range live {
		if e.destroyed || e.Landed() {
			continue
		}
		next := *e
		if next.TTL > 0 {
			next.TTL--
			if next.TTL == 0 {
				next.destroyed = true
				moves = append(moves, motion{e: e, next: next, expired: true})
				continue
			}
		}
		if next.Invulnerable > 0 {
			next.Invulnerable--
		}
		if err := integrate(&next, commands[e.ID], w.tunings[e.Kind]); err != nil {
			return err
		}
		moves = append(moves, motion{e: e, next: next})
	}

	for _, m := range moves {
		*m.e = m.next
		if m.expired {
			w.emit(EntityExpired{Tick: w.now(), ID: m.e.ID, Kind: m.e.Kind})
		}
	}
	return nil
}

// now is the number of the tick being simulated.
func (w *World) now() uint64 { return w.tick + 1 }

func (w *World) emit(e Event) { w.queue.Push(e) }
