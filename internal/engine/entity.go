package engine

import (
	"fmt"
	"math"

	"github.com/vovakirdan/arcade-motion/internal/core"
)

// ID identifies an entity for the lifetime of a World. IDs are never reused.
type ID uint64

// ShapeKind selects the collision primitive.
type ShapeKind int

const (
	ShapeNone ShapeKind = iota
	ShapeCircle
	ShapeBox
)

// Shape is the collision extent of an entity, centred on its position.
type Shape struct {
	Kind   ShapeKind
	Radius float64 // Circle
	W, H   float64 // Box
}

// Circle returns a circle shape of radius r.
func Circle(r float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: r}
}

// Box returns an axis-aligned box of size w×h.
func Box(w, h float64) Shape {
	return Shape{Kind: ShapeBox, W: w, H: h}
}

// Bounds returns the bounding rectangle of the shape centred at pos.
func (s Shape) Bounds(pos core.Vec) core.Rect {
	if s.Kind == ShapeCircle {
		return core.RectAround(pos, 2*s.Radius, 2*s.Radius)
	}
	return core.RectAround(pos, s.W, s.H)
}

// HalfExtents returns half the width and half the height of the shape.
func (s Shape) HalfExtents() (hw, hh float64) {
	if s.Kind == ShapeCircle {
		return s.Radius, s.Radius
	}
	return s.W / 2, s.H / 2
}

func (s Shape) validate() error {
	switch s.Kind {
	case ShapeCircle:
		if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
			return fmt.Errorf("%w: radius %v", ErrDegenerateShape, s.Radius)
		}
	case ShapeBox:
		if !(s.W > 0) || !(s.H > 0) || math.IsInf(s.W, 0) || math.IsInf(s.H, 0) {
			return fmt.Errorf("%w: box %vx%v", ErrDegenerateShape, s.W, s.H)
		}
	default:
		return fmt.Errorf("%w: no shape", ErrDegenerateShape)
	}
	return nil
}

// String describes the shape, e.g. "circle(6)" or "box(70x20)".
func (s Shape) String() string {
	switch s.Kind {
	case ShapeCircle:
		return fmt.Sprintf("circle(%g)", s.Radius)
	case ShapeBox:
		return fmt.Sprintf("box(%gx%g)", s.W, s.H)
	}
	return "none"
}

// Entity is a simulated body. Entities are owned by the World; callers only
// ever receive copies.
type Entity struct {
	ID       ID
	Kind     Kind
	Pos      core.Vec
	Vel      core.Vec
	Angle    float64 // Heading in degrees, used only when Oriented
	Oriented bool
	Shape    Shape
	Policy   BoundaryPolicy
	Exit     Edge // Edges that remove the entity under PolicyRemoveOnExit
	Face     Face // Paddles only

	Owner        ID  // Entity that fired a shot
	TTL          int // Ticks left to live; 0 means unlimited
	Invulnerable int // Ticks of immunity to destructive contacts
	Status       Status

	destroyed bool
}

// Bounds returns the entity's bounding rectangle at its current position.
func (e *Entity) Bounds() core.Rect {
	return e.Shape.Bounds(e.Pos)
}

// Destroyed reports whether the entity was removed during the current tick.
func (e *Entity) Destroyed() bool { return e.destroyed }

// Landed reports whether a craft has touched down.
func (e *Entity) Landed() bool { return e.Status == StatusLanded }

// Speed returns the magnitude of the velocity.
func (e *Entity) Speed() float64 { return e.Vel.Len() }

// EntitySpec describes an entity to spawn. Zero fields take the defaults of
// the kind from the physics configuration. A negative TTL or Invulnerable
// turns the counter off.
type EntitySpec struct {
	Kind         Kind
	Pos          core.Vec
	Vel          core.Vec
	Angle        float64
	Shape        Shape
	Policy       BoundaryPolicy
	Exit         Edge
	Face         Face
	Owner        ID
	TTL          int
	Invulnerable int
}

// compatible reports whether a kind may use a boundary policy.
// Paddles and blocks are always kept inside the arena; balls bounce off the
// walls they cannot leave, which clamping would prevent.
func compatible(k Kind, p BoundaryPolicy) bool {
	switch k {
	case KindPaddle, KindBlock:
		return p == PolicyClamp
	case KindBall:
		return p == PolicyWrap || p == PolicyRemoveOnExit
	}
	return p == PolicyWrap || p == PolicyClamp || p == PolicyRemoveOnExit
}
