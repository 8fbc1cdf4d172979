package engine

import (
	"github.com/vovakirdan/arcade-motion/internal/core"
)

// applyBoundary enforces e's boundary policy inside bounds. It returns the
// edge crossed when a remove-on-exit entity leaves the arena.
func applyBoundary(e *Entity, bounds core.Rect) Edge {
	switch e.Policy {
	case PolicyWrap:
		e.Pos.X = bounds.X + core.Wrap(e.Pos.X-bounds.X, bounds.W)
		e.Pos.Y = bounds.Y + core.Wrap(e.Pos.Y-bounds.Y, bounds.H)
	case PolicyClamp:
		hw, hh := e.Shape.HalfExtents()
		e.Pos.X = clampCentre(e.Pos.X, bounds.Left()+hw, bounds.Right()-hw)
		e.Pos.Y = clampCentre(e.Pos.Y, bounds.Top()+hh, bounds.Bottom()-hh)
	case PolicyRemoveOnExit:
		return exitedEdge(e.Pos, e.Exit, bounds)
	}
	return EdgeNone
}

// clampCentre clamps v into [lo, hi], or centres it when the shape is wider
// than the arena.
func clampCentre(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return core.ClampF(v, lo, hi)
}

// exitedEdge returns the first edge in mask that pos lies beyond. The arena
// is half-open: a position on the right or bottom edge is outside.
func exitedEdge(pos core.Vec, mask Edge, bounds core.Rect) Edge {
	switch {
	case mask.Has(EdgeLeft) && pos.X < bounds.Left():
		return EdgeLeft
	case mask.Has(EdgeRight) && pos.X >= bounds.Right():
		return EdgeRight
	case mask.Has(EdgeTop) && pos.Y < bounds.Top():
		return EdgeTop
	case mask.Has(EdgeBottom) && pos.Y >= bounds.Bottom():
		return EdgeBottom
	}
	return EdgeNone
}

// bounceWalls reflects a ball off every arena edge it is not allowed to
// leave. The ball is moved back inside and its velocity is pointed away
// from the wall. It returns the edges that were struck.
func bounceWalls(e *Entity, bounds core.Rect) Edge {
	var hit Edge
	b := e.Bounds()

	if !e.Exit.Has(EdgeLeft) && b.Left() < bounds.Left() {
		e.Pos.X += bounds.Left() - b.Left()
		e.Vel.X = abs(e.Vel.X)
		hit |= EdgeLeft
	}
	if !e.Exit.Has(EdgeRight) && b.Right() > bounds.Right() {
		e.Pos.X -= b.Right() - bounds.Right()
		e.Vel.X = -abs(e.Vel.X)
		hit |= EdgeRight
	}
	if !e.Exit.Has(EdgeTop) && b.Top() < bounds.Top() {
		e.Pos.Y += bounds.Top() - b.Top()
		e.Vel.Y = abs(e.Vel.Y)
		hit |= EdgeTop
	}
	if !e.Exit.Has(EdgeBottom) && b.Bottom() > bounds.Bottom() {
		e.Pos.Y -= b.Bottom() - bounds.Bottom()
		e.Vel.Y = -abs(e.Vel.Y)
		hit |= EdgeBottom
	}
	return hit
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
