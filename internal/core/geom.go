// Package core provides fundamental types and utilities shared by the motion
// engine, the games built on it and the terminal platform.
// It contains no external dependencies to keep simulation logic pure and testable.
package core

import "math"

// Vec is a 2D vector in world space. Y grows downward (screen convention).
type Vec struct {
	X, Y float64
}

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by f.
func (v Vec) Scale(f float64) Vec {
	return Vec{X: v.X * f, Y: v.Y * f}
}

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Len returns the magnitude of the vector.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the distance between two points.
func (v Vec) Dist(o Vec) float64 {
	return v.Sub(o).Len()
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// FromAngle builds a vector of magnitude mag pointing at deg degrees.
// 0° is +x and angles increase clockwise on screen (toward +y).
func FromAngle(deg, mag float64) Vec {
	rad := deg * math.Pi / 180
	return Vec{X: mag * math.Cos(rad), Y: mag * math.Sin(rad)}
}

// Rect is an axis-aligned bounding box with its origin at the top-left corner.
type Rect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectAround creates a rectangle of size w×h centred on c.
func RectAround(c Vec, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// Left returns the x-coordinate of the left edge.
func (r Rect) Left() float64 { return r.X }

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the y-coordinate of the top edge.
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec {
	return Vec{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Translate returns the rectangle moved by d.
func (r Rect) Translate(d Vec) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Intersects returns true if this rectangle overlaps with another.
// Touching edges do not count as overlap.
func (r Rect) Intersects(other Rect) bool {
	// No overlap if one rect is completely to the left, right, above, or below
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point is inside this rectangle.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// ContainsRect returns true if o lies entirely inside r (edges may touch).
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Right() <= r.Right() && o.Y >= r.Y && o.Bottom() <= r.Bottom()
}

// Penetration returns the signed overlap depth of a into b on each axis.
// A positive dx means a must move right by dx to separate; zero means no overlap.
func Penetration(a, b Rect) (dx, dy float64) {
	if !a.Intersects(b) {
		return 0, 0
	}
	left := a.Right() - b.Left()
	right := b.Right() - a.Left()
	if left < right {
		dx = -left
	} else {
		dx = right
	}
	up := a.Bottom() - b.Top()
	down := b.Bottom() - a.Top()
	if up < down {
		dy = -up
	} else {
		dy = down
	}
	return dx, dy
}

// Circle is a circular collision primitive.
type Circle struct {
	Center Vec
	Radius float64
}

// Bounds returns the circle's axis-aligned bounding rectangle.
func (c Circle) Bounds() Rect {
	return RectAround(c.Center, 2*c.Radius, 2*c.Radius)
}

// CirclesOverlap reports whether the distance between centres is strictly
// less than the sum of the radii.
func CirclesOverlap(a, b Circle) bool {
	dx := a.Center.X - b.Center.X
	dy := a.Center.Y - b.Center.Y
	sum := a.Radius + b.Radius
	return dx*dx+dy*dy < sum*sum
}

// Segment is a line segment between two points.
type Segment struct {
	A, B Vec
}

// CCW reports whether a, b, c turn counter-clockwise in the orientation test
// (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X). Collinear points report false.
func CCW(a, b, c Vec) bool {
	return (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X)
}

// SegmentsIntersect reports whether segment ab crosses segment cd.
// Collinear overlapping segments are not considered intersecting.
func SegmentsIntersect(a, b, c, d Vec) bool {
	return CCW(a, c, d) != CCW(b, c, d) && CCW(a, b, c) != CCW(a, b, d)
}

// Intersects reports whether two segments cross.
func (s Segment) Intersects(o Segment) bool {
	return SegmentsIntersect(s.A, s.B, o.A, o.B)
}

// Wrap maps v into the half-open interval [0, extent).
func Wrap(v, extent float64) float64 {
	if extent <= 0 {
		return v
	}
	v = math.Mod(v, extent)
	if v < 0 {
		v += extent
	}
	// -tiny + extent rounds to extent
	if v >= extent {
		v = 0
	}
	return v
}

// NormalizeAngle maps an angle in degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	return Wrap(deg, 360)
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Sign returns -1, 0, or 1.
func Sign(f float64) float64 {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	}
	return 0
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
