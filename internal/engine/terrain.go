package engine

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/arcade-motion/internal/core"
)

// Terrain is a polyline ground with one landing platform between two of
// its points.
type Terrain struct {
	points        []core.Vec
	platformStart int
	platformEnd   int
}

// NewTerrain builds a terrain from points ordered by strictly increasing x.
// The platform spans points[platformStart] to points[platformEnd]; its
// height is taken from the first of the two.
func NewTerrain(points []core.Vec, platformStart, platformEnd int) (*Terrain, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrTerrain, len(points))
	}
	for i, p := range points {
		if !p.IsFinite() {
			return nil, fmt.Errorf("%w: point %d is not finite", ErrTerrain, i)
		}
		if i > 0 && p.X <= points[i-1].X {
			return nil, fmt.Errorf("%w: x must increase strictly (point %d)", ErrTerrain, i)
		}
	}
	if platformStart < 0 || platformEnd >= len(points) || platformStart >= platformEnd {
		return nil, fmt.Errorf("%w: platform [%d, %d] outside %d points", ErrTerrain, platformStart, platformEnd, len(points))
	}

	pts := make([]core.Vec, len(points))
	copy(pts, points)
	return &Terrain{points: pts, platformStart: platformStart, platformEnd: platformEnd}, nil
}

// GenerateTerrain builds a random ridge across width with one flat
// platform segment. Heights oscillate around two thirds of the arena height.
func GenerateTerrain(rng *rand.Rand, width, height, segment float64) (*Terrain, error) {
	if segment <= 0 || width < 4*segment {
		return nil, fmt.Errorf("%w: width %v too small for segment %v", ErrTerrain, width, segment)
	}
	n := int(width / segment)
	platform := 2 + rng.Intn(n-3) // in [2, n-2]
	base := height * 2 / 3

	points := make([]core.Vec, 0, n+1)
	y := base
	for i := 0; i <= n; i++ {
		if i != platform {
			y = math.Round(80*math.Sin(float64(120*i+50)) + float64(rng.Intn(71)-20) + base)
			y = core.ClampF(y, height/3, height-1)
		}
		points = append(points, core.V(float64(i)*segment, y))
	}
	return NewTerrain(points, platform-1, platform)
}

// Points returns a copy of the terrain polyline.
func (t *Terrain) Points() []core.Vec {
	out := make([]core.Vec, len(t.points))
	copy(out, t.points)
	return out
}

// Segments returns the polyline as consecutive segments.
func (t *Terrain) Segments() []core.Segment {
	segs := make([]core.Segment, 0, len(t.points)-1)
	for i := 1; i < len(t.points); i++ {
		segs = append(segs, core.Segment{A: t.points[i-1], B: t.points[i]})
	}
	return segs
}

// Platform returns the x-range and height of the landing platform.
func (t *Terrain) Platform() (x1, x2, y float64) {
	a, b := t.points[t.platformStart], t.points[t.platformEnd]
	return a.X, b.X, a.Y
}

// PlatformIndices returns the indices of the platform's end points.
func (t *Terrain) PlatformIndices() (start, end int) {
	return t.platformStart, t.platformEnd
}

// HeightAt returns the terrain height under x, interpolated between points.
// Positions outside the polyline take the nearest end point's height.
func (t *Terrain) HeightAt(x float64) float64 {
	if x <= t.points[0].X {
		return t.points[0].Y
	}
	for i := 1; i < len(t.points); i++ {
		a, b := t.points[i-1], t.points[i]
		if x <= b.X {
			f := (x - a.X) / (b.X - a.X)
			return a.Y + f*(b.Y-a.Y)
		}
	}
	return t.points[len(t.points)-1].Y
}

// lowerEdge returns the bottom edge of a bounding box as a segment.
func lowerEdge(b core.Rect) core.Segment {
	return core.Segment{A: core.V(b.Left(), b.Bottom()), B: core.V(b.Right(), b.Bottom())}
}

// touchdown reports whether a box with bounds b is on the platform: its
// lower edge is below the platform height and its x-extent lies within it.
func (t *Terrain) touchdown(b core.Rect) bool {
	x1, x2, y := t.Platform()
	return b.Bottom() > y && b.Left() >= x1 && b.Right() <= x2
}

// crashes reports whether the lower edge of b crosses any terrain segment.
func (t *Terrain) crashes(b core.Rect) bool {
	edge := lowerEdge(b)
	for _, s := range t.Segments() {
		if edge.Intersects(s) {
			return true
		}
	}
	return false
}
