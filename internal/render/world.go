package render

import (
	"math"
	"sort"

	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/engine"
)

// Projection maps world coordinates onto a block of canvas rows.
type Projection struct {
	bounds core.Rect
	cols   int
	rows   int
	top    int // Canvas row of the arena's top edge
}

// NewProjection scales bounds onto cols×rows cells starting at canvas row top.
func NewProjection(bounds core.Rect, cols, rows, top int) Projection {
	return Projection{bounds: bounds, cols: cols, rows: rows, top: top}
}

func (p Projection) scaleX() float64 { return float64(p.cols) / p.bounds.W }
func (p Projection) scaleY() float64 { return float64(p.rows) / p.bounds.H }

// Cell returns the canvas cell containing the world point v.
func (p Projection) Cell(v core.Vec) (x, y int) {
	x = int(math.Floor((v.X - p.bounds.X) * p.scaleX()))
	y = int(math.Floor((v.Y - p.bounds.Y) * p.scaleY()))
	return x, y + p.top
}

// Center returns the world point at the centre of canvas cell (x, y).
func (p Projection) Center(x, y int) core.Vec {
	return core.V(
		p.bounds.X+(float64(x)+0.5)/p.scaleX(),
		p.bounds.Y+(float64(y-p.top)+0.5)/p.scaleY(),
	)
}

// Span returns the inclusive cell range covered by r. A rectangle smaller
// than a cell still covers the cell holding its top-left corner.
func (p Projection) Span(r core.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = p.Cell(core.V(r.Left(), r.Top()))
	x1 = int(math.Ceil((r.Right()-p.bounds.X)*p.scaleX())) - 1
	y1 = int(math.Ceil((r.Bottom()-p.bounds.Y)*p.scaleY())) - 1 + p.top
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return x0, y0, x1, y1
}

// Glyph is how an entity kind is drawn.
type Glyph struct {
	Rune  rune
	Color Color
}

// Glyphs are the default glyphs per kind.
var Glyphs = map[engine.Kind]Glyph{
	engine.KindBlock:       {'#', ColorOrange},
	engine.KindPaddle:      {'=', ColorBrightCyan},
	engine.KindAsteroid:    {'*', ColorGray},
	engine.KindShot:        {'.', ColorBrightYellow},
	engine.KindBall:        {'o', ColorBrightWhite},
	engine.KindShip:        {'^', ColorBrightGreen},
	engine.KindLanderCraft: {'A', ColorBrightWhite},
}

// blockColors cycles by block row, top to bottom.
var blockColors = []Color{ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorMagenta}

// layer orders drawing so that moving bodies stay visible over static ones.
func layer(k engine.Kind) int {
	switch k {
	case engine.KindBlock:
		return 0
	case engine.KindPaddle, engine.KindAsteroid:
		return 1
	case engine.KindShot:
		return 2
	case engine.KindBall:
		return 3
	default:
		return 4
	}
}

// Frame draws a complete frame: the HUD text on the first row and the
// world scaled onto the remaining rows.
func Frame(c *Canvas, w *engine.World, hud string) {
	c.Clear()
	if c.Height() == 0 {
		return
	}
	c.DrawText(0, 0, hud, ColorBrightWhite)
	DrawWorld(c, w, 1, c.Height()-1)
}

// DrawWorld projects w onto canvas rows [top, top+rows).
func DrawWorld(c *Canvas, w *engine.World, top, rows int) {
	if rows <= 0 || c.Width() == 0 {
		return
	}
	p := NewProjection(w.Bounds(), c.Width(), rows, top)

	if t := w.Terrain(); t != nil {
		drawTerrain(c, p, t)
	}

	entities := w.Entities()
	sort.SliceStable(entities, func(i, j int) bool {
		return layer(entities[i].Kind) < layer(entities[j].Kind)
	})
	for i := range entities {
		drawEntity(c, p, &entities[i])
	}
}

func drawEntity(c *Canvas, p Projection, e *engine.Entity) {
	g, ok := Glyphs[e.Kind]
	if !ok {
		g = Glyph{'?', ColorDefault}
	}

	switch e.Kind {
	case engine.KindBlock:
		_, y := p.Cell(e.Pos)
		g.Color = blockColors[((y%len(blockColors))+len(blockColors))%len(blockColors)]
	case engine.KindPaddle:
		if e.Face == engine.FaceLeft || e.Face == engine.FaceRight {
			g.Rune = '|'
		}
	case engine.KindShip:
		g.Rune = heading(e.Angle)
		if e.Invulnerable > 0 {
			g.Color = ColorGray
		}
	case engine.KindLanderCraft:
		if e.Landed() {
			g.Color = ColorBrightGreen
		}
	}

	if e.Shape.Kind == engine.ShapeCircle {
		fillCircle(c, p, e.Pos, e.Shape.Radius, g)
		return
	}
	x0, y0, x1, y1 := p.Span(e.Bounds())
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.Set(x, y, g.Rune, g.Color)
		}
	}
}

// fillCircle sets every cell whose centre lies inside the circle, and
// always the cell holding its centre.
func fillCircle(c *Canvas, p Projection, center core.Vec, radius float64, g Glyph) {
	x0, y0, x1, y1 := p.Span(core.RectAround(center, 2*radius, 2*radius))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if p.Center(x, y).Dist(center) < radius {
				c.Set(x, y, g.Rune, g.Color)
			}
		}
	}
	cx, cy := p.Cell(center)
	c.Set(cx, cy, g.Rune, g.Color)
}

// heading returns an arrow for an angle in degrees (0 is +x, clockwise).
func heading(deg float64) rune {
	arrows := []rune{'>', 'v', '<', '^'}
	i := int(math.Round(core.NormalizeAngle(deg)/90)) % len(arrows)
	return arrows[i]
}

// drawTerrain traces the surface column by column. The platform is drawn
// with '=' and slopes steeper than a quarter row per column with '/' or '\'.
func drawTerrain(c *Canvas, p Projection, t *engine.Terrain) {
	px1, px2, _ := t.Platform()
	half := 0.5 / p.scaleX()
	for x := 0; x < p.cols; x++ {
		mid := p.Center(x, p.top)
		left, right := mid.X-half, mid.X+half
		hl, hr := t.HeightAt(left), t.HeightAt(right)

		if mid.X >= px1 && mid.X <= px2 {
			_, y := p.Cell(core.V(mid.X, t.HeightAt(mid.X)))
			c.Set(x, y, '=', ColorBrightYellow)
			continue
		}

		r := '_'
		switch dy := (hr - hl) * p.scaleY(); {
		case dy <= -0.25:
			r = '/'
		case dy >= 0.25:
			r = '\\'
		}
		_, yl := p.Cell(core.V(left, hl))
		_, yr := p.Cell(core.V(right, hr))
		for y := min(yl, yr); y <= max(yl, yr); y++ {
			c.Set(x, y, r, ColorGreen)
		}
	}
}
