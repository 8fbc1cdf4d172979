package engine

import (
	"github.com/vovakirdan/arcade-motion/internal/core"
)

// resolve applies the outcome of every contact group in order. Entities
// destroyed by an earlier group are skipped by later ones.
func (w *World) resolve(groups []contactGroup) {
	for _, g := range groups {
		if g.Primary.destroyed {
			continue
		}
		switch g.Rule {
		case pairRule{KindBall, KindPaddle}:
			w.resolveBallPaddle(g.Primary, g.Others)
		case pairRule{KindBall, KindBlock}:
			w.resolveBallBlocks(g.Primary, g.Others)
		case pairRule{KindShip, KindAsteroid}:
			w.resolveShipAsteroid(g.Primary, g.Others)
		case pairRule{KindShip, KindShot}:
			w.resolveShipShot(g.Primary, g.Others)
		case pairRule{KindShot, KindAsteroid}:
			w.resolveShotAsteroid(g.Primary, g.Others)
		}
	}
}

// resolveBallPaddle redirects the ball off the first paddle it approaches.
// The outgoing heading depends on where the ball struck, measured from the
// paddle centre along the face; the speed is unchanged.
func (w *World) resolveBallPaddle(ball *Entity, paddles []*Entity) {
	for _, p := range paddles {
		if p.destroyed {
			continue
		}
		rot, sign := p.Face.rotation()
		normal := core.FromAngle(core.NormalizeAngle(270+rot), 1)
		if ball.Vel.Dot(normal) >= 0 {
			continue
		}

		hw, hh := p.Shape.HalfExtents()
		var offset float64
		if p.Face == FaceUp || p.Face == FaceDown {
			offset = (ball.Pos.X - p.Pos.X) / hw
		} else {
			offset = (ball.Pos.Y - p.Pos.Y) / hh
		}
		offset = core.ClampF(offset, -1, 1)

		angle := core.NormalizeAngle(w.physics.Paddle.BaseAngle + rot + sign*w.physics.Paddle.Spread*offset)
		ball.Vel = core.FromAngle(angle, ball.Vel.Len())

		bhw, bhh := ball.Shape.HalfExtents()
		switch p.Face {
		case FaceUp:
			ball.Pos.Y = p.Pos.Y - hh - bhh
		case FaceDown:
			ball.Pos.Y = p.Pos.Y + hh + bhh
		case FaceRight:
			ball.Pos.X = p.Pos.X + hw + bhw
		case FaceLeft:
			ball.Pos.X = p.Pos.X - hw - bhw
		}

		w.emit(PaddleBounce{Tick: w.now(), Ball: ball.ID, Paddle: p.ID, Angle: angle})
		return
	}
}

// resolveBallBlocks destroys every block the ball overlaps and bounces the
// ball once for all of them.
//
// Each block is compared against the ball's bounds as they were before any
// block of this tick was resolved. A block whose near edge lies strictly
// inside the ball on an axis pushes the ball out on that axis and votes for
// the direction it pushed. Votes from all blocks are summed per axis; a
// non-zero sum sets the velocity component to that sign with its magnitude
// kept. Opposite votes cancel, so two blocks struck side by side only flip
// the vertical component.
func (w *World) resolveBallBlocks(ball *Entity, blocks []*Entity) {
	orig := ball.Bounds()
	cur := orig
	var tallyX, tallyY int

	for _, b := range blocks {
		if b.destroyed {
			continue
		}
		br := b.Bounds()
		var axis Axis

		if orig.Left() < br.Left() && br.Left() < orig.Right() && orig.Right() < br.Right() {
			cur.X = br.Left() - cur.W
			tallyX--
			axis |= AxisXNeg
		}
		if br.Left() < orig.Left() && orig.Left() < br.Right() && br.Right() < orig.Right() {
			cur.X = br.Right()
			tallyX++
			axis |= AxisXPos
		}
		if orig.Top() < br.Top() && br.Top() < orig.Bottom() && orig.Bottom() < br.Bottom() {
			cur.Y = br.Top() - cur.H
			tallyY--
			axis |= AxisYNeg
		}
		if br.Top() < orig.Top() && orig.Top() < br.Bottom() && br.Bottom() < orig.Bottom() {
			cur.Y = br.Bottom()
			tallyY++
			axis |= AxisYPos
		}

		b.destroyed = true
		w.emit(BlockHit{Tick: w.now(), Ball: ball.ID, Block: b.ID, Axis: axis})
		w.emit(EntityDestroyed{Tick: w.now(), ID: b.ID, Kind: b.Kind, By: ball.ID, Pos: b.Pos})
	}

	ball.Pos = cur.Center()
	if tallyX != 0 {
		ball.Vel.X = float64(sign(tallyX)) * abs(ball.Vel.X)
	}
	if tallyY != 0 {
		ball.Vel.Y = float64(sign(tallyY)) * abs(ball.Vel.Y)
	}
}

// resolveShipAsteroid destroys the ship. Asteroids survive ramming.
func (w *World) resolveShipAsteroid(ship *Entity, asteroids []*Entity) {
	if ship.Invulnerable > 0 {
		return
	}
	for _, a := range asteroids {
		if a.destroyed {
			continue
		}
		w.crash(ship, a.ID, 0)
		return
	}
}

// resolveShipShot destroys the ship and the first live shot not fired by it.
func (w *World) resolveShipShot(ship *Entity, shots []*Entity) {
	if ship.Invulnerable > 0 {
		return
	}
	for _, s := range shots {
		if s.destroyed || s.Owner == ship.ID {
			continue
		}
		w.crash(ship, s.ID, 0)
		w.destroy(s, ship.ID, EdgeNone)
		return
	}
}

// resolveShotAsteroid destroys the shot together with the first live
// asteroid it hit.
func (w *World) resolveShotAsteroid(shot *Entity, asteroids []*Entity) {
	for _, a := range asteroids {
		if a.destroyed {
			continue
		}
		w.destroy(shot, a.ID, EdgeNone)
		w.destroy(a, shot.ID, EdgeNone)
		return
	}
}

// resolveTerrain checks every active craft against the ground. Touching
// down on the platform is checked before crashing into the ridge.
func (w *World) resolveTerrain() {
	if w.terrain == nil {
		return
	}
	for _, e := range w.arena.live() {
		if e.destroyed || e.Landed() || (e.Kind != KindLanderCraft && e.Kind != KindShip) {
			continue
		}
		b := e.Bounds()
		if w.terrain.touchdown(b) {
			vy := e.Vel.Y
			if abs(vy) > w.physics.Landing.MaxVerticalSpeed {
				w.crash(e, 0, vy)
				continue
			}
			_, _, y := w.terrain.Platform()
			e.Pos.Y = y - b.H/2
			e.Vel = core.Vec{}
			e.Status = StatusLanded
			w.emit(ShipLanded{Tick: w.now(), Ship: e.ID, Speed: vy})
			continue
		}
		if w.terrain.crashes(b) {
			w.crash(e, 0, e.Vel.Y)
		}
	}
}

func (w *World) crash(ship *Entity, by ID, vy float64) {
	ship.destroyed = true
	w.emit(ShipCrashed{Tick: w.now(), Ship: ship.ID, By: by, Speed: vy})
}

func (w *World) destroy(e *Entity, by ID, exit Edge) {
	e.destroyed = true
	w.emit(EntityDestroyed{Tick: w.now(), ID: e.ID, Kind: e.Kind, By: by, Exit: exit, Pos: e.Pos, Vel: e.Vel})
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
