package asteroids

import (
	"math"

	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/engine"
)

// aimTolerance is how far off the heading may be, in degrees, before the
// autopilot stops firing and turns instead.
const aimTolerance = 8.0

// Autopilot turns the ship toward the nearest asteroid and fires once the
// heading is close enough. It never thrusts.
func (g *Game) Autopilot() core.InputFrame {
	in := core.NewInputFrame()

	switch g.state {
	case StateGameOver:
		in.Set(core.ActionRestart)
		return in
	case StatePlaying:
	default:
		return in
	}

	ship, ok := g.world.Entity(g.ship)
	if !ok {
		return in
	}

	var target engine.Entity
	best := math.Inf(1)
	for _, e := range g.world.Entities() {
		if e.Kind != engine.KindAsteroid {
			continue
		}
		if d := e.Pos.Dist(ship.Pos); d < best {
			best = d
			target = e
		}
	}
	if math.IsInf(best, 1) {
		return in
	}

	to := target.Pos.Sub(ship.Pos)
	want := math.Atan2(to.Y, to.X) * 180 / math.Pi
	diff := core.NormalizeAngle(want - ship.Angle)

	switch {
	case diff <= aimTolerance || diff >= 360-aimTolerance:
		in.Set(core.ActionFire)
	case diff < 180:
		in.Set(core.ActionRight)
	default:
		in.Set(core.ActionLeft)
	}
	return in
}
