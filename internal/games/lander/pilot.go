package lander

import (
	"math"

	"github.com/vovakirdan/arcade-motion/internal/core"
)

const (
	descentSpeed = 2.0 // Target vertical speed over the platform
	cruiseSpeed  = 2.0 // Horizontal speed limit while travelling
	alignSlack   = 4.0 // Horizontal error allowed before descending
)

// Autopilot hovers until the craft is over the platform centre, then
// descends at a gentle rate. The main engine takes priority over the side
// jets whenever the craft falls faster than it should.
func (g *Game) Autopilot() core.InputFrame {
	in := core.NewInputFrame()

	switch g.state {
	case StateGameOver:
		in.Set(core.ActionRestart)
		return in
	case StateFlying:
	default:
		return in
	}

	craft, ok := g.world.Entity(g.craft)
	if !ok {
		return in
	}

	x1, x2, _ := g.world.Terrain().Platform()
	dx := (x1+x2)/2 - craft.Pos.X

	wantVY := 0.0
	if math.Abs(dx) < alignSlack && math.Abs(craft.Vel.X) < 0.3 {
		wantVY = descentSpeed
	}
	if craft.Vel.Y > wantVY {
		in.Set(core.ActionUp)
		return in
	}

	wantVX := core.ClampF(dx/30, -cruiseSpeed, cruiseSpeed)
	switch {
	case craft.Vel.X < wantVX-0.05:
		in.Set(core.ActionRight)
	case craft.Vel.X > wantVX+0.05:
		in.Set(core.ActionLeft)
	}
	return in
}
