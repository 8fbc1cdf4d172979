package breakout

import (
	"github.com/vovakirdan/arcade-motion/internal/core"
)

// Autopilot keeps the paddle under the ball. The aim point shifts to either
// side of the paddle centre on alternate bounces so the ball does not settle
// into a vertical loop.
func (g *Game) Autopilot() core.InputFrame {
	in := core.NewInputFrame()

	switch g.state {
	case StateGameOver:
		in.Set(core.ActionRestart)
		return in
	case StateServe:
		in.Set(core.ActionFire)
		return in
	case StatePaused:
		return in
	}

	ball, ok := g.world.Entity(g.ball)
	if !ok {
		return in
	}

	aim := 12.0
	if g.bounces%2 == 1 {
		aim = -aim
	}
	want := ball.Pos.X - aim

	switch {
	case g.target < want-g.cfg.PaddleStep/2:
		in.Set(core.ActionRight)
	case g.target > want+g.cfg.PaddleStep/2:
		in.Set(core.ActionLeft)
	}
	return in
}
