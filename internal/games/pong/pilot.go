package pong

import "github.com/vovakirdan/arcade-motion/internal/core"

// Autopilot plays the left paddle: it tracks the ball while the ball comes
// toward the player and drifts back to the centre otherwise.
func (g *Game) Autopilot() core.InputFrame {
	in := core.NewInputFrame()

	switch g.state {
	case StateGameOver:
		in.Set(core.ActionRestart)
		return in
	case StatePaused:
		return in
	}

	want := g.cfg.Arena.Height / 2
	if ball, ok := g.world.Entity(g.ball); ok && ball.Vel.X < 0 {
		want = ball.Pos.Y
	}

	switch {
	case g.leftTarget < want-g.cfg.PaddleStep/2:
		in.Set(core.ActionDown)
	case g.leftTarget > want+g.cfg.PaddleStep/2:
		in.Set(core.ActionUp)
	}
	return in
}
