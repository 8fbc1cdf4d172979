package engine

import (
	"math"

	"github.com/vovakirdan/arcade-motion/internal/config"
	"github.com/vovakirdan/arcade-motion/internal/core"
)

// Command is the control input for one entity for one tick.
type Command struct {
	Thrust    bool
	TurnLeft  bool // Counter-clockwise turn, or strafe left for crafts that strafe
	TurnRight bool

	// Target is where a paddle should move along its travel axis
	// (x for up/down facing paddles, y for left/right facing ones).
	Target    float64
	HasTarget bool
}

// MoveTo returns a command that steers a paddle toward target.
func MoveTo(target float64) Command {
	return Command{Target: target, HasTarget: true}
}

// tuning is the integrator configuration of one kind, resolved once when
// the world is built.
type tuning struct {
	shape    Shape
	policy   BoundaryPolicy
	exit     Edge
	oriented bool

	turnRate    float64
	thrustAccel float64
	strafeAccel float64
	gravity     float64
	drag        float64
	maxSpeed    float64
	paddleSpeed float64

	ttl          int
	invulnerable int
}

func newTuning(k Kind, kc config.KindConfig) (tuning, error) {
	t := tuning{
		oriented:     kc.Oriented,
		turnRate:     kc.TurnRate,
		thrustAccel:  kc.ThrustAccel,
		strafeAccel:  kc.StrafeAccel,
		gravity:      kc.Gravity,
		drag:         kc.Drag,
		maxSpeed:     kc.MaxSpeed,
		paddleSpeed:  kc.PaddleSpeed,
		ttl:          kc.TTL,
		invulnerable: kc.Invulnerable,
	}
	if t.drag == 0 {
		t.drag = 1
	}

	if kc.Shape.Radius > 0 {
		t.shape = Circle(kc.Shape.Radius)
	} else {
		t.shape = Box(kc.Shape.Width, kc.Shape.Height)
	}
	if err := t.shape.validate(); err != nil {
		return tuning{}, &ConfigError{Kind: k, Detail: "default shape", Err: err}
	}

	policy, err := parsePolicy(kc.Boundary)
	if err != nil {
		return tuning{}, &ConfigError{Kind: k, Err: err}
	}
	t.policy = policy

	exit, err := parseEdges(kc.ExitEdges)
	if err != nil {
		return tuning{}, &ConfigError{Kind: k, Err: err}
	}
	t.exit = exit

	return t, nil
}

// integrate advances e by one tick of motion under cmd.
func integrate(e *Entity, cmd Command, t tuning) error {
	if e.Kind == KindPaddle {
		movePaddle(e, cmd, t)
	} else {
		if e.Oriented && t.turnRate > 0 {
			if cmd.TurnLeft {
				e.Angle -= t.turnRate
			}
			if cmd.TurnRight {
				e.Angle += t.turnRate
			}
			e.Angle = core.NormalizeAngle(e.Angle)
		}
		before := e.Vel.Len()
		powered := false
		if cmd.Thrust && e.Oriented && t.thrustAccel > 0 {
			e.Vel = e.Vel.Add(core.FromAngle(e.Angle, t.thrustAccel))
			powered = true
		}
		if t.strafeAccel > 0 && (cmd.TurnLeft || cmd.TurnRight) {
			if cmd.TurnLeft {
				e.Vel.X -= t.strafeAccel
			}
			if cmd.TurnRight {
				e.Vel.X += t.strafeAccel
			}
			powered = true
		}
		e.Vel.Y += t.gravity
		if t.drag < 1 {
			e.Vel = e.Vel.Scale(t.drag)
		}
		// Engines cannot push past max_speed. Unpowered bodies keep their speed.
		if powered && t.maxSpeed > 0 {
			limit := max(t.maxSpeed, before)
			if s := e.Vel.Len(); s > limit {
				e.Vel = e.Vel.Scale(limit / s)
			}
		}
		e.Pos = e.Pos.Add(e.Vel)
	}

	if !e.Pos.IsFinite() || !e.Vel.IsFinite() || math.IsNaN(e.Angle) || math.IsInf(e.Angle, 0) {
		return &IntegrationError{ID: e.ID, Kind: e.Kind, Pos: e.Pos, Vel: e.Vel}
	}
	return nil
}

// movePaddle moves a paddle toward its target along its travel axis. The
// velocity records this tick's displacement and is zero without a target.
func movePaddle(e *Entity, cmd Command, t tuning) {
	e.Vel = core.Vec{}
	if !cmd.HasTarget {
		return
	}

	horizontal := e.Face == FaceUp || e.Face == FaceDown
	cur := e.Pos.Y
	if horizontal {
		cur = e.Pos.X
	}
	delta := cmd.Target - cur
	if t.paddleSpeed > 0 && math.Abs(delta) > t.paddleSpeed {
		delta = core.Sign(delta) * t.paddleSpeed
	}

	if horizontal {
		e.Vel.X = delta
	} else {
		e.Vel.Y = delta
	}
	e.Pos = e.Pos.Add(e.Vel)
}
