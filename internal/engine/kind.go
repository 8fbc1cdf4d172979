package engine

import (
	"fmt"

	"github.com/vovakirdan/arcade-motion/internal/config"
)

// Kind tags what an entity is. It selects the boundary policy, the
// integrator tuning and which collision pairs are checked.
type Kind int

const (
	KindShip Kind = iota + 1
	KindAsteroid
	KindShot
	KindPaddle
	KindBall
	KindBlock
	KindLanderCraft
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{KindShip, KindAsteroid, KindShot, KindPaddle, KindBall, KindBlock, KindLanderCraft}

// String returns the config name of the kind.
func (k Kind) String() string {
	switch k {
	case KindShip:
		return config.KindShip
	case KindAsteroid:
		return config.KindAsteroid
	case KindShot:
		return config.KindShot
	case KindPaddle:
		return config.KindPaddle
	case KindBall:
		return config.KindBall
	case KindBlock:
		return config.KindBlock
	case KindLanderCraft:
		return config.KindLander
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a config name to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) valid() bool {
	return k >= KindShip && k <= KindLanderCraft
}

// BoundaryPolicy is what happens when an entity reaches the arena edge.
type BoundaryPolicy int

const (
	PolicyUnset BoundaryPolicy = iota // Use the kind default
	PolicyWrap
	PolicyClamp
	PolicyRemoveOnExit
)

// String returns the config name of the policy.
func (p BoundaryPolicy) String() string {
	switch p {
	case PolicyWrap:
		return config.BoundaryWrap
	case PolicyClamp:
		return config.BoundaryClamp
	case PolicyRemoveOnExit:
		return config.BoundaryRemove
	default:
		return "unset"
	}
}

func parsePolicy(s string) (BoundaryPolicy, error) {
	switch s {
	case config.BoundaryWrap:
		return PolicyWrap, nil
	case config.BoundaryClamp:
		return PolicyClamp, nil
	case config.BoundaryRemove:
		return PolicyRemoveOnExit, nil
	}
	return PolicyUnset, fmt.Errorf("%w: boundary %q", ErrInvalidPolicy, s)
}

// Edge is a bitmask of arena edges.
type Edge uint8

const (
	EdgeLeft Edge = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom

	EdgeNone Edge = 0
	EdgeAll       = EdgeLeft | EdgeRight | EdgeTop | EdgeBottom
)

// Has reports whether every edge in o is set in e.
func (e Edge) Has(o Edge) bool {
	return o != 0 && e&o == o
}

// String lists the set edges, e.g. "left|bottom".
func (e Edge) String() string {
	if e == EdgeNone {
		return "none"
	}
	s := ""
	for _, n := range []struct {
		edge Edge
		name string
	}{
		{EdgeLeft, config.EdgeLeft},
		{EdgeRight, config.EdgeRight},
		{EdgeTop, config.EdgeTop},
		{EdgeBottom, config.EdgeBottom},
	} {
		if e&n.edge == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n.name
	}
	return s
}

func parseEdges(names []string) (Edge, error) {
	var e Edge
	for _, n := range names {
		switch n {
		case config.EdgeLeft:
			e |= EdgeLeft
		case config.EdgeRight:
			e |= EdgeRight
		case config.EdgeTop:
			e |= EdgeTop
		case config.EdgeBottom:
			e |= EdgeBottom
		default:
			return 0, fmt.Errorf("%w: edge %q", ErrInvalidPolicy, n)
		}
	}
	return e, nil
}

// Face is the direction a paddle's striking surface points to.
type Face int

const (
	FaceUp    Face = iota // Breakout paddle at the bottom
	FaceRight             // Pong paddle on the left wall
	FaceDown
	FaceLeft // Pong paddle on the right wall
)

// rotation returns the clockwise rotation of the face from FaceUp in degrees
// and the sign applied to the impact offset.
func (f Face) rotation() (deg, sign float64) {
	switch f {
	case FaceRight:
		return 90, 1
	case FaceDown:
		return 180, -1
	case FaceLeft:
		return 270, -1
	default:
		return 0, 1
	}
}

// Status is the terminal state of a craft.
type Status int

const (
	StatusActive Status = iota
	StatusLanded
)

// Axis is a bitmask of the directions a ball was pushed out of a block.
type Axis uint8

const (
	AxisXNeg Axis = 1 << iota // pushed toward -x (struck the block's left side)
	AxisXPos                  // pushed toward +x
	AxisYNeg                  // pushed toward -y (struck the block's top)
	AxisYPos                  // pushed toward +y

	AxisNone Axis = 0
)

// String returns a compact description such as "x-|y+".
func (a Axis) String() string {
	if a == AxisNone {
		return "none"
	}
	s := ""
	for _, n := range []struct {
		axis Axis
		name string
	}{
		{AxisXNeg, "x-"}, {AxisXPos, "x+"}, {AxisYNeg, "y-"}, {AxisYPos, "y+"},
	} {
		if a&n.axis == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n.name
	}
	return s
}
