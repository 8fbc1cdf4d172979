// Package config provides YAML-based physics tuning and game configuration
// loading for the motion engine and the games built on it.
package config

import (
	"errors"
	"fmt"
)

// Entity kind names as they appear in YAML.
const (
	KindShip     = "ship"
	KindAsteroid = "asteroid"
	KindShot     = "shot"
	KindPaddle   = "paddle"
	KindBall     = "ball"
	KindBlock    = "block"
	KindLander   = "lander"
)

// KindNames lists every entity kind name in canonical order.
var KindNames = []string{KindShip, KindAsteroid, KindShot, KindPaddle, KindBall, KindBlock, KindLander}

// Boundary policy names as they appear in YAML.
const (
	BoundaryWrap   = "wrap"
	BoundaryClamp  = "clamp"
	BoundaryRemove = "remove"
)

// Edge names for remove-on-exit policies.
const (
	EdgeLeft   = "left"
	EdgeRight  = "right"
	EdgeTop    = "top"
	EdgeBottom = "bottom"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// PhysicsConfig contains the engine tuning for every entity kind.
type PhysicsConfig struct {
	Kinds   map[string]KindConfig `yaml:"kinds"`
	Paddle  PaddleConfig          `yaml:"paddle"`
	Landing LandingConfig         `yaml:"landing"`
}

// ShapeConfig describes a default collision shape. A positive radius selects
// a circle, otherwise width and height describe an axis-aligned box.
type ShapeConfig struct {
	Radius float64 `yaml:"radius"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// KindConfig defines defaults and integrator tuning for one entity kind.
type KindConfig struct {
	Shape        ShapeConfig `yaml:"shape"`
	Boundary     string      `yaml:"boundary"`     // wrap, clamp or remove
	ExitEdges    []string    `yaml:"exit_edges"`   // edges that remove the entity
	Oriented     bool        `yaml:"oriented"`     // whether the angle is meaningful
	TurnRate     float64     `yaml:"turn_rate"`    // degrees per tick
	ThrustAccel  float64     `yaml:"thrust_accel"` // units per tick^2 along the heading
	StrafeAccel  float64     `yaml:"strafe_accel"` // lateral thrust from turn commands
	Gravity      float64     `yaml:"gravity"`      // added to vy every tick
	Drag         float64     `yaml:"drag"`         // velocity multiplier in (0, 1]
	MaxSpeed     float64     `yaml:"max_speed"`    // 0 = unbounded
	PaddleSpeed  float64     `yaml:"paddle_speed"` // 0 = snap to target
	TTL          int         `yaml:"ttl"`          // lifetime in ticks, 0 = unlimited
	Invulnerable int         `yaml:"invulnerable"` // immunity ticks after spawn
}

// PaddleConfig defines the offset-dependent paddle reflection.
type PaddleConfig struct {
	BaseAngle float64 `yaml:"base_angle"` // travel angle for a centre hit on an up-facing paddle
	Spread    float64 `yaml:"spread"`     // maximum deflection in degrees
}

// LandingConfig defines the lander touchdown rule.
type LandingConfig struct {
	MaxVerticalSpeed float64 `yaml:"max_vertical_speed"` // faster touchdowns crash
}

// Kind returns the tuning for the named kind, normalised so that an unset
// drag means no damping.
func (c PhysicsConfig) Kind(name string) (KindConfig, bool) {
	k, ok := c.Kinds[name]
	if !ok {
		return KindConfig{}, false
	}
	if k.Drag == 0 {
		k.Drag = 1
	}
	return k, true
}

// Validate checks the tuning for values the engine cannot work with.
func (c PhysicsConfig) Validate() error {
	known := make(map[string]bool, len(KindNames))
	for _, n := range KindNames {
		known[n] = true
	}

	for name, k := range c.Kinds {
		if !known[name] {
			return fmt.Errorf("%w: unknown kind %q", ErrInvalidConfig, name)
		}
		if k.Drag < 0 || k.Drag > 1 {
			return fmt.Errorf("%w: %s drag %v outside (0, 1]", ErrInvalidConfig, name, k.Drag)
		}
		if k.TurnRate < 0 || k.ThrustAccel < 0 || k.StrafeAccel < 0 || k.MaxSpeed < 0 || k.PaddleSpeed < 0 {
			return fmt.Errorf("%w: %s has a negative rate", ErrInvalidConfig, name)
		}
		if k.TTL < 0 || k.Invulnerable < 0 {
			return fmt.Errorf("%w: %s has a negative tick count", ErrInvalidConfig, name)
		}
		switch k.Boundary {
		case BoundaryWrap, BoundaryClamp, BoundaryRemove:
		default:
			return fmt.Errorf("%w: %s boundary %q", ErrInvalidConfig, name, k.Boundary)
		}
		for _, e := range k.ExitEdges {
			switch e {
			case EdgeLeft, EdgeRight, EdgeTop, EdgeBottom:
			default:
				return fmt.Errorf("%w: %s exit edge %q", ErrInvalidConfig, name, e)
			}
		}
	}

	if c.Paddle.Spread < 0 || c.Paddle.Spread >= 90 {
		return fmt.Errorf("%w: paddle spread %v outside [0, 90)", ErrInvalidConfig, c.Paddle.Spread)
	}
	if c.Landing.MaxVerticalSpeed <= 0 {
		return fmt.Errorf("%w: landing max_vertical_speed must be positive", ErrInvalidConfig)
	}
	return nil
}

// ArenaConfig is the world rectangle size used by a game.
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// BreakoutConfig contains the game-layer settings for Breakout.
type BreakoutConfig struct {
	Arena       ArenaConfig `yaml:"arena"`
	BallSpeed   float64     `yaml:"ball_speed"`
	LaunchAngle float64     `yaml:"launch_angle"`
	PaddleInset float64     `yaml:"paddle_inset"` // distance from paddle centre to arena bottom
	PaddleStep  float64     `yaml:"paddle_step"`  // target movement per key press
	Lives       int         `yaml:"lives"`
	BlockPoints int         `yaml:"block_points"`
	Grid        GridConfig  `yaml:"grid"`
}

// GridConfig places the block layout.
type GridConfig struct {
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
	Cols    int     `yaml:"cols"`
	Rows    int     `yaml:"rows"`
	TopRow  int     `yaml:"top_row"`
}

// PongConfig contains the game-layer settings for Pong.
type PongConfig struct {
	Arena        ArenaConfig `yaml:"arena"`
	BallSpeed    float64     `yaml:"ball_speed"`
	PaddleWidth  float64     `yaml:"paddle_width"`
	PaddleHeight float64     `yaml:"paddle_height"`
	PaddleOffset float64     `yaml:"paddle_offset"` // gap between the arena edge and the paddle
	PaddleStep   float64     `yaml:"paddle_step"`
	WinScore     int         `yaml:"win_score"`
	CPUSkill     float64     `yaml:"cpu_skill"` // fraction of paddle_step the CPU moves per tick
	ServeDelay   int         `yaml:"serve_delay"`
}

// AsteroidsConfig contains the game-layer settings for Asteroids.
type AsteroidsConfig struct {
	Arena         ArenaConfig `yaml:"arena"`
	Lives         int         `yaml:"lives"`
	StartCount    int         `yaml:"start_count"`
	MinSpeed      float64     `yaml:"min_speed"`
	MaxSpeed      float64     `yaml:"max_speed"`
	ShotSpeed     float64     `yaml:"shot_speed"`
	FireCooldown  int         `yaml:"fire_cooldown"`
	SplitAngle    float64     `yaml:"split_angle"`
	Stages        int         `yaml:"stages"`
	StageRadius   []float64   `yaml:"stage_radius"` // index 0 = smallest stage
	PointsByStage []int       `yaml:"points_by_stage"`
}

// LanderConfig contains the game-layer settings for Lunar Lander.
type LanderConfig struct {
	Arena       ArenaConfig `yaml:"arena"`
	Lives       int         `yaml:"lives"`
	Fuel        int         `yaml:"fuel"`
	ThrustCost  int         `yaml:"thrust_cost"`
	StrafeCost  int         `yaml:"strafe_cost"`
	SegmentSize float64     `yaml:"segment_size"`
	StartY      float64     `yaml:"start_y"`
	PauseTicks  int         `yaml:"pause_ticks"` // ticks to hold the result before reset
}
