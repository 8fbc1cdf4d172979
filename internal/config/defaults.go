package config

import (
	_ "embed"
)

//go:embed defaults/physics.yaml
var defaultPhysicsYAML []byte

//go:embed defaults/breakout.yaml
var defaultBreakoutYAML []byte

//go:embed defaults/pong.yaml
var defaultPongYAML []byte

//go:embed defaults/asteroids.yaml
var defaultAsteroidsYAML []byte

//go:embed defaults/lander.yaml
var defaultLanderYAML []byte

// DefaultPhysicsConfig returns the default engine tuning.
func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		Kinds: map[string]KindConfig{
			KindShip: {
				Shape:        ShapeConfig{Radius: 12},
				Boundary:     BoundaryWrap,
				Oriented:     true,
				TurnRate:     5,
				ThrustAccel:  0.1,
				Drag:         1.0,
				MaxSpeed:     8,
				Invulnerable: 180, // 3 seconds at 60fps
			},
			KindAsteroid: {
				Shape:    ShapeConfig{Radius: 32},
				Boundary: BoundaryWrap,
			},
			KindShot: {
				Shape:    ShapeConfig{Radius: 2},
				Boundary: BoundaryWrap,
				TTL:      60,
			},
			KindPaddle: {
				Shape:    ShapeConfig{Width: 70, Height: 20},
				Boundary: BoundaryClamp,
			},
			KindBall: {
				Shape:     ShapeConfig{Radius: 6},
				Boundary:  BoundaryRemove,
				ExitEdges: []string{EdgeBottom},
			},
			KindBlock: {
				Shape:    ShapeConfig{Width: 32, Height: 16},
				Boundary: BoundaryClamp,
			},
			KindLander: {
				Shape:       ShapeConfig{Width: 20, Height: 18},
				Boundary:    BoundaryWrap,
				Oriented:    true,
				ThrustAccel: 0.4,
				StrafeAccel: 0.1,
				Gravity:     0.1,
			},
		},
		Paddle: PaddleConfig{
			BaseAngle: 270, // straight up
			Spread:    50,
		},
		Landing: LandingConfig{
			MaxVerticalSpeed: 5,
		},
	}
}

// DefaultBreakoutConfig returns the default Breakout configuration.
func DefaultBreakoutConfig() BreakoutConfig {
	return BreakoutConfig{
		Arena:       ArenaConfig{Width: 576, Height: 576},
		BallSpeed:   6,
		LaunchAngle: 300,
		PaddleInset: 70,
		PaddleStep:  12,
		Lives:       3,
		BlockPoints: 10,
		Grid: GridConfig{
			Cols:   18,
			Rows:   6,
			TopRow: 3,
		},
	}
}

// DefaultPongConfig returns the default Pong configuration.
func DefaultPongConfig() PongConfig {
	return PongConfig{
		Arena:        ArenaConfig{Width: 800, Height: 600},
		BallSpeed:    6,
		PaddleWidth:  20,
		PaddleHeight: 80,
		PaddleOffset: 30,
		PaddleStep:   10,
		WinScore:     5,
		CPUSkill:     0.6,
		ServeDelay:   60,
	}
}

// DefaultAsteroidsConfig returns the default Asteroids configuration.
func DefaultAsteroidsConfig() AsteroidsConfig {
	return AsteroidsConfig{
		Arena:         ArenaConfig{Width: 800, Height: 600},
		Lives:         3,
		StartCount:    4,
		MinSpeed:      2,
		MaxSpeed:      4,
		ShotSpeed:     10,
		FireCooldown:  8,
		SplitAngle:    65,
		Stages:        3,
		StageRadius:   []float64{12, 20, 32},
		PointsByStage: []int{100, 50, 20},
	}
}

// DefaultLanderConfig returns the default Lunar Lander configuration.
func DefaultLanderConfig() LanderConfig {
	return LanderConfig{
		Arena:       ArenaConfig{Width: 600, Height: 600},
		Lives:       3,
		Fuel:        250,
		ThrustCost:  2,
		StrafeCost:  1,
		SegmentSize: 40,
		StartY:      40,
		PauseTicks:  60,
	}
}

// GetDefaultYAML returns the embedded default YAML for a config name.
func GetDefaultYAML(name string) []byte {
	switch name {
	case "physics":
		return defaultPhysicsYAML
	case "breakout":
		return defaultBreakoutYAML
	case "pong":
		return defaultPongYAML
	case "asteroids":
		return defaultAsteroidsYAML
	case "lander":
		return defaultLanderYAML
	default:
		return nil
	}
}
