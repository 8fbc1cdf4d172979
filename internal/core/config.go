package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to locate tuning files and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW     int    // Viewport width in characters (rendering only)
	ScreenH     int    // Viewport height in characters (rendering only)
	TickRate    int    // Simulation ticks per second (default 60)
	Seed        int64  // RNG seed for deterministic level generation
	PhysicsPath string // Optional physics YAML override
	ConfigPath  string // Optional game YAML override
	Preset      string // Optional physics preset name (classic, damped, heavy)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     1,
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Current score
	Lives    int  // Remaining lives (or ships)
	Level    int  // Current level, starting at 1
	GameOver bool // Whether the game has ended
	Paused   bool // Whether the game is paused
}

// EventRecord is a flattened collision event, independent of the engine's
// concrete event types, used for logging and persistence.
type EventRecord struct {
	Tick    uint64
	Kind    string
	Subject uint64 // Primary entity
	Other   uint64 // Secondary entity, 0 when absent
	Detail  string
}

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and the collision events of that tick.
type StepResult struct {
	State  GameState
	Events []EventRecord
}
