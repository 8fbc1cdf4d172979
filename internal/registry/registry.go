// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/engine"
)

// Game is the interface every game built on the motion engine implements.
// Games own score, lives and levels; the engine owns motion and contacts.
// They contain no I/O: the platform handles input mapping, timing and rendering.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "breakout", "lander").
	// Used for CLI commands and run history.
	ID() string

	// Title returns a human-readable name for display (e.g., "Lunar Lander").
	Title() string

	// Reset builds a fresh world and game state.
	// Called once at start and again when restarting after game over.
	Reset(cfg core.RuntimeConfig) error

	// Step advances the simulation by one fixed tick.
	// The returned events are those the engine emitted this tick.
	Step(in core.InputFrame) (core.StepResult, error)

	// State returns the current game state (score, lives, game over, paused).
	State() core.GameState

	// World exposes the simulation for rendering. Callers must not advance it.
	World() *engine.World

	// HUD returns a one-line status for the game, e.g. remaining fuel.
	HUD() string
}

// Pilot is implemented by games that can play themselves. The runner and
// the SSH spectator feed use it when no human is at the controls.
type Pilot interface {
	Autopilot() core.InputFrame
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
