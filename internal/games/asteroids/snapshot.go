package asteroids

import "github.com/vovakirdan/arcade-motion/internal/engine"

// Snapshot contains the game-layer state plus the world snapshot.
type Snapshot struct {
	Tick         uint64
	Score        int
	Lives        int
	Level        int
	State        string
	Cooldown     int
	RespawnDelay int
	Fired        int
	World        engine.Snapshot
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:         uint64(max(0, g.tickCount)), //nolint:gosec // tickCount is always non-negative in game logic
		Score:        g.score,
		Lives:        g.lives,
		Level:        g.level,
		State:        g.state,
		Cooldown:     g.cooldown,
		RespawnDelay: g.respawnDelay,
		Fired:        g.fired,
		World:        g.world.Snapshot(),
	}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Score) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Lives) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Level) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Fired) //#nosec G115 -- hash computation
	for _, c := range snap.State {
		h = h*31 + uint64(c) //#nosec G115 -- hash computation
	}
	return h*31 + snap.World.Hash()
}
