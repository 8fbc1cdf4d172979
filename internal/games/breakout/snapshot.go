package breakout

import "github.com/vovakirdan/arcade-motion/internal/engine"

// Snapshot contains the game-layer state plus the world snapshot.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick       uint64
	Score      int
	Lives      int
	Level      int
	State      string
	Resume     string
	ServeDelay int
	Target     float64
	Blocks     int
	World      engine.Snapshot
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:       uint64(g.tickCount), //#nosec G115 -- tick count is always positive
		Score:      g.score,
		Lives:      g.lives,
		Level:      g.level,
		State:      g.state,
		Resume:     g.resume,
		ServeDelay: g.serveDelay,
		Target:     g.target,
		Blocks:     len(g.points),
		World:      g.world.Snapshot(),
	}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Score)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Lives)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Level)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.ServeDelay) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Blocks)     //#nosec G115 -- hash computation
	for _, c := range snap.State + snap.Resume {
		h = h*31 + uint64(c) //#nosec G115 -- hash computation
	}
	return h*31 + snap.World.Hash()
}
