package pong

import "github.com/vovakirdan/arcade-motion/internal/engine"

// Snapshot contains the complete state of a Pong match.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick        uint64
	Score1      int
	Score2      int
	Winner      int // 0=none, 1=Player, 2=CPU
	State       string
	ServeDelay  int
	LeftTarget  float64
	RightTarget float64
	Rallies     int
	World       engine.Snapshot
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:        uint64(max(0, g.tickCount)), //nolint:gosec // tickCount is always non-negative in game logic
		Score1:      g.score1,
		Score2:      g.score2,
		Winner:      g.winner,
		State:       g.state,
		ServeDelay:  g.serveDelay,
		LeftTarget:  g.leftTarget,
		RightTarget: g.rightTarget,
		Rallies:     g.rallies,
		World:       g.world.Snapshot(),
	}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Score1)  //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score2)  //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Winner)  //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Rallies) //#nosec G115 -- hash computation
	for _, c := range snap.State {
		h = h*31 + uint64(c) //#nosec G115 -- hash computation
	}
	return h*31 + snap.World.Hash()
}
