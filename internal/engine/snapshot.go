package engine

import "math"

// Snapshot contains the complete world state.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick   uint64
	NextID uint64

	// Each entity is 10 values: ID, Kind, X, Y, VX, VY, Angle, TTL,
	// Invulnerable, Status. Floats are stored as their IEEE-754 bits.
	EntityCount int
	EntityData  []uint64

	// Terrain points as X, Y bit pairs, followed by the platform indices.
	TerrainData []uint64
}

// Snapshot returns the current world state.
func (w *World) Snapshot() Snapshot {
	live := w.arena.live()
	data := make([]uint64, 0, len(live)*10)
	for _, e := range live {
		data = append(data,
			uint64(e.ID),
			uint64(e.Kind), //#nosec G115 -- kinds are small positive constants
			math.Float64bits(e.Pos.X),
			math.Float64bits(e.Pos.Y),
			math.Float64bits(e.Vel.X),
			math.Float64bits(e.Vel.Y),
			math.Float64bits(e.Angle),
			uint64(e.TTL),          //#nosec G115 -- never negative
			uint64(e.Invulnerable), //#nosec G115 -- never negative
			uint64(e.Status),       //#nosec G115 -- small constant
		)
	}

	var terrain []uint64
	if w.terrain != nil {
		for _, p := range w.terrain.points {
			terrain = append(terrain, math.Float64bits(p.X), math.Float64bits(p.Y))
		}
		terrain = append(terrain, uint64(w.terrain.platformStart), uint64(w.terrain.platformEnd)) //#nosec G115 -- indices
	}

	return Snapshot{
		Tick:        w.tick,
		NextID:      uint64(w.arena.nextID),
		EntityCount: len(live),
		EntityData:  data,
		TerrainData: terrain,
	}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + snap.NextID
	h = h*31 + uint64(snap.EntityCount) //#nosec G115 -- hash computation

	for _, v := range snap.EntityData {
		h = h*31 + v
	}

	for _, v := range snap.TerrainData {
		h = h*31 + v
	}

	return h
}
