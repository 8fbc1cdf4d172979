package engine

// Arena owns the entities of a world in insertion order. Spawns and
// despawns requested while a tick is running are deferred to the start of
// the next tick so resolution never sees a half-updated set.
type Arena struct {
	entities []*Entity
	index    map[ID]*Entity

	pendingSpawn  []*Entity
	pendingRemove []ID

	nextID ID
}

// NewArena creates an empty arena. The first ID handed out is 1.
func NewArena() *Arena {
	return &Arena{index: make(map[ID]*Entity)}
}

func (a *Arena) allocID() ID {
	a.nextID++
	return a.nextID
}

// queueSpawn schedules e for insertion and assigns its ID.
func (a *Arena) queueSpawn(e *Entity) ID {
	e.ID = a.allocID()
	a.pendingSpawn = append(a.pendingSpawn, e)
	return e.ID
}

// queueRemove schedules the removal of id. It reports false when no live or
// pending entity has that ID.
func (a *Arena) queueRemove(id ID) bool {
	if _, ok := a.index[id]; ok {
		a.pendingRemove = append(a.pendingRemove, id)
		return true
	}
	for _, e := range a.pendingSpawn {
		if e.ID == id {
			a.pendingRemove = append(a.pendingRemove, id)
			return true
		}
	}
	return false
}

// flush applies deferred spawns, then deferred removals.
func (a *Arena) flush() {
	for _, e := range a.pendingSpawn {
		a.entities = append(a.entities, e)
		a.index[e.ID] = e
	}
	a.pendingSpawn = a.pendingSpawn[:0]

	if len(a.pendingRemove) == 0 {
		return
	}
	for _, id := range a.pendingRemove {
		if e, ok := a.index[id]; ok {
			e.destroyed = true
		}
	}
	a.pendingRemove = a.pendingRemove[:0]
	a.sweep()
}

// sweep drops destroyed entities, keeping the order of the survivors.
func (a *Arena) sweep() {
	kept := a.entities[:0]
	for _, e := range a.entities {
		if e.destroyed {
			delete(a.index, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(a.entities); i++ {
		a.entities[i] = nil
	}
	a.entities = kept
}

// get returns the live entity with the given ID.
func (a *Arena) get(id ID) (*Entity, bool) {
	e, ok := a.index[id]
	return e, ok
}

// live returns the entities in insertion order. The slice must not be
// modified.
func (a *Arena) live() []*Entity {
	return a.entities
}

// ofKind returns the live, undestroyed entities of kind k in insertion order.
func (a *Arena) ofKind(k Kind) []*Entity {
	var out []*Entity
	for _, e := range a.entities {
		if e.Kind == k && !e.destroyed {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of live entities.
func (a *Arena) Len() int { return len(a.entities) }

// Pending returns the number of spawns waiting for the next tick.
func (a *Arena) Pending() int { return len(a.pendingSpawn) }

// clear removes every live and pending entity. IDs keep increasing.
func (a *Arena) clear() {
	a.entities = nil
	a.index = make(map[ID]*Entity)
	a.pendingSpawn = nil
	a.pendingRemove = nil
}
