package engine

import (
	"fmt"

	"github.com/vovakirdan/arcade-motion/internal/core"
)

// EventType identifies the concrete type of an Event.
type EventType int

const (
	EventPaddleBounce EventType = iota + 1
	EventBlockHit
	EventWallBounce
	EventEntityDestroyed
	EventEntityExpired
	EventShipCrashed
	EventShipLanded
)

var eventNames = map[EventType]string{
	EventPaddleBounce:    "paddle_bounce",
	EventBlockHit:        "block_hit",
	EventWallBounce:      "wall_bounce",
	EventEntityDestroyed: "entity_destroyed",
	EventEntityExpired:   "entity_expired",
	EventShipCrashed:     "ship_crashed",
	EventShipLanded:      "ship_landed",
}

func (t EventType) String() string {
	if n, ok := eventNames[t]; ok {
		return n
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// Event is something that happened during a tick. Games read events to
// award points and track lives; the engine never does.
type Event interface {
	Type() EventType
	At() uint64
	Subject() ID
	Record() core.EventRecord
}

// PaddleBounce is emitted when a ball is redirected by a paddle.
type PaddleBounce struct {
	Tick   uint64
	Ball   ID
	Paddle ID
	Angle  float64 // Outgoing heading in degrees
}

func (e PaddleBounce) Type() EventType { return EventPaddleBounce }
func (e PaddleBounce) At() uint64      { return e.Tick }
func (e PaddleBounce) Subject() ID     { return e.Ball }
func (e PaddleBounce) Record() core.EventRecord {
	return core.EventRecord{Tick: e.Tick, Kind: e.Type().String(), Subject: uint64(e.Ball),
		Other: uint64(e.Paddle), Detail: fmt.Sprintf("angle=%.1f", e.Angle)}
}

// BlockHit is emitted for every block a ball strikes.
type BlockHit struct {
	Tick  uint64
	Ball  ID
	Block ID
	Axis  Axis // Directions the ball was pushed out of this block
}

func (e BlockHit) Type() EventType { return EventBlockHit }
func (e BlockHit) At() uint64      { return e.Tick }
func (e BlockHit) Subject() ID     { return e.Ball }
func (e BlockHit) Record() core.EventRecord {
	return core.EventRecord{Tick: e.Tick, Kind: e.Type().String(), Subject: uint64(e.Ball),
		Other: uint64(e.Block), Detail: "axis=" + e.Axis.String()}
}

// WallBounce is emitted when a ball reflects off an arena edge.
type WallBounce struct {
	Tick uint64
	Ball ID
	Edge Edge
}

func (e WallBounce) Type() EventType { return EventWallBounce }
func (e WallBounce) At() uint64      { return e.Tick }
func (e WallBounce) Subject() ID     { return e.Ball }
func (e WallBounce) Record() core.EventRecord {
	return core.EventRecord{Tick: e.Tick, Kind: e.Type().String(), Subject: uint64(e.Ball),
		Detail: "edge=" + e.Edge.String()}
}

// EntityDestroyed is emitted when a contact or an arena exit removes an entity.
type EntityDestroyed struct {
	Tick uint64
	ID   ID
	Kind Kind
	By   ID   // Other party of the contact, zero for arena exits
	Exit Edge // Edge crossed, EdgeNone for contacts
	Pos  core.Vec
	Vel  core.Vec
}

func (e EntityDestroyed) Type() EventType { return EventEntityDestroyed }
func (e EntityDestroyed) At() uint64      { return e.Tick }
func (e EntityDestroyed) Subject() ID     { return e.ID }
func (e EntityDestroyed) Record() core.EventRecord {
	detail := "kind=" + e.Kind.String()
	if e.Exit != EdgeNone {
		detail += " exit=" + e.Exit.String()
	}
	return core.EventRecord{Tick: e.Tick, Kind: e.Type().String(), Subject: uint64(e.ID),
		Other: uint64(e.By), Detail: detail}
}

// EntityExpired is emitted when an entity's TTL runs out.
type EntityExpired struct {
	Tick uint64
	ID   ID
	Kind Kind
}

func (e EntityExpired) Type() EventType { return EventEntityExpired }
func (e EntityExpired) At() uint64      { return e.Tick }
func (e EntityExpired) Subject() ID     { return e.ID }
func (e EntityExpired) Record() core.EventRecord {
	return core.EventRecord{Tick: e.Tick, Kind: e.Type().String(), Subject: uint64(e.ID),
		Detail: "kind=" + e.Kind.String()}
}

// ShipCrashed is emitted when a ship or lander is destroyed.
type ShipCrashed struct {
	Tick  uint64
	Ship  ID
	By    ID      // Colliding entity, zero for terrain
	Speed float64 // Vertical speed at impact for terrain crashes
}

func (e ShipCrashed) Type() EventType { return EventShipCrashed }
func (e ShipCrashed) At() uint64      { return e.Tick }
func (e ShipCrashed) Subject() ID     { return e.Ship }
func (e ShipCrashed) Record() core.EventRecord {
	detail := "terrain"
	if e.By != 0 {
		detail = "contact"
	}
	return core.EventRecord{Tick: e.Tick, Kind: e.Type().String(), Subject: uint64(e.Ship),
		Other: uint64(e.By), Detail: fmt.Sprintf("%s vy=%.2f", detail, e.Speed)}
}

// ShipLanded is emitted when a craft touches down on the landing platform.
type ShipLanded struct {
	Tick  uint64
	Ship  ID
	Speed float64 // Vertical speed at touchdown
}

func (e ShipLanded) Type() EventType { return EventShipLanded }
func (e ShipLanded) At() uint64      { return e.Tick }
func (e ShipLanded) Subject() ID     { return e.Ship }
func (e ShipLanded) Record() core.EventRecord {
	return core.EventRecord{Tick: e.Tick, Kind: e.Type().String(), Subject: uint64(e.Ship),
		Detail: fmt.Sprintf("vy=%.2f", e.Speed)}
}

// EventQueue collects events in emission order.
type EventQueue struct {
	events []Event
}

// Push appends an event.
func (q *EventQueue) Push(e Event) {
	q.events = append(q.events, e)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int { return len(q.events) }

// Drain returns the queued events and empties the queue.
func (q *EventQueue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}

// Reset discards every queued event.
func (q *EventQueue) Reset() { q.events = q.events[:0] }

// Records converts events to their storable form.
func Records(events []Event) []core.EventRecord {
	out := make([]core.EventRecord, 0, len(events))
	for _, e := range events {
		out = append(out, e.Record())
	}
	return out
}
