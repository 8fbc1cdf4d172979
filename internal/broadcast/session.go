// Package broadcast runs one authoritative simulation and fans its frames
// out to any number of spectator sessions.
package broadcast

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/render"
)

// SessionID uniquely identifies a spectator (e.g., an SSH connection).
type SessionID string

// NewSessionID returns a short random session identifier.
func NewSessionID() SessionID {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return SessionID(fmt.Sprintf("%08X", time.Now().UnixNano()&0xFFFFFFFF))
	}
	return SessionID(strings.ToLower(base32.StdEncoding.EncodeToString(b)))
}

// Frame is one tick of the shared simulation, already drawn.
// Frames are immutable once published; the canvas must not be modified.
type Frame struct {
	Tick       uint64 // Hub tick, monotonic across games
	GameID     string
	Title      string
	HUD        string
	State      core.GameState
	Spectators int
	Canvas     *render.Canvas
}

// SessionHandle is the transport-neutral interface for delivering frames.
// It keeps the hub independent of Wish and Bubble Tea.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Send delivers a frame. Must be non-blocking.
	Send(f Frame)

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle backed by a buffered channel.
// Slow readers lose the oldest frames, never the newest.
type ChannelSession struct {
	id       SessionID
	frames   chan Frame
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a channel session holding up to buffer frames.
func NewChannelSession(id SessionID, buffer int) *ChannelSession {
	if buffer < 1 {
		buffer = 4
	}
	return &ChannelSession{
		id:     id,
		frames: make(chan Frame, buffer),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues a frame. If the buffer is full the oldest frame is dropped.
func (s *ChannelSession) Send(f Frame) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.frames <- f:
	default:
		select {
		case <-s.frames:
		default:
		}
		select {
		case s.frames <- f:
		default:
		}
	}
}

// Frames returns the channel to receive frames from.
func (s *ChannelSession) Frames() <-chan Frame {
	return s.frames
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done. Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks spectator sessions.
// Thread-safe for concurrent access.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds a session to the registry.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister removes a session from the registry.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a session by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Broadcast sends f to every open session and drops the ones that ended.
// It returns the number of sessions reached.
func (r *SessionRegistry) Broadcast(f Frame) int {
	var closed []SessionID
	sent := 0

	r.mu.RLock()
	for id, s := range r.sessions {
		select {
		case <-s.Done():
			closed = append(closed, id)
			continue
		default:
		}
		s.Send(f)
		sent++
	}
	r.mu.RUnlock()

	for _, id := range closed {
		r.Unregister(id)
	}
	return sent
}

// CloseAll ends and removes every session that supports closing.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
		delete(r.sessions, id)
	}
}
