package broadcast

import "testing"

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("a", 2)
	for tick := uint64(1); tick <= 3; tick++ {
		s.Send(Frame{Tick: tick})
	}

	got := []uint64{(<-s.Frames()).Tick, (<-s.Frames()).Tick}
	if got[0] != 2 || got[1] != 3 {
		t.Errorf("received ticks %v, expected [2 3]", got)
	}
}

func TestChannelSessionClosed(t *testing.T) {
	s := NewChannelSession("a", 2)
	s.Close()
	s.Close() // Safe to call twice

	s.Send(Frame{Tick: 1})
	select {
	case f := <-s.Frames():
		t.Errorf("closed session received frame %d", f.Tick)
	default:
	}

	select {
	case <-s.Done():
	default:
		t.Error("Done() should be closed")
	}
}

func TestRegistryBroadcast(t *testing.T) {
	r := NewSessionRegistry()
	open := NewChannelSession("open", 4)
	gone := NewChannelSession("gone", 4)
	r.Register(open)
	r.Register(gone)
	gone.Close()

	if sent := r.Broadcast(Frame{Tick: 7}); sent != 1 {
		t.Errorf("Broadcast() = %d, expected 1", sent)
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, expected closed session pruned", r.Count())
	}
	if _, ok := r.Get("gone"); ok {
		t.Error("closed session should be unregistered")
	}
	if f := <-open.Frames(); f.Tick != 7 {
		t.Errorf("frame tick = %d, expected 7", f.Tick)
	}
}

func TestRegistryCloseAll(t *testing.T) {
	r := NewSessionRegistry()
	a := NewChannelSession("a", 1)
	b := NewChannelSession("b", 1)
	r.Register(a)
	r.Register(b)

	r.CloseAll()

	if r.Count() != 0 {
		t.Errorf("Count() = %d, expected 0", r.Count())
	}
	for _, s := range []*ChannelSession{a, b} {
		select {
		case <-s.Done():
		default:
			t.Errorf("session %s not closed", s.ID())
		}
	}
}

func TestNewSessionIDUnique(t *testing.T) {
	seen := make(map[SessionID]bool)
	for i := 0; i < 100; i++ {
		id := NewSessionID()
		if id == "" || seen[id] {
			t.Fatalf("NewSessionID() returned empty or duplicate %q", id)
		}
		seen[id] = true
	}
}
