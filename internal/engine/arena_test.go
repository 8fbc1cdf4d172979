package engine

import "testing"

func TestArenaKeepsInsertionOrder(t *testing.T) {
	a := NewArena()
	var ids []ID
	for i := 0; i < 5; i++ {
		ids = append(ids, a.queueSpawn(&Entity{Kind: KindBlock}))
	}
	a.flush()

	a.queueRemove(ids[1])
	a.queueRemove(ids[3])
	a.flush()

	live := a.live()
	if len(live) != 3 {
		t.Fatalf("Len() = %d, expected 3", len(live))
	}
	for i, expected := range []ID{ids[0], ids[2], ids[4]} {
		if live[i].ID != expected {
			t.Errorf("live[%d] = %d, expected %d", i, live[i].ID, expected)
		}
	}
	if _, ok := a.get(ids[1]); ok {
		t.Error("removed entity still indexed")
	}
}

func TestArenaUnknownRemove(t *testing.T) {
	a := NewArena()
	if a.queueRemove(7) {
		t.Error("queueRemove() of unknown ID reported true")
	}
}

func TestEdgeAndAxisStrings(t *testing.T) {
	if s := (EdgeLeft | EdgeBottom).String(); s != "left|bottom" {
		t.Errorf("Edge.String() = %q, expected left|bottom", s)
	}
	if s := (AxisXNeg | AxisYPos).String(); s != "x-|y+" {
		t.Errorf("Axis.String() = %q, expected x-|y+", s)
	}
	if k, err := ParseKind("lander"); err != nil || k != KindLanderCraft {
		t.Errorf("ParseKind(lander) = %v, %v", k, err)
	}
}
