package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{
			name:     "overlapping rects",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(5, 5, 10, 10),
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(15, 0, 10, 10),
			expected: false,
		},
		{
			name:     "non-overlapping vertical",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(0, 15, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent horizontal (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(10, 0, 10, 10),
			expected: false,
		},
		{
			name:     "contained rect",
			a:        NewRect(0, 0, 20, 20),
			b:        NewRect(5, 5, 5, 5),
			expected: true,
		},
		{
			name:     "fractional overlap",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(9.5, 9.5, 10, 10),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.a.Intersects(tc.b)
			if result != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", result, tc.expected)
			}
			// Also test symmetry
			resultReverse := tc.b.Intersects(tc.a)
			if resultReverse != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", resultReverse, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := RectAround(V(15, 17.5), 20, 15)

	if r.Left() != 5 || r.Right() != 25 {
		t.Errorf("Left/Right = %v/%v, expected 5/25", r.Left(), r.Right())
	}
	if r.Top() != 10 || r.Bottom() != 25 {
		t.Errorf("Top/Bottom = %v/%v, expected 10/25", r.Top(), r.Bottom())
	}
	if c := r.Center(); c != V(15, 17.5) {
		t.Errorf("Center() = %v, expected (15, 17.5)", c)
	}
}

func TestPenetration(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Rect
		dx, dy float64
	}{
		{"disjoint", NewRect(0, 0, 10, 10), NewRect(20, 20, 5, 5), 0, 0},
		{"a enters b from the left", NewRect(0, 0, 10, 10), NewRect(8, -5, 10, 20), -2, 15},
		{"a enters b from below", NewRect(0, 8, 10, 10), NewRect(-5, 0, 20, 10), 15, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dx, dy := Penetration(tc.a, tc.b)
			if dx != tc.dx || dy != tc.dy {
				t.Errorf("Penetration() = (%v, %v), expected (%v, %v)", dx, dy, tc.dx, tc.dy)
			}
		})
	}
}

func TestCirclesOverlap(t *testing.T) {
	shot := Circle{Center: V(200, 200), Radius: 4}
	asteroid := Circle{Center: V(205, 205), Radius: 32}
	if !CirclesOverlap(shot, asteroid) {
		t.Error("shot at distance ~7.07 should overlap asteroid with radius sum 36")
	}

	touching := Circle{Center: V(210, 200), Radius: 6}
	if CirclesOverlap(shot, touching) {
		t.Error("circles exactly touching should not overlap")
	}
}

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d Vec
		expected   bool
	}{
		{"crossing", V(0, 0), V(10, 10), V(0, 10), V(10, 0), true},
		{"parallel", V(0, 0), V(10, 0), V(0, 5), V(10, 5), false},
		{"disjoint", V(0, 0), V(1, 1), V(5, 5), V(6, 4), false},
		{"collinear overlapping", V(0, 0), V(10, 0), V(5, 0), V(15, 0), false},
		{"t-junction through", V(0, 5), V(10, 5), V(5, 0), V(5, 10), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SegmentsIntersect(tc.a, tc.b, tc.c, tc.d); got != tc.expected {
				t.Errorf("SegmentsIntersect() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestSegmentsIntersectSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pt := func() Vec {
		// Integer coordinates keep the cross products exact.
		return V(float64(rng.Intn(200)-100), float64(rng.Intn(200)-100))
	}

	for i := 0; i < 2000; i++ {
		a, b, c, d := pt(), pt(), pt(), pt()
		if a == b || c == d {
			continue
		}
		if SegmentsIntersect(a, b, c, d) != SegmentsIntersect(c, d, a, b) {
			t.Fatalf("asymmetric result for %v-%v vs %v-%v", a, b, c, d)
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		v, extent, expected float64
	}{
		{5, 10, 5},
		{10, 10, 0}, // exactly on the seam belongs to [0, extent)
		{12, 10, 2},
		{-1, 10, 9},
		{-10, 10, 0},
		{0, 10, 0},
	}

	for _, tc := range tests {
		if got := Wrap(tc.v, tc.extent); got != tc.expected {
			t.Errorf("Wrap(%v, %v) = %v, expected %v", tc.v, tc.extent, got, tc.expected)
		}
	}

	if got := Wrap(-1e-18, 10); got < 0 || got >= 10 {
		t.Errorf("Wrap(-1e-18, 10) = %v, expected value in [0, 10)", got)
	}
}

func TestNormalizeAngle(t *testing.T) {
	if got := NormalizeAngle(-90); got != 270 {
		t.Errorf("NormalizeAngle(-90) = %v, expected 270", got)
	}
	if got := NormalizeAngle(360); got != 0 {
		t.Errorf("NormalizeAngle(360) = %v, expected 0", got)
	}
	if got := NormalizeAngle(725); got != 5 {
		t.Errorf("NormalizeAngle(725) = %v, expected 5", got)
	}
}

func TestFromAngle(t *testing.T) {
	up := FromAngle(270, 2)
	if math.Abs(up.X) > 1e-9 || math.Abs(up.Y+2) > 1e-9 {
		t.Errorf("FromAngle(270, 2) = %v, expected (0, -2)", up)
	}
	if !up.IsFinite() {
		t.Error("FromAngle result should be finite")
	}
	if V(math.NaN(), 0).IsFinite() {
		t.Error("NaN vector reported finite")
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
