package curve

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func vecNear(a, b mgl32.Vec2, eps float32) bool {
	return a.Sub(b).Len() <= eps
}

func TestLinearTruncatedToExpectedLength(t *testing.T) {
	path := Path{Type: Linear, Points: []mgl32.Vec2{{100, 100}, {300, 100}}}
	c := New(path, 100)

	if c.Distance() != 100 {
		t.Fatalf("Distance() = %v, want 100", c.Distance())
	}

	if p := c.PositionAt(1); !vecNear(p, mgl32.Vec2{100, 0}, 1e-3) {
		t.Errorf("PositionAt(1) = %v, want (100, 0)", p)
	}

	if p := c.PositionAt(0.5); !vecNear(p, mgl32.Vec2{50, 0}, 1e-3) {
		t.Errorf("PositionAt(0.5) = %v, want (50, 0)", p)
	}
}

func TestLinearExtendedToExpectedLength(t *testing.T) {
	path := Path{Type: Linear, Points: []mgl32.Vec2{{0, 0}, {0, 50}}}
	c := New(path, 80)

	if p := c.PositionAt(1); !vecNear(p, mgl32.Vec2{0, 80}, 1e-3) {
		t.Errorf("PositionAt(1) = %v, want (0, 80)", p)
	}
}

func TestRepeatedLastPointIsNotExtended(t *testing.T) {
	path := Path{Type: Linear, Points: []mgl32.Vec2{{0, 0}, {0, 50}, {0, 50}}}
	c := New(path, 80)

	if c.Distance() != 50 {
		t.Errorf("Distance() = %v, want 50", c.Distance())
	}
}

func TestProgressIsClamped(t *testing.T) {
	path := Path{Type: Linear, Points: []mgl32.Vec2{{0, 0}, {10, 0}}}
	c := New(path, 10)

	if p := c.PositionAt(-1); !vecNear(p, mgl32.Vec2{}, 1e-6) {
		t.Errorf("PositionAt(-1) = %v, want origin", p)
	}

	if p := c.PositionAt(2); !vecNear(p, mgl32.Vec2{10, 0}, 1e-6) {
		t.Errorf("PositionAt(2) = %v, want (10, 0)", p)
	}
}

func TestPerfectCircleHalfArc(t *testing.T) {
	// half circle of radius 50 centred at (50, 0)
	path := Path{Type: Perfect, Points: []mgl32.Vec2{{0, 0}, {50, 50}, {100, 0}}}
	expected := float32(3.14159265 * 50)
	c := New(path, expected)

	mid := c.PositionAt(0.5)
	if !vecNear(mid, mgl32.Vec2{50, 50}, 0.5) {
		t.Errorf("PositionAt(0.5) = %v, want about (50, 50)", mid)
	}

	end := c.PositionAt(1)
	if !vecNear(end, mgl32.Vec2{100, 0}, 0.5) {
		t.Errorf("PositionAt(1) = %v, want about (100, 0)", end)
	}
}

func TestCollinearPerfectFallsBackToBezier(t *testing.T) {
	path := Path{Type: Perfect, Points: []mgl32.Vec2{{0, 0}, {50, 0}, {100, 0}}}
	c := New(path, 100)

	if p := c.PositionAt(1); !vecNear(p, mgl32.Vec2{100, 0}, 1e-2) {
		t.Errorf("PositionAt(1) = %v, want (100, 0)", p)
	}
}

func TestBezierEndpoints(t *testing.T) {
	path := Path{Type: Bezier, Points: []mgl32.Vec2{{0, 0}, {50, 100}, {100, 0}}}
	poly := approximate(path)

	if len(poly) < 3 {
		t.Fatalf("approximation has %d points", len(poly))
	}

	if poly[0] != (mgl32.Vec2{0, 0}) {
		t.Errorf("first point = %v", poly[0])
	}

	if poly[len(poly)-1] != (mgl32.Vec2{100, 0}) {
		t.Errorf("last point = %v", poly[len(poly)-1])
	}
}

func TestBezierRedAnchorSegments(t *testing.T) {
	// two linear-looking segments joined at a red anchor
	path := Path{Type: Bezier, Points: []mgl32.Vec2{{0, 0}, {100, 0}, {100, 0}, {100, 100}}}
	c := New(path, 200)

	if p := c.PositionAt(0.5); !vecNear(p, mgl32.Vec2{100, 0}, 0.5) {
		t.Errorf("PositionAt(0.5) = %v, want the anchor (100, 0)", p)
	}
}

func TestCatmullPassesThroughControlPoints(t *testing.T) {
	path := Path{Type: Catmull, Points: []mgl32.Vec2{{0, 0}, {50, 50}, {100, 0}}}
	poly := approximate(path)

	found := false
	for _, p := range poly {
		if vecNear(p, mgl32.Vec2{50, 50}, 1e-3) {
			found = true
			break
		}
	}

	if !found {
		t.Error("catmull approximation does not pass through the middle control point")
	}
}

func TestFlipY(t *testing.T) {
	path := Path{Type: Linear, Points: []mgl32.Vec2{{10, 20}, {30, 40}}}
	flipped := path.FlipY(384)

	if flipped.Points[0] != (mgl32.Vec2{10, 364}) || flipped.Points[1] != (mgl32.Vec2{30, 344}) {
		t.Errorf("FlipY = %v", flipped.Points)
	}

	if path.Points[0] != (mgl32.Vec2{10, 20}) {
		t.Error("FlipY mutated the original path")
	}
}
