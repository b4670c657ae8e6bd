package nav

import "testing"

func rects(rs ...Rect) []Obstacle {
	out := make([]Obstacle, len(rs))
	for i, r := range rs {
		out[i] = Obstacle{ID: i, Rect: r}
	}
	return out
}

func TestLOS_ClearLine(t *testing.T) {
	if !HasLineOfSight(V(0, 0), V(100, 100), nil) {
		t.Fatal("expected clear LOS with no obstacles")
	}
}

func TestLOS_BlockedByObstacle(t *testing.T) {
	if HasLineOfSight(V(0, 100), V(200, 100), rects(Rect{X: 40, Y: 0, W: 20, H: 200})) {
		t.Fatal("expected LOS blocked by obstacle")
	}
}

func TestLOS_ObstacleBeyondEndpoint_NotBlocked(t *testing.T) {
	if !HasLineOfSight(V(0, 32), V(200, 32), rects(Rect{X: 300, Y: 0, W: 64, H: 64})) {
		t.Fatal("obstacle beyond endpoint should not block LOS")
	}
}

func TestLOS_VerticalRay_Blocked(t *testing.T) {
	if HasLineOfSight(V(100, 0), V(100, 200), rects(Rect{X: 0, Y: 40, W: 200, H: 20})) {
		t.Fatal("expected vertical ray blocked by horizontal obstacle")
	}
}

func TestLOS_HorizontalRay_ClearAbove(t *testing.T) {
	if !HasLineOfSight(V(0, 10), V(200, 10), rects(Rect{X: 40, Y: 50, W: 20, H: 100})) {
		t.Fatal("ray above obstacle should have clear LOS")
	}
}

func TestLOS_DiagonalRay_Blocked(t *testing.T) {
	if HasLineOfSight(V(0, 0), V(200, 200), rects(Rect{X: 80, Y: 80, W: 40, H: 40})) {
		t.Fatal("diagonal ray should be blocked by obstacle")
	}
}

func TestLOS_ZeroLength(t *testing.T) {
	// Same start and end: ray is a point. Should not panic.
	_ = HasLineOfSight(V(50, 50), V(50, 50), rects(Rect{X: 0, Y: 0, W: 100, H: 100}))
}

func TestSegmentHitsRect_InsideBox(t *testing.T) {
	if !SegmentHitsRect(V(10, 10), V(20, 20), Rect{X: 0, Y: 0, W: 100, H: 100}) {
		t.Fatal("segment with both endpoints inside rect should intersect")
	}
}

func TestSegmentHitsRect_Miss(t *testing.T) {
	if SegmentHitsRect(V(0, 0), V(0, 100), Rect{X: 50, Y: 0, W: 100, H: 100}) {
		t.Fatal("segment to the left of rect should not intersect")
	}
}
