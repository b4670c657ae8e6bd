package nav

import "math"

// HasLineOfSight returns true if a straight segment from a to b does not
// intersect any obstacle footprint. Uses simple segment-vs-AABB slab tests.
func HasLineOfSight(a, b Vec2, obstacles []Obstacle) bool {
	for _, o := range obstacles {
		if SegmentHitsRect(a, b, o.Rect) {
			return false
		}
	}
	return true
}

// SegmentHitsRect checks if the segment a→b intersects r.
func SegmentHitsRect(a, b Vec2, r Rect) bool {
	_, hit := segmentRectHitT(a, b, r)
	return hit
}

// segmentRectHitT returns the first segment parameter t in [0,1] where the
// segment a→b enters r. The bool is false when no hit exists.
func segmentRectHitT(a, b Vec2, r Rect) (float64, bool) {
	tMin, tMax := 0.0, 1.0

	slab := func(o, d, lo, hi float64) bool {
		if math.Abs(d) < 1e-12 {
			return o >= lo && o <= hi
		}
		inv := 1.0 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		return tMin <= tMax
	}

	if !slab(a.X, b.X-a.X, r.X, r.X+r.W) {
		return 0, false
	}
	if !slab(a.Y, b.Y-a.Y, r.Y, r.Y+r.H) {
		return 0, false
	}
	return tMin, true
}
