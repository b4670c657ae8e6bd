package nav

import "math"

// closeFraction of the avoidance radius inside which an obstacle is flagged
// regardless of travel direction, so agents do not clip corners beside them.
const closeFraction = 0.6

// ObstacleHit is an obstacle flagged by DetectObstaclesAhead.
type ObstacleHit struct {
	Obstacle Obstacle
	Distance float64 // agent to nearest point of the footprint
	Away     Vec2    // unit vector from the obstacle toward the agent
}

// LookAheadPoint is the point pos + normalize(desired) * LookAhead, or
// pos itself for a stationary agent.
func LookAheadPoint(pos, desired Vec2, cfg AvoidanceConfig) Vec2 {
	return pos.Add(desired.Normalize().Scale(cfg.LookAhead))
}

// DetectObstaclesAhead returns the obstacles that should deflect an agent at
// pos travelling with desired velocity. A stationary agent needs no steering.
func DetectObstaclesAhead(pos, desired Vec2, obstacles []Obstacle, cfg AvoidanceConfig) []ObstacleHit {
	if desired.IsZero() {
		return nil
	}
	dir := desired.Normalize()

	var hits []ObstacleHit
	for _, o := range obstacles {
		closest := o.Rect.ClosestPoint(pos)
		toObstacle := closest.Sub(pos)
		dist := toObstacle.Len()
		if dist == 0 {
			// Inside the footprint; steer out from the centre.
			toObstacle = o.Center().Sub(pos)
		}
		if dist > cfg.Radius {
			continue
		}
		inFront := toObstacle.Dot(dir) > 0
		if !inFront && dist >= cfg.Radius*closeFraction {
			continue
		}
		away := toObstacle.Scale(-1).Normalize()
		if away.IsZero() {
			away = dir.Scale(-1)
		}
		hits = append(hits, ObstacleHit{Obstacle: o, Distance: dist, Away: away})
	}
	return hits
}

// AvoidanceVector sums distance-weighted repulsion from every hit, normalizes
// it and scales it by the blend force. A result deviating from desired by
// more than the maximum angle is replaced by desired rotated by exactly that
// angle toward the avoidance side.
func AvoidanceVector(desired Vec2, hits []ObstacleHit, cfg AvoidanceConfig) Vec2 {
	var sum Vec2
	for _, h := range hits {
		w := 1 - h.Distance/cfg.Radius
		sum = sum.Add(h.Away.Scale(w))
	}
	if sum.Len() < 1e-9 {
		return Vec2{}
	}
	avoid := sum.Normalize().Scale(cfg.Force)

	dir := desired.Normalize()
	maxAngle := cfg.MaxAngle()
	if AngleBetween(dir, avoid) > maxAngle {
		avoid = dir.Rotate(sideOf(dir, avoid) * maxAngle).Scale(cfg.Force)
	}
	return avoid
}

// sideOf returns +1 when v lies counter-clockwise of dir, -1 when clockwise.
// Vectors exactly along dir resolve to +1.
func sideOf(dir, v Vec2) float64 {
	if dir.Perp().Dot(v) < 0 {
		return -1
	}
	return 1
}

// ApplyObstacleAvoidance deflects desired away from nearby obstacles. The
// result keeps the desired speed; with nothing in range desired is returned
// unchanged. Callers apply the returned velocity themselves.
func ApplyObstacleAvoidance(pos, desired Vec2, obstacles []Obstacle, cfg AvoidanceConfig) Vec2 {
	hits := DetectObstaclesAhead(pos, desired, obstacles, cfg)
	if len(hits) == 0 {
		return desired
	}
	speed := desired.Len()
	dir := desired.Normalize()
	avoid := AvoidanceVector(desired, hits, cfg)
	if avoid.IsZero() {
		return desired
	}

	blended := dir.Scale(1 - cfg.Force).Add(avoid)
	if blended.Len() < 1e-9 {
		// Opposing forces cancelled; slide sideways so the agent never freezes.
		return dir.Perp().Scale(sideOf(dir, avoid) * cfg.Force * speed)
	}
	return blended.Normalize().Scale(speed)
}

// Deviation returns the absolute angle in degrees between two velocities.
func Deviation(a, b Vec2) float64 {
	return AngleBetween(a, b) * 180 / math.Pi
}
