package nav

import "math"

// Category tags an obstacle at creation time.
type Category int

const (
	// CategoryWall is level geometry such as the arena boundary.
	// Walls block movement and sight but are never chosen as cover.
	CategoryWall Category = iota

	// CategoryCover is a typical free-standing obstacle an agent can hide behind.
	CategoryCover
)

func (c Category) String() string {
	switch c {
	case CategoryWall:
		return "wall"
	case CategoryCover:
		return "cover"
	default:
		return "unknown"
	}
}

// Rect is an axis-aligned footprint. X,Y is the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 { return Vec2{r.X + r.W/2, r.Y + r.H/2} }

// Expand grows the rectangle outward by pad on every side.
func (r Rect) Expand(pad float64) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, W: r.W + 2*pad, H: r.H + 2*pad}
}

// Contains reports whether p lies inside or on the rectangle.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// ClosestPoint returns the point of the rectangle nearest to p.
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return Vec2{
		X: math.Max(r.X, math.Min(p.X, r.X+r.W)),
		Y: math.Max(r.Y, math.Min(p.Y, r.Y+r.H)),
	}
}

// Obstacle is a static footprint in the world.
type Obstacle struct {
	ID       int
	Rect     Rect
	Category Category
}

// Center returns the obstacle's footprint centre.
func (o Obstacle) Center() Vec2 { return o.Rect.Center() }

// IsCover reports whether the obstacle may be used as tactical cover.
func (o Obstacle) IsCover() bool { return o.Category == CategoryCover }

// ObstacleSource is the world's "all obstacle footprints" query.
// Each call returns a snapshot current at call time.
type ObstacleSource interface {
	Obstacles() []Obstacle
}

// ObstacleList adapts a fixed slice to ObstacleSource.
type ObstacleList []Obstacle

func (l ObstacleList) Obstacles() []Obstacle { return l }
