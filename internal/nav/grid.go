package nav

import (
	"math"
	"time"
)

// Grid is a walkability raster over the world. true = walkable.
//
// The cell array is only ever replaced wholesale by Rebuild, so a reader
// never observes a half-built grid.
type Grid struct {
	cols     int
	rows     int
	cellSize float64
	padding  float64
	interval time.Duration

	walkable []bool
	builtAt  time.Time
	built    bool
}

// NewGrid sizes a grid for a worldW×worldH world. No cells exist until the
// first Rebuild; until then every query fails closed.
func NewGrid(worldW, worldH float64, cfg Config) *Grid {
	cfg = cfg.WithDefaults()
	return &Grid{
		cols:     int(math.Ceil(worldW / cfg.CellSize)),
		rows:     int(math.Ceil(worldH / cfg.CellSize)),
		cellSize: cfg.CellSize,
		padding:  cfg.Padding,
		interval: cfg.RebuildInterval,
	}
}

// Cols returns the grid width in cells.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the grid height in cells.
func (g *Grid) Rows() int { return g.rows }

// CellSize returns the edge length of one cell in pixels.
func (g *Grid) CellSize() float64 { return g.cellSize }

// Built reports whether the grid has been generated at least once.
func (g *Grid) Built() bool { return g.built }

// BuiltAt returns the time of the last rebuild.
func (g *Grid) BuiltAt() time.Time { return g.builtAt }

// Rebuild rasterizes the obstacle footprints into a fresh array. Every cell
// overlapping a footprint expanded by the padding margin is unwalkable.
func (g *Grid) Rebuild(obstacles []Obstacle, now time.Time) {
	cells := make([]bool, g.cols*g.rows)
	for i := range cells {
		cells[i] = true
	}

	for _, o := range obstacles {
		r := o.Rect.Expand(g.padding)
		cMinX := max(0, int(math.Floor(r.X/g.cellSize)))
		cMinY := max(0, int(math.Floor(r.Y/g.cellSize)))
		cMaxX := min(g.cols-1, int(math.Ceil((r.X+r.W)/g.cellSize))-1)
		cMaxY := min(g.rows-1, int(math.Ceil((r.Y+r.H)/g.cellSize))-1)

		for cy := cMinY; cy <= cMaxY; cy++ {
			for cx := cMinX; cx <= cMaxX; cx++ {
				cells[cy*g.cols+cx] = false
			}
		}
	}

	g.walkable = cells
	g.builtAt = now
	g.built = true
}

// EnsureFresh rebuilds the grid when it has never been built or is older
// than the rebuild interval. It reports whether a rebuild happened.
func (g *Grid) EnsureFresh(obstacles func() []Obstacle, now time.Time) bool {
	if g.built && now.Sub(g.builtAt) < g.interval {
		return false
	}
	g.Rebuild(obstacles(), now)
	return true
}

// IsWalkable returns false for out-of-bounds cells and for an ungenerated grid.
func (g *Grid) IsWalkable(cx, cy int) bool {
	if !g.built || cx < 0 || cy < 0 || cx >= g.cols || cy >= g.rows {
		return false
	}
	return g.walkable[cy*g.cols+cx]
}

// WorldToCell converts world pixel coordinates to grid cell coordinates.
func (g *Grid) WorldToCell(p Vec2) (int, int) {
	return int(math.Floor(p.X / g.cellSize)), int(math.Floor(p.Y / g.cellSize))
}

// CellToWorld converts grid cell coordinates to the world pixel centre of the cell.
func (g *Grid) CellToWorld(cx, cy int) Vec2 {
	return Vec2{
		X: float64(cx)*g.cellSize + g.cellSize/2,
		Y: float64(cy)*g.cellSize + g.cellSize/2,
	}
}

// nearestWalkable searches square rings of growing radius around (cx,cy) and
// returns the closest walkable cell. Within a ring the smallest Euclidean
// offset wins; exact ties keep the first cell in row-major order.
func (g *Grid) nearestWalkable(cx, cy, radius int) (int, int, bool) {
	if g.IsWalkable(cx, cy) {
		return cx, cy, true
	}
	for r := 1; r <= radius; r++ {
		bestX, bestY := 0, 0
		bestD := math.MaxInt
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				if !g.IsWalkable(cx+dx, cy+dy) {
					continue
				}
				if d := dx*dx + dy*dy; d < bestD {
					bestD = d
					bestX, bestY = cx+dx, cy+dy
				}
			}
		}
		if bestD != math.MaxInt {
			return bestX, bestY, true
		}
	}
	return 0, 0, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
