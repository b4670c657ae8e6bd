package nav

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func builtGrid(w, h float64, cfg Config, obstacles ...Obstacle) *Grid {
	g := NewGrid(w, h, cfg)
	g.Rebuild(obstacles, epoch)
	return g
}

func TestGrid_UngeneratedFailsClosed(t *testing.T) {
	g := NewGrid(320, 320, DefaultConfig())
	if g.IsWalkable(0, 0) {
		t.Fatal("ungenerated grid should report every cell unwalkable")
	}
}

func TestGrid_DimensionsRoundUp(t *testing.T) {
	g := NewGrid(330, 100, DefaultConfig())
	if g.Cols() != 21 || g.Rows() != 7 {
		t.Fatalf("expected 21x7 grid, got %dx%d", g.Cols(), g.Rows())
	}
}

func TestGrid_EmptyRebuildAllWalkable(t *testing.T) {
	g := builtGrid(320, 320, DefaultConfig())
	for cy := 0; cy < g.Rows(); cy++ {
		for cx := 0; cx < g.Cols(); cx++ {
			if !g.IsWalkable(cx, cy) {
				t.Fatalf("cell (%d,%d) should be walkable with no obstacles", cx, cy)
			}
		}
	}
}

func TestGrid_OOB_IsUnwalkable(t *testing.T) {
	g := builtGrid(320, 320, DefaultConfig())
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {g.Cols(), 0}, {0, g.Rows()}} {
		if g.IsWalkable(c[0], c[1]) {
			t.Fatalf("out-of-bounds cell %v should be unwalkable", c)
		}
	}
}

func TestGrid_PaddedFootprintBlocksCells(t *testing.T) {
	cfg := DefaultConfig()
	ob := Obstacle{ID: 1, Rect: Rect{X: 100, Y: 84, W: 40, H: 30}, Category: CategoryCover}
	g := builtGrid(320, 320, cfg, ob)
	padded := ob.Rect.Expand(cfg.Padding)

	for cy := 0; cy < g.Rows(); cy++ {
		for cx := 0; cx < g.Cols(); cx++ {
			centre := g.CellToWorld(cx, cy)
			if padded.Contains(centre) && g.IsWalkable(cx, cy) {
				t.Fatalf("cell (%d,%d) centre %v lies in padded footprint but is walkable", cx, cy, centre)
			}
			cell := Rect{X: float64(cx) * cfg.CellSize, Y: float64(cy) * cfg.CellSize, W: cfg.CellSize, H: cfg.CellSize}
			overlaps := cell.X < padded.X+padded.W && cell.X+cell.W > padded.X &&
				cell.Y < padded.Y+padded.H && cell.Y+cell.H > padded.Y
			if !overlaps && !g.IsWalkable(cx, cy) {
				t.Fatalf("cell (%d,%d) does not touch the padded footprint but is blocked", cx, cy)
			}
		}
	}
}

func TestGrid_RebuildReplacesWholesale(t *testing.T) {
	ob := Obstacle{Rect: Rect{X: 64, Y: 64, W: 32, H: 32}}
	g := builtGrid(320, 320, DefaultConfig(), ob)
	if g.IsWalkable(4, 4) {
		t.Fatal("cell under obstacle should be blocked")
	}
	g.Rebuild(nil, epoch.Add(time.Second))
	if !g.IsWalkable(4, 4) {
		t.Fatal("rebuild without obstacles should clear the old footprint")
	}
}

func TestGrid_EnsureFreshHonoursInterval(t *testing.T) {
	g := NewGrid(320, 320, DefaultConfig())
	calls := 0
	src := func() []Obstacle { calls++; return nil }

	if !g.EnsureFresh(src, epoch) {
		t.Fatal("first EnsureFresh should build the grid")
	}
	if g.EnsureFresh(src, epoch.Add(499*time.Millisecond)) {
		t.Fatal("grid younger than the interval should not rebuild")
	}
	if !g.EnsureFresh(src, epoch.Add(500*time.Millisecond)) {
		t.Fatal("grid at the interval should rebuild")
	}
	if calls != 2 {
		t.Fatalf("obstacle query should run only on rebuild, ran %d times", calls)
	}
}

func TestGrid_WorldToCell(t *testing.T) {
	g := NewGrid(320, 320, DefaultConfig())
	cx, cy := g.WorldToCell(V(24, 40))
	if cx != 1 || cy != 2 {
		t.Fatalf("expected (1,2) got (%d,%d)", cx, cy)
	}
	cx, cy = g.WorldToCell(V(-1, -1))
	if cx != -1 || cy != -1 {
		t.Fatalf("negative coordinates should floor to (-1,-1), got (%d,%d)", cx, cy)
	}
}

func TestGrid_CellToWorldIsCentre(t *testing.T) {
	g := NewGrid(320, 320, DefaultConfig())
	p := g.CellToWorld(2, 3)
	if p.X != 40 || p.Y != 56 {
		t.Fatalf("expected (40,56) got (%.0f,%.0f)", p.X, p.Y)
	}
}

func TestGrid_NearestWalkablePrefersClosestCell(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Padding = 0
	// Blocks cells (4..6, 4..6).
	g := builtGrid(320, 320, cfg, Obstacle{Rect: Rect{X: 64, Y: 64, W: 48, H: 48}})
	cx, cy, ok := g.nearestWalkable(5, 4, 5)
	if !ok {
		t.Fatal("expected a walkable cell nearby")
	}
	if cx != 5 || cy != 3 {
		t.Fatalf("expected straight-up neighbour (5,3), got (%d,%d)", cx, cy)
	}
}

func TestGrid_NearestWalkableGivesUpBeyondRadius(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Padding = 0
	g := builtGrid(320, 320, cfg, Obstacle{Rect: Rect{X: 0, Y: 0, W: 320, H: 320}})
	if _, _, ok := g.nearestWalkable(10, 10, 5); ok {
		t.Fatal("fully blocked grid should have no walkable cell")
	}
}
