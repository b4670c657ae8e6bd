package game

import (
	"testing"

	"github.com/Garsondee/cover-shooter/internal/nav"
)

func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	if len(ts.Log().Entries()) == 0 {
		t.Log("(no log entries)")
		return
	}
	// Long runs only need the tail.
	to := ts.Tick()
	t.Log("\n" + ts.Log().FormatRange(max(0, to-dumpTicks), to))
}

const dumpTicks = 300

func insideAnyObstacle(w *World, p nav.Vec2) bool {
	for _, o := range w.Obstacles() {
		if o.Rect.Contains(p) {
			return true
		}
	}
	return false
}

func TestWorld_LineOfSightSeesObstaclesOnly(t *testing.T) {
	ts := NewTestSim(
		WithCover(300, 200, 40, 80),
		WithStationaryEnemy("S0", 200, 100),
	)
	if ts.LineOfSight(nav.V(100, 240), nav.V(500, 240)) {
		t.Fatal("segment through cover should be blocked")
	}
	if !ts.LineOfSight(nav.V(100, 100), nav.V(500, 100)) {
		t.Fatal("segment above cover should be clear, agents never block sight")
	}
}

func TestWorld_PhysicsAgreesWithAnalyticSight(t *testing.T) {
	ts := NewTestSim(
		WithCover(100, 100, 40, 40),
		WithWall(300, 50, 16, 300),
		WithCover(450, 300, 60, 20),
	)
	// Sample a fan of segments well away from any grazing contact.
	from := nav.V(20, 20)
	for x := 40.0; x < 640; x += 37 {
		for _, y := range []float64{60, 170, 260, 390, 460} {
			to := nav.V(x, y)
			if insideAnyObstacle(ts.World, to) {
				continue
			}
			got := ts.LineOfSight(from, to)
			want := nav.HasLineOfSight(from, to, ts.Obstacles())
			if got != want {
				t.Fatalf("sight %v→%v: physics %v, analytic %v", from, to, got, want)
			}
		}
	}
}

func TestWorld_RemoveObstacleClearsSight(t *testing.T) {
	ts := NewTestSim(WithCover(300, 200, 40, 80))
	id, ok := ts.RemoveObstacleAt(nav.V(320, 240))
	if !ok {
		t.Fatal("expected an obstacle under the point")
	}
	if id != 0 {
		t.Fatalf("expected obstacle #0, got #%d", id)
	}
	if !ts.LineOfSight(nav.V(100, 240), nav.V(500, 240)) {
		t.Fatal("removed obstacle should no longer block sight")
	}
	if !ts.Log().HasEntry("world", "obstacle_removed", "#0") {
		t.Fatal("removal should be logged")
	}
	if ts.RemoveObstacle(id) {
		t.Fatal("removing twice should fail")
	}
}

func TestWorld_BoundaryCannotBeRemoved(t *testing.T) {
	ts := NewTestSim(WithBoundary(8))
	if _, ok := ts.RemoveObstacleAt(nav.V(4, 4)); ok {
		t.Fatal("boundary walls are permanent")
	}
	if ts.RemoveObstacle(0) {
		t.Fatal("boundary walls are permanent by id too")
	}
}

func TestWorld_GridCatchesUpAfterInterval(t *testing.T) {
	ts := NewTestSim(WithCover(300, 200, 40, 80))
	cx, cy := ts.Nav().WorldToCell(nav.V(320, 240))
	if ts.Nav().IsWalkable(cx, cy) {
		t.Fatal("cell under cover should start blocked")
	}
	ts.RemoveObstacle(0)
	ts.RunTicks(1)
	if ts.Nav().IsWalkable(cx, cy) {
		t.Fatal("grid should keep the old snapshot until the rebuild interval")
	}
	interval := ts.Config().Nav.RebuildInterval
	ts.RunTicks(int(interval.Seconds()*float64(ts.Config().Sim.TPS)) + 1)
	if !ts.Nav().IsWalkable(cx, cy) {
		t.Fatal("grid should reflect the removal after the interval")
	}
}

func TestWorld_ForceRebuildIsImmediate(t *testing.T) {
	ts := NewTestSim(WithCover(300, 200, 40, 80))
	cx, cy := ts.Nav().WorldToCell(nav.V(320, 240))
	ts.RemoveObstacle(0)
	ts.ForceRebuild()
	if !ts.Nav().IsWalkable(cx, cy) {
		t.Fatal("forced rebuild should pick up the removal at once")
	}
}

func TestWorld_ScriptedPlayerLoops(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(100, 100),
		WithPlayerRoute(120, nav.V(100, 100), nav.V(300, 100), nav.V(300, 300)),
	)
	seen := map[int]bool{}
	ts.RunUntil(func(ts *TestSim) bool {
		seen[ts.Player().index] = true
		return len(seen) == 3 && ts.Player().index == 0
	}, 60*12)
	if len(seen) != 3 || ts.Player().index != 0 {
		t.Fatalf("player should visit every waypoint and wrap, saw %v", seen)
	}
}

func TestWorld_ManualPlayerInput(t *testing.T) {
	ts := NewTestSim(WithPlayer(100, 100))
	ts.SetPlayerInput(nav.V(1, 0))
	ts.RunTicks(60)
	p := ts.Player().Position()
	if p.X < 150 || p.Y < 99 || p.Y > 101 {
		t.Fatalf("player should move east, at %v", p)
	}
	ts.SetPlayerInput(nav.Vec2{})
	ts.RunTicks(2)
	q := ts.Player().Position()
	ts.RunTicks(10)
	if !ts.Player().Position().Near(q, 1e-6) {
		t.Fatal("zero input should stop the player")
	}
}

func TestWorld_WallsHoldAgents(t *testing.T) {
	ts := NewTestSim(
		WithBoundary(8),
		WithPlayer(600, 240),
	)
	ts.SetPlayerInput(nav.V(1, 0))
	ts.RunTicks(120)
	if x := ts.Player().Position().X; x > 640-8 {
		t.Fatalf("boundary wall should stop the player, x=%.1f", x)
	}
}

func TestWorld_CoverHoldsPlayer(t *testing.T) {
	ts := NewTestSim(
		WithCover(300, 200, 40, 80),
		WithPlayer(240, 240),
	)
	ts.SetPlayerInput(nav.V(1, 0))
	radius := ts.Config().Sim.AgentRadius
	for i := 0; i < 180; i++ {
		ts.RunTicks(1)
		if x := ts.Player().Position().X; x > 300-radius+2 {
			t.Fatalf("tick %d: player sank into cover, x=%.2f", ts.Tick(), x)
		}
	}
	if v := ts.Player().body.actual(); v.X > 1 {
		t.Fatalf("player pressed against cover should not be moving east, v=%v", v)
	}
	if c := ts.Player().body.commanded(); c.X <= 0 {
		t.Fatalf("commanded velocity should still point east, got %v", c)
	}
}

func TestWorld_ThinWallHoldsEnemy(t *testing.T) {
	ts := NewTestSim(
		WithWall(300, 100, 4, 200),
		WithStationaryEnemy("S0", 280, 200),
		WithPlayer(40, 40),
	)
	e := ts.Enemy("S0")
	for i := 0; i < 240; i++ {
		e.SetVelocity(nav.V(120, 0))
		ts.phys.step(ts.dt().Seconds())
		if x := e.Position().X; x > 300 {
			t.Fatalf("step %d: enemy crossed the wall, x=%.2f", i, x)
		}
	}
}

func TestTestSim_VerboseFromConfig(t *testing.T) {
	ts := NewTestSim(WithConfig(func(c *Config) { c.Sim.Verbose = true }))
	if !ts.Log().Verbose() {
		t.Fatal("sim.verbose in the config should enable verbose logging")
	}
	if NewTestSim().Log().Verbose() {
		t.Fatal("verbose logging should be off by default")
	}
}
