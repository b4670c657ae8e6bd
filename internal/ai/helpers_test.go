package ai

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Garsondee/cover-shooter/internal/nav"
	"github.com/Garsondee/cover-shooter/internal/simlog"
)

const tickDT = time.Second / 60

type shotRecord struct {
	at       time.Duration
	from, to nav.Vec2
	clear    bool // line of sight at the moment of the shot
}

// fakeWorld is an obstacle list with analytic line of sight.
type fakeWorld struct {
	obstacles []nav.Obstacle
	shots     []shotRecord
	elapsed   time.Duration
}

func (w *fakeWorld) Obstacles() []nav.Obstacle { return w.obstacles }
func (w *fakeWorld) LineOfSight(a, b nav.Vec2) bool {
	return nav.HasLineOfSight(a, b, w.obstacles)
}
func (w *fakeWorld) Fire(from, to nav.Vec2) {
	w.shots = append(w.shots, shotRecord{at: w.elapsed, from: from, to: to, clear: w.LineOfSight(from, to)})
}

// fakeAgent integrates its own velocity so tests can run whole scenarios.
type fakeAgent struct {
	pos nav.Vec2
	vel nav.Vec2
}

func (a *fakeAgent) Position() nav.Vec2     { return a.pos }
func (a *fakeAgent) SetVelocity(v nav.Vec2) { a.vel = v }
func (a *fakeAgent) step(dt time.Duration)  { a.pos = a.pos.Add(a.vel.Scale(dt.Seconds())) }

type rig struct {
	world *fakeWorld
	ctx   *Context
	log   *simlog.Log
}

func newRig(w, h float64, threat nav.Vec2, obstacles ...nav.Obstacle) *rig {
	world := &fakeWorld{obstacles: obstacles}
	log := simlog.New(false)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return start.Add(world.elapsed) }
	return &rig{
		world: world,
		log:   log,
		ctx: &Context{
			Nav:       nav.NewService(nav.DefaultConfig(), w, h, world, nav.WithClock(clock)),
			World:     world,
			Avoidance: nav.DefaultAvoidance(),
			Threat:    threat,
			HasThreat: true,
			Rng:       rand.New(rand.NewSource(1)),
			Log:       log,
		},
	}
}

// run advances n ticks of b driving agent.
func (r *rig) run(b *Behavior, agent *fakeAgent, n int) {
	for i := 0; i < n; i++ {
		r.world.elapsed += tickDT
		r.log.SetTick(r.log.Tick() + 1)
		b.Update(agent, r.ctx, tickDT)
		agent.step(tickDT)
	}
}

func cover(id int, x, y, w, h float64) nav.Obstacle {
	return nav.Obstacle{ID: id, Rect: nav.Rect{X: x, Y: y, W: w, H: h}, Category: nav.CategoryCover}
}

func wall(id int, x, y, w, h float64) nav.Obstacle {
	return nav.Obstacle{ID: id, Rect: nav.Rect{X: x, Y: y, W: w, H: h}, Category: nav.CategoryWall}
}

func dumpLog(t *testing.T, r *rig) {
	t.Helper()
	if len(r.log.Entries()) == 0 {
		t.Log("(no log entries)")
		return
	}
	t.Log("\n" + r.log.Format())
}
