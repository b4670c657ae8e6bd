package game

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/Garsondee/cover-shooter/internal/ai"
	"github.com/Garsondee/cover-shooter/internal/nav"
	"github.com/Garsondee/cover-shooter/internal/simlog"
)

// simEpoch anchors the tick clock handed to the planner.
var simEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// playerArrive is how close the scripted player gets to a waypoint before
// moving on.
const playerArrive = 8.0

// Enemy is one AI-driven agent backed by a physics body.
type Enemy struct {
	Label    string
	Behavior *ai.Behavior
	body     *agentBody
}

// Position implements ai.Agent.
func (e *Enemy) Position() nav.Vec2 { return e.body.position() }

// SetVelocity implements ai.Agent.
func (e *Enemy) SetVelocity(v nav.Vec2) { e.body.setVelocity(v) }

// Velocity returns the velocity the behaviour last asked for.
func (e *Enemy) Velocity() nav.Vec2 { return e.body.commanded() }

// Player is the threat. It walks its route in a loop unless input is set.
type Player struct {
	body   *agentBody
	speed  float64
	route  []nav.Vec2
	index  int
	input  nav.Vec2
	manual bool
}

// Position returns the player's centre.
func (p *Player) Position() nav.Vec2 { return p.body.position() }

// Shot is one fired round, from shooter to the threat's position.
type Shot struct {
	Tick    int
	Shooter string
	From    nav.Vec2
	To      nav.Vec2
}

// World is the host simulation: level geometry, physics, planner, agents.
// It implements ai.World and nav.ObstacleSource. A World is not safe for
// concurrent use; the planner it owns is.
type World struct {
	cfg   Config
	level *Level

	obstacles []nav.Obstacle
	boundary  int // leading obstacles that are level boundary walls
	phys      *physics
	nav       *nav.Service

	enemies []*Enemy
	player  *Player
	shots   []Shot

	log    *simlog.Log
	rng    *rand.Rand
	tick   int
	firing string
}

// NewWorld builds a world for lvl. log may be nil, in which case a fresh log
// is created per cfg.Sim.Verbose.
func NewWorld(cfg Config, lvl *Level, log *simlog.Log) *World {
	if log == nil {
		log = simlog.New(cfg.Sim.Verbose)
	}
	log.SetTick(0)
	w := &World{
		cfg:   cfg,
		level: lvl,
		phys:  newPhysics(),
		log:   log,
		rng:   rand.New(rand.NewSource(cfg.Sim.Seed)), // #nosec G404 -- simulation RNG
	}
	w.obstacles = lvl.Obstacles()
	if lvl.Boundary > 0 {
		w.boundary = 4
	}
	for _, o := range w.obstacles {
		w.phys.addObstacle(o)
	}
	w.nav = nav.NewService(cfg.Nav, lvl.Width, lvl.Height, w,
		nav.WithClock(w.now), nav.WithLog(log))
	w.nav.ForceRebuild()

	for i, es := range lvl.Enemies {
		label := es.Label
		if label == "" {
			label = fmt.Sprintf("E%d", i)
		}
		w.addEnemy(label, es, nav.V(es.X, es.Y))
	}

	speed := lvl.Player.Speed
	if speed == 0 {
		speed = cfg.Tactical.MoveSpeed
	}
	w.player = &Player{
		body:  w.phys.addAgent(nav.V(lvl.Player.X, lvl.Player.Y), cfg.Sim.AgentRadius),
		speed: speed,
		route: route(lvl.Player.Route),
	}
	log.Add(simlog.Global, "world", "load", fmt.Sprintf("%s %d obstacles %d enemies", lvl.Name, len(w.obstacles), len(w.enemies)), float64(len(w.obstacles)))
	return w
}

func (w *World) addEnemy(label string, es EnemySpec, pos nav.Vec2) {
	kind, _ := ai.ParseKind(es.Behavior)
	var b *ai.Behavior
	switch kind {
	case ai.KindPatrol:
		b = ai.NewPatrol(label, w.cfg.Tactical, route(es.Route))
	case ai.KindChase:
		b = ai.NewChase(label, w.cfg.Tactical)
	case ai.KindTactical:
		b = ai.NewTactical(label, w.cfg.Tactical)
	default:
		b = ai.NewStationary(label, w.cfg.Tactical)
	}
	w.enemies = append(w.enemies, &Enemy{
		Label:    label,
		Behavior: b,
		body:     w.phys.addAgent(pos, w.cfg.Sim.AgentRadius),
	})
}

func (w *World) dt() time.Duration { return time.Second / time.Duration(w.cfg.Sim.TPS) }

// now is the simulation clock: the epoch plus elapsed ticks.
func (w *World) now() time.Time { return simEpoch.Add(w.Elapsed()) }

// Elapsed returns simulated time since the world was built.
func (w *World) Elapsed() time.Duration { return time.Duration(w.tick) * w.dt() }

// Obstacles implements ai.World and nav.ObstacleSource. The returned slice
// is replaced, never mutated, when obstacles are removed.
func (w *World) Obstacles() []nav.Obstacle { return w.obstacles }

// LineOfSight implements ai.World with a physics segment query.
func (w *World) LineOfSight(a, b nav.Vec2) bool { return w.phys.segmentClear(a, b) }

// Fire implements ai.World.
func (w *World) Fire(from, to nav.Vec2) {
	w.shots = append(w.shots, Shot{Tick: w.tick, Shooter: w.firing, From: from, To: to})
}

// Step advances the world one tick.
func (w *World) Step() {
	w.tick++
	w.log.SetTick(w.tick)
	dt := w.dt()

	w.nav.EnsureFresh()
	w.updatePlayer()

	ctx := &ai.Context{
		Nav:       w.nav,
		World:     w,
		Avoidance: w.cfg.Avoidance,
		Threat:    w.player.Position(),
		HasThreat: true,
		Rng:       w.rng,
		Log:       w.log,
	}
	for _, e := range w.enemies {
		w.firing = e.Label
		e.Behavior.Update(e, ctx, dt)
	}
	w.firing = ""
	w.phys.step(dt.Seconds())
}

func (w *World) updatePlayer() {
	p := w.player
	if p.manual {
		p.body.setVelocity(p.input.Scale(p.speed))
		return
	}
	if len(p.route) == 0 {
		p.body.setVelocity(nav.Vec2{})
		return
	}
	pos := p.Position()
	if pos.Dist(p.route[p.index]) <= playerArrive {
		p.index = (p.index + 1) % len(p.route)
	}
	target := p.route[p.index]
	dir := w.nav.DirectionToGoal(pos, target, 1)
	if dir.IsZero() {
		dir = target.Sub(pos).Normalize()
	}
	p.body.setVelocity(dir.Scale(p.speed))
}

// SetPlayerInput switches the player to manual control. dir is scaled by
// the player's speed; a zero dir stops it.
func (w *World) SetPlayerInput(dir nav.Vec2) {
	w.player.manual = true
	w.player.input = dir.Normalize()
}

// PlayerManual reports whether input has taken over from the player's route.
func (w *World) PlayerManual() bool { return w.player.manual }

// RemoveObstacle deletes the obstacle with id from physics and the obstacle
// list. The planner sees the change at its next rebuild interval.
func (w *World) RemoveObstacle(id int) bool {
	i := slices.IndexFunc(w.obstacles, func(o nav.Obstacle) bool { return o.ID == id })
	if i < 0 || i < w.boundary {
		return false
	}
	removed := w.obstacles[i]
	w.obstacles = slices.Delete(slices.Clone(w.obstacles), i, i+1)
	w.phys.removeObstacle(id)
	w.log.Add(simlog.Global, "world", "obstacle_removed",
		fmt.Sprintf("%s #%d at (%.0f,%.0f)", removed.Category, id, removed.Rect.X, removed.Rect.Y), float64(id))
	return true
}

// RemoveObstacleAt removes the topmost non-boundary obstacle containing p.
func (w *World) RemoveObstacleAt(p nav.Vec2) (int, bool) {
	for i := len(w.obstacles) - 1; i >= w.boundary; i-- {
		if o := w.obstacles[i]; o.Rect.Contains(p) {
			return o.ID, w.RemoveObstacle(o.ID)
		}
	}
	return 0, false
}

// ForceRebuild rebuilds the walkability grid now and drops cached paths.
func (w *World) ForceRebuild() { w.nav.ForceRebuild() }

// Tick returns the number of steps taken.
func (w *World) Tick() int { return w.tick }

// Size returns the world dimensions in pixels.
func (w *World) Size() (float64, float64) { return w.level.Width, w.level.Height }

// Level returns the level the world was built from.
func (w *World) Level() *Level { return w.level }

// Config returns the world's settings.
func (w *World) Config() Config { return w.cfg }

// Enemies returns every enemy in level order.
func (w *World) Enemies() []*Enemy { return w.enemies }

// Enemy returns the enemy with label, or nil.
func (w *World) Enemy(label string) *Enemy {
	for _, e := range w.enemies {
		if e.Label == label {
			return e
		}
	}
	return nil
}

// Player returns the threat agent.
func (w *World) Player() *Player { return w.player }

// Shots returns every shot fired so far.
func (w *World) Shots() []Shot { return w.shots }

// Nav returns the world's planner.
func (w *World) Nav() *nav.Service { return w.nav }

// Log returns the world's event log.
func (w *World) Log() *simlog.Log { return w.log }
