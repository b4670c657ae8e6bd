// Package ai drives enemy agents: stationary turrets, patrols, chasers and
// cover-seeking tactical shooters, on top of the nav planner and steering.
package ai

import (
	"math/rand"
	"time"

	"github.com/Garsondee/cover-shooter/internal/nav"
	"github.com/Garsondee/cover-shooter/internal/simlog"
)

// Agent is the host's handle on one simulated body. The core reads the
// position and writes a velocity once per tick; the host integrates motion.
type Agent interface {
	Position() nav.Vec2
	SetVelocity(v nav.Vec2)
}

// World is the host's view of static geometry and weapon fire.
type World interface {
	// Obstacles returns every static obstacle footprint, current at call time.
	Obstacles() []nav.Obstacle
	// LineOfSight reports whether the segment a→b is clear of static obstacles.
	LineOfSight(a, b nav.Vec2) bool
	// Fire issues one shot from an agent toward a target point.
	Fire(from, to nav.Vec2)
}

// Context bundles the per-tick services a behaviour may call.
type Context struct {
	Nav       *nav.Service // optional; without it agents steer straight at targets
	World     World
	Avoidance nav.AvoidanceConfig
	Threat    nav.Vec2
	HasThreat bool
	Rng       *rand.Rand
	Log       *simlog.Log
}

// Kind identifies a behaviour variant.
type Kind int

const (
	KindStationary Kind = iota // holds position, fires when the threat is visible
	KindPatrol                 // loops a waypoint route
	KindChase                  // closes on the threat
	KindTactical               // seeks cover, peeks, shoots
)

func (k Kind) String() string {
	switch k {
	case KindStationary:
		return "stationary"
	case KindPatrol:
		return "patrol"
	case KindChase:
		return "chase"
	case KindTactical:
		return "tactical"
	default:
		return "unknown"
	}
}

// ParseKind maps a level-file name to a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range []Kind{KindStationary, KindPatrol, KindChase, KindTactical} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Behavior is a tagged union of the behaviour variants. Exactly the state
// pointer matching Kind is non-nil; every variant shares one shooter.
type Behavior struct {
	Kind   Kind
	Patrol *PatrolState
	Chase  *ChaseState
	Cover  *CoverState

	cfg   Config
	gun   shooter
	label string
}

// NewStationary builds a behaviour that holds still and fires on sight.
func NewStationary(label string, cfg Config) *Behavior {
	return &Behavior{Kind: KindStationary, cfg: cfg, gun: newShooter(cfg.ShootCooldown), label: label}
}

// NewPatrol builds a behaviour that walks route in a loop.
func NewPatrol(label string, cfg Config, route []nav.Vec2) *Behavior {
	return &Behavior{
		Kind:   KindPatrol,
		Patrol: &PatrolState{Route: append([]nav.Vec2(nil), route...)},
		cfg:    cfg,
		gun:    newShooter(cfg.ShootCooldown),
		label:  label,
	}
}

// NewChase builds a behaviour that closes on the threat.
func NewChase(label string, cfg Config) *Behavior {
	return &Behavior{Kind: KindChase, Chase: &ChaseState{}, cfg: cfg, gun: newShooter(cfg.ShootCooldown), label: label}
}

// NewTactical builds a cover-seeking behaviour.
func NewTactical(label string, cfg Config) *Behavior {
	return &Behavior{Kind: KindTactical, Cover: &CoverState{}, cfg: cfg, gun: newShooter(cfg.ShootCooldown), label: label}
}

// Label returns the agent label used in log entries.
func (b *Behavior) Label() string { return b.label }

// Cooldown returns the time left until the behaviour may fire again.
func (b *Behavior) Cooldown() time.Duration { return b.gun.cooldown }

// Shots returns how many shots the behaviour has fired.
func (b *Behavior) Shots() int { return b.gun.shots }

// Update runs one tick of the behaviour for agent.
func (b *Behavior) Update(agent Agent, ctx *Context, dt time.Duration) {
	b.gun.tick(dt)
	switch b.Kind {
	case KindStationary:
		agent.SetVelocity(nav.Vec2{})
	case KindPatrol:
		b.updatePatrol(agent, ctx)
	case KindChase:
		b.updateChase(agent, ctx)
	case KindTactical:
		b.updateTactical(agent, ctx)
	}
	if ctx.HasThreat {
		b.gun.tryFire(b.label, agent.Position(), ctx)
	}
}

// PatrolState is the route and progress of a patrolling agent.
type PatrolState struct {
	Route []nav.Vec2
	Index int
	Laps  int
}

func (b *Behavior) updatePatrol(agent Agent, ctx *Context) {
	p := b.Patrol
	if len(p.Route) == 0 {
		agent.SetVelocity(nav.Vec2{})
		return
	}
	pos := agent.Position()
	// Patrol waypoints are loose; half a cell is close enough.
	arrive := b.cfg.Deadzone
	if ctx.Nav != nil {
		arrive = max(arrive, ctx.Nav.CellSize()/2)
	}
	if pos.Dist(p.Route[p.Index]) <= arrive {
		p.Index = (p.Index + 1) % len(p.Route)
		if p.Index == 0 {
			p.Laps++
		}
		ctx.Log.AddVerbose(b.label, "patrol", "waypoint", fmtPoint(p.Route[p.Index]), float64(p.Index))
	}
	moveToward(agent, pos, p.Route[p.Index], b.cfg, ctx)
}

// ChaseState tracks whether a chaser has closed to its stop range.
type ChaseState struct {
	InRange bool
}

func (b *Behavior) updateChase(agent Agent, ctx *Context) {
	c := b.Chase
	if !ctx.HasThreat {
		agent.SetVelocity(nav.Vec2{})
		return
	}
	pos := agent.Position()
	inRange := pos.Dist(ctx.Threat) <= b.cfg.ChaseStopDistance &&
		ctx.World.LineOfSight(pos, ctx.Threat)
	if inRange != c.InRange {
		c.InRange = inRange
		key := "closing"
		if inRange {
			key = "in_range"
		}
		ctx.Log.Add(b.label, "chase", key, fmtPoint(ctx.Threat), pos.Dist(ctx.Threat))
	}
	if inRange {
		agent.SetVelocity(nav.Vec2{})
		return
	}
	moveToward(agent, pos, ctx.Threat, b.cfg, ctx)
}
