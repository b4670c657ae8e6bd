package ai

import (
	"fmt"
	"math"

	"github.com/Garsondee/cover-shooter/internal/nav"
)

// Phase is the tactical agent's position in its cover cycle.
type Phase int

const (
	PhaseNoCover  Phase = iota // no usable obstacle; hold position
	PhaseCovering              // moving to or holding the hidden spot
	PhasePeeking               // moving to or holding the exposed spot
)

func (p Phase) String() string {
	switch p {
	case PhaseNoCover:
		return "no_cover"
	case PhaseCovering:
		return "covering"
	case PhasePeeking:
		return "peeking"
	default:
		return "unknown"
	}
}

// CoverState is the per-agent state of the tactical behaviour.
type CoverState struct {
	Cover *nav.Obstacle // selected cover, nil when none
	Phase Phase

	Acquired int // times a new cover was chosen
	Peeks    int // transitions into PhasePeeking
}

// CoverPosition returns the spot directly opposite the threat, just beyond
// the obstacle's far edge.
func CoverPosition(cover nav.Obstacle, threat nav.Vec2, coverDistance float64) nav.Vec2 {
	c := cover.Center()
	away := threatAxis(c, threat)
	return c.Add(away.Scale(cover.Rect.W/2 + coverDistance))
}

// PeekPosition offsets the cover spot sideways, perpendicular to the
// threat→obstacle axis, so line of sight opens without leaving the obstacle.
func PeekPosition(cover nav.Obstacle, threat nav.Vec2, coverDistance, peekDistance float64) nav.Vec2 {
	away := threatAxis(cover.Center(), threat)
	return CoverPosition(cover, threat, coverDistance).Add(away.Perp().Scale(cover.Rect.W/2 + peekDistance))
}

// threatAxis is the unit vector from the threat to the obstacle centre.
// A threat sitting on the centre yields +x.
func threatAxis(center, threat nav.Vec2) nav.Vec2 {
	away := center.Sub(threat).Normalize()
	if away.IsZero() {
		return nav.V(1, 0)
	}
	return away
}

// NearestCover picks the closest cover-category obstacle to pos, skipping
// the obstacle with id skip (use -1 to consider all).
func NearestCover(pos nav.Vec2, obstacles []nav.Obstacle, skip int) (nav.Obstacle, bool) {
	var best nav.Obstacle
	bestD := math.MaxFloat64
	found := false
	for _, o := range obstacles {
		if !o.IsCover() || o.ID == skip {
			continue
		}
		if d := pos.Dist(o.Center()); d < bestD {
			bestD = d
			best = o
			found = true
		}
	}
	return best, found
}

func (b *Behavior) updateTactical(agent Agent, ctx *Context) {
	cs := b.Cover
	if !ctx.HasThreat {
		agent.SetVelocity(nav.Vec2{})
		return
	}
	pos := agent.Position()
	obstacles := ctx.World.Obstacles()
	b.refreshCover(pos, obstacles, ctx)

	if cs.Cover == nil {
		b.setPhase(PhaseNoCover, ctx)
		agent.SetVelocity(nav.Vec2{})
		return
	}

	var target nav.Vec2
	if b.gun.ready() {
		b.setPhase(PhasePeeking, ctx)
		target = PeekPosition(*cs.Cover, ctx.Threat, b.cfg.CoverDistance, b.cfg.PeekDistance)
	} else {
		b.setPhase(PhaseCovering, ctx)
		target = CoverPosition(*cs.Cover, ctx.Threat, b.cfg.CoverDistance)
	}
	moveToward(agent, pos, target, b.cfg, ctx)
}

// refreshCover keeps the current cover while it still exists and the agent
// has not drifted past the reselect distance. With ExposureCheck on, an
// agent holding its hidden spot in plain sight of the threat also looks for
// another obstacle.
func (b *Behavior) refreshCover(pos nav.Vec2, obstacles []nav.Obstacle, ctx *Context) {
	cs := b.Cover
	if cs.Cover != nil && !containsObstacle(obstacles, cs.Cover.ID) {
		ctx.Log.Add(b.label, "tactical", "cover_lost", fmt.Sprintf("cover #%d removed", cs.Cover.ID), float64(cs.Cover.ID))
		cs.Cover = nil
	}

	skip := -1
	switch {
	case cs.Cover == nil:
	case pos.Dist(cs.Cover.Center()) > b.cfg.ReselectDistance:
	case b.cfg.ExposureCheck && b.exposed(pos, ctx):
		skip = cs.Cover.ID
	default:
		return
	}

	next, ok := NearestCover(pos, obstacles, skip)
	if !ok {
		if skip >= 0 {
			return // nothing better than the exposed cover
		}
		cs.Cover = nil
		return
	}
	if cs.Cover != nil && cs.Cover.ID == next.ID {
		return
	}
	cs.Cover = &next
	cs.Acquired++
	ctx.Log.Add(b.label, "tactical", "cover_acquired",
		fmt.Sprintf("cover #%d at %s", next.ID, fmtPoint(next.Center())), pos.Dist(next.Center()))
}

// exposed reports whether an agent parked on its hidden spot can still be
// seen by the threat.
func (b *Behavior) exposed(pos nav.Vec2, ctx *Context) bool {
	if b.Cover.Phase != PhaseCovering {
		return false
	}
	hide := CoverPosition(*b.Cover.Cover, ctx.Threat, b.cfg.CoverDistance)
	if pos.Dist(hide) > b.cfg.Deadzone {
		return false
	}
	return ctx.World.LineOfSight(ctx.Threat, pos)
}

func (b *Behavior) setPhase(p Phase, ctx *Context) {
	cs := b.Cover
	if cs.Phase == p {
		return
	}
	cs.Phase = p
	if p == PhasePeeking {
		cs.Peeks++
	}
	detail := p.String()
	if cs.Cover != nil {
		detail = fmt.Sprintf("%s cover #%d", p, cs.Cover.ID)
	}
	ctx.Log.Add(b.label, "tactical", "phase", detail, float64(p))
}

func containsObstacle(obstacles []nav.Obstacle, id int) bool {
	for _, o := range obstacles {
		if o.ID == id {
			return true
		}
	}
	return false
}
