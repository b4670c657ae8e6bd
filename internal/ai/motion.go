package ai

import (
	"fmt"
	"time"

	"github.com/Garsondee/cover-shooter/internal/nav"
)

// moveToward writes a velocity carrying the agent at pos toward target and
// reports whether it is already inside the deadzone. Short hops steer
// straight at the target; longer ones follow the planner, falling back to a
// straight line when no path exists. Either way the result passes through
// obstacle avoidance.
func moveToward(agent Agent, pos, target nav.Vec2, cfg Config, ctx *Context) bool {
	dist := pos.Dist(target)
	if dist <= cfg.Deadzone {
		agent.SetVelocity(nav.Vec2{})
		return true
	}

	var dir nav.Vec2
	if dist > cfg.DirectMoveDistance && ctx.Nav != nil {
		dir = ctx.Nav.DirectionToGoal(pos, target, 1)
	}
	if dir.IsZero() {
		dir = target.Sub(pos).Normalize()
	}
	desired := dir.Scale(cfg.MoveSpeed)
	agent.SetVelocity(nav.ApplyObstacleAvoidance(pos, desired, ctx.World.Obstacles(), ctx.Avoidance))
	return false
}

// shooter gates fire on a cooldown and line of sight.
type shooter struct {
	base     time.Duration
	cooldown time.Duration
	shots    int
}

func newShooter(base time.Duration) shooter {
	return shooter{base: base}
}

func (s *shooter) tick(dt time.Duration) {
	if s.cooldown > 0 {
		s.cooldown -= dt
	}
}

func (s *shooter) ready() bool { return s.cooldown <= 0 }

// tryFire shoots at the threat when ready and the line of sight is clear,
// then re-arms with the base cooldown scaled by a random factor in [0.8,1.2].
func (s *shooter) tryFire(label string, pos nav.Vec2, ctx *Context) bool {
	if !s.ready() {
		return false
	}
	if !ctx.World.LineOfSight(pos, ctx.Threat) {
		return false
	}
	ctx.World.Fire(pos, ctx.Threat)
	s.shots++
	mul := 1.0
	if ctx.Rng != nil {
		mul = 0.8 + ctx.Rng.Float64()*0.4
	}
	s.cooldown = time.Duration(float64(s.base) * mul)
	ctx.Log.Add(label, "shot", "fire", fmt.Sprintf("at %s next in %v", fmtPoint(ctx.Threat), s.cooldown.Round(time.Millisecond)), pos.Dist(ctx.Threat))
	return true
}

func fmtPoint(p nav.Vec2) string {
	return fmt.Sprintf("(%.0f,%.0f)", p.X, p.Y)
}
