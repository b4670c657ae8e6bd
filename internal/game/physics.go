package game

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/Garsondee/cover-shooter/internal/nav"
)

// Shape filter categories. Agents collide with obstacles but not with each
// other, and sight queries only see obstacles.
const (
	categoryObstacle uint = 1 << iota
	categoryAgent
)

const allCategories = ^uint(0)

var sightFilter = cp.ShapeFilter{Group: 0, Categories: allCategories, Mask: categoryObstacle}

// physics owns the chipmunk space: one static box per obstacle and one
// jointed circle per agent. Bodies never rotate.
type physics struct {
	space     *cp.Space
	obstacles map[int]*cp.Shape
}

func newPhysics() *physics {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})
	return &physics{space: space, obstacles: make(map[int]*cp.Shape)}
}

func (p *physics) addObstacle(o nav.Obstacle) {
	bb := cp.BB{L: o.Rect.X, B: o.Rect.Y, R: o.Rect.X + o.Rect.W, T: o.Rect.Y + o.Rect.H}
	shape := cp.NewBox2(p.space.StaticBody, bb, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetFilter(cp.ShapeFilter{Group: 0, Categories: categoryObstacle, Mask: allCategories})
	shape.UserData = o.ID
	p.space.AddShape(shape)
	p.obstacles[o.ID] = shape
}

func (p *physics) removeObstacle(id int) bool {
	shape, ok := p.obstacles[id]
	if !ok {
		return false
	}
	p.space.RemoveShape(shape)
	delete(p.obstacles, id)
	return true
}

// agentMaxForce bounds how hard an agent's control joint can push. Contact
// impulses are unbounded, so walls always win.
const agentMaxForce = 10000

// agentBody is a dynamic circle dragged by a kinematic control body through a
// pivot joint. Movement sets the control body's velocity; the solver then
// reconciles the joint with obstacle contacts in the same pass.
type agentBody struct {
	body    *cp.Body
	control *cp.Body
}

func (p *physics) addAgent(pos nav.Vec2, radius float64) *agentBody {
	control := p.space.AddBody(cp.NewKinematicBody())
	control.SetPosition(toCP(pos))

	body := p.space.AddBody(cp.NewBody(1, math.Inf(1)))
	body.SetPosition(toCP(pos))
	shape := p.space.AddShape(cp.NewCircle(body, radius, cp.Vector{}))
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetFilter(cp.ShapeFilter{Group: 0, Categories: categoryAgent, Mask: categoryObstacle})

	pivot := p.space.AddConstraint(cp.NewPivotJoint2(control, body, cp.Vector{}, cp.Vector{}))
	pivot.SetMaxBias(0)
	pivot.SetMaxForce(agentMaxForce)
	return &agentBody{body: body, control: control}
}

func (a *agentBody) position() nav.Vec2 { return toVec(a.body.Position()) }

// setVelocity commands the agent; the body follows unless a contact stops it.
func (a *agentBody) setVelocity(v nav.Vec2) { a.control.SetVelocityVector(toCP(v)) }

// commanded returns the last velocity passed to setVelocity.
func (a *agentBody) commanded() nav.Vec2 { return toVec(a.control.Velocity()) }

// actual returns the solved velocity of the dynamic body.
func (a *agentBody) actual() nav.Vec2 { return toVec(a.body.Velocity()) }

// segmentClear casts a thin segment against obstacle shapes only.
func (p *physics) segmentClear(a, b nav.Vec2) bool {
	info := p.space.SegmentQueryFirst(toCP(a), toCP(b), 0, sightFilter)
	return info.Shape == nil
}

func (p *physics) step(dt float64) {
	p.space.Step(dt)
}

func toVec(v cp.Vector) nav.Vec2 { return nav.V(v.X, v.Y) }

func toCP(v nav.Vec2) cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }
