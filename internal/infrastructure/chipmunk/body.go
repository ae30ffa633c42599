// Package chipmunk provides a physics collaborator backed by a Chipmunk2D space.
package chipmunk

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/younwookim/motionctl/internal/domain/entity"
)

const (
	collisionTypeBody cp.CollisionType = iota + 1
	collisionTypeSolid
)

// Body is a non-rotating dynamic box sliding through the stage's static geometry.
// The space has no gravity: the ability resolver owns every velocity change.
//
// cp integrates positions before it solves contacts, so the desired velocity is
// injected from the velocity update func and clipped by the solver. The solved
// velocity moves the box on the following step.
type Body struct {
	space *cp.Space
	body  *cp.Body
	shape *cp.Shape
	w, h  float64

	desired   entity.Vec2
	contacts  []entity.Contact
	onFloor   bool
	onWall    bool
	onCeiling bool
}

// New builds a space from stage and places a w x h box with its top-left at (x, y)
func New(stage *entity.Stage, x, y float64, w, h int) *Body {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: 0})
	addStageShapes(space, stage)

	b := &Body{space: space, w: float64(w), h: float64(h)}

	body := cp.NewBody(1, math.Inf(1))
	body.SetAngle(0)
	body.SetAngularVelocity(0)
	body.SetPosition(cp.Vector{X: x + b.w/2, Y: y + b.h/2})
	shape := cp.NewBox(body, b.w, b.h, 0)
	shape.SetFriction(0)
	shape.SetCollisionType(collisionTypeBody)
	body.SetVelocityUpdateFunc(func(body *cp.Body, _ cp.Vector, _ float64, _ float64) {
		body.SetVelocity(b.desired.X, b.desired.Y)
	})
	space.AddBody(body)
	space.AddShape(shape)
	b.body = body
	b.shape = shape

	handler := space.NewCollisionHandler(collisionTypeBody, collisionTypeSolid)
	handler.UserData = b
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		self, ok := userData.(*Body)
		if !ok || self == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		if shapeA != self.shape && shapeB != self.shape {
			return true
		}
		// Arbiter normal points from A to B; flip it to point away from the surface
		n := arb.Normal()
		if shapeA == self.shape {
			n = n.Neg()
		}
		self.record(entity.Vec2{X: n.X, Y: n.Y})
		return true
	}

	return b
}

// record keeps a contact the body is pressing into, so resting overlap left by
// the solver does not hold a surface the body is moving away from.
func (b *Body) record(n entity.Vec2) {
	switch {
	case n.Y < -0.5:
		if b.desired.Y < 0 {
			return
		}
		b.onFloor = true
	case n.Y > 0.5:
		if b.desired.Y >= 0 {
			return
		}
		b.onCeiling = true
	case math.Abs(n.X) > 0.5:
		if b.desired.X*n.X >= 0 {
			return
		}
		b.onWall = true
	default:
		return
	}
	b.contacts = append(b.contacts, entity.Contact{Normal: n})
}

// MoveAndSlide steps the space with the desired velocity and reports the solved result
func (b *Body) MoveAndSlide(velocity entity.Vec2, dt float64) (entity.Vec2, entity.Vec2) {
	b.onFloor = false
	b.onWall = false
	b.onCeiling = false
	b.contacts = b.contacts[:0]
	b.desired = velocity

	b.space.Step(dt)

	v := b.body.Velocity()
	return entity.Vec2{X: v.X, Y: v.Y}, b.Position()
}

// IsOnFloor reports floor contact after the last MoveAndSlide
func (b *Body) IsOnFloor() bool { return b.onFloor }

// IsOnWall reports wall contact after the last MoveAndSlide
func (b *Body) IsOnWall() bool { return b.onWall }

// IsOnCeiling reports ceiling contact after the last MoveAndSlide
func (b *Body) IsOnCeiling() bool { return b.onCeiling }

// SlideContacts returns the contacts in the order the solver reported them
func (b *Body) SlideContacts() []entity.Contact { return b.contacts }

// Position returns the top-left corner in pixels
func (b *Body) Position() entity.Vec2 {
	p := b.body.Position()
	return entity.Vec2{X: p.X - b.w/2, Y: p.Y - b.h/2}
}

// Teleport moves the box without collision and stops it
func (b *Body) Teleport(x, y float64) {
	b.desired = entity.Vec2{}
	b.body.SetPosition(cp.Vector{X: x + b.w/2, Y: y + b.h/2})
	b.body.SetVelocity(0, 0)
}

// Place teleports the box to pos
func (b *Body) Place(pos entity.Vec2) { b.Teleport(pos.X, pos.Y) }
