// Package chipmunk runs debris sessions on github.com/jakecoffman/cp, a Go
// port of Chipmunk2D.
package chipmunk

import (
	"fmt"
	"iter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/kamstrup/intmap"
	"github.com/plus3/debrisfall/debris"
)

// Every shape shares one collision type so a single pair handler sees all
// begin and separate callbacks exactly once per pair.
const collisionTypeBody cp.CollisionType = 1

// World adapts a cp.Space to debris.World. Body.UserData holds the handle id.
type World struct {
	space   *cp.Space
	nextID  uint32
	order   []uint32
	bodies  *intmap.Map[uint32, *Body]
	handler debris.ContactHandler
}

// New creates an empty space with the given gravity.
func New(gravity mgl64.Vec2) *World {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{X: gravity.X(), Y: gravity.Y()})

	w := &World{
		space:  space,
		bodies: intmap.New[uint32, *Body](64),
	}

	handler := space.NewCollisionHandler(collisionTypeBody, collisionTypeBody)
	handler.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		w.dispatch(debris.ContactBegin, arb)
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
		w.dispatch(debris.ContactEnd, arb)
	}

	return w
}

// NewWorld matches debris.NewWorldFunc.
func NewWorld(gravity mgl64.Vec2) debris.World {
	return New(gravity)
}

func (w *World) CreateBody(def debris.BodyDef) debris.Body {
	w.nextID++
	id := w.nextID

	var raw *cp.Body
	switch def.Type {
	case debris.StaticBody:
		raw = cp.NewStaticBody()
	case debris.DynamicBody:
		mass := def.Material.Density * def.Shape.Area()
		raw = cp.NewBody(mass, moment(mass, def.Shape))
	default:
		panic(fmt.Sprintf("unsupported body type %v", def.Type))
	}
	raw.SetPosition(cp.Vector{X: def.Position.X(), Y: def.Position.Y()})
	raw.SetAngle(def.Angle)
	raw.UserData = id
	w.space.AddBody(raw)

	shape := w.space.AddShape(makeShape(raw, def.Shape))
	shape.SetFriction(def.Material.Friction)
	shape.SetElasticity(def.Material.Restitution)
	shape.SetCollisionType(collisionTypeBody)

	body := &Body{id: id, raw: raw, shape: shape, def: def}
	w.order = append(w.order, id)
	w.bodies.Put(id, body)
	return body
}

// Step advances the space once. Chipmunk has a single iteration count, so
// the larger of the two requested counts is used.
func (w *World) Step(dt float64, velocityIterations, positionIterations int) {
	w.space.Iterations = uint(max(velocityIterations, positionIterations))
	w.space.Step(dt)
}

func (w *World) SetContactHandler(handler debris.ContactHandler) {
	w.handler = handler
}

func (w *World) Bodies() iter.Seq[debris.Body] {
	return func(yield func(debris.Body) bool) {
		for _, id := range w.order {
			body, ok := w.bodies.Get(id)
			if !ok {
				continue
			}
			if !yield(body) {
				return
			}
		}
	}
}

func (w *World) Destroy() {
	for _, id := range w.order {
		body, ok := w.bodies.Get(id)
		if !ok {
			continue
		}
		w.space.RemoveShape(body.shape)
		w.space.RemoveBody(body.raw)
	}
	w.bodies.Clear()
	w.order = nil
}

// BodyCount is the number of bodies created through w that are still in
// the space.
func (w *World) BodyCount() int {
	n := 0
	w.space.EachBody(func(body *cp.Body) {
		if _, ok := body.UserData.(uint32); ok {
			n++
		}
	})
	return n
}

func (w *World) dispatch(kind debris.ContactKind, arb *cp.Arbiter) {
	if w.handler == nil {
		return
	}

	rawA, rawB := arb.Bodies()
	a, b := w.lookup(rawA), w.lookup(rawB)
	if a == nil || b == nil {
		return
	}

	w.handler(debris.ContactEvent{Kind: kind, A: a, B: b})
}

func (w *World) lookup(raw *cp.Body) *Body {
	id, ok := raw.UserData.(uint32)
	if !ok {
		return nil
	}
	body, _ := w.bodies.Get(id)
	return body
}

// Body is a handle to a Chipmunk body and its single shape.
type Body struct {
	id    uint32
	raw   *cp.Body
	shape *cp.Shape
	def   debris.BodyDef
}

func (b *Body) Type() debris.BodyType { return b.def.Type }
func (b *Body) Shape() debris.Shape { return b.def.Shape }
func (b *Body) UserData() any { return b.def.UserData }
func (b *Body) Angle() float64 { return b.raw.Angle() }

func (b *Body) Position() mgl64.Vec2 {
	p := b.raw.Position()
	return mgl64.Vec2{p.X, p.Y}
}

func (b *Body) LinearVelocity() mgl64.Vec2 {
	v := b.raw.Velocity()
	return mgl64.Vec2{v.X, v.Y}
}

func (b *Body) ApplyLinearImpulse(impulse mgl64.Vec2) {
	if b.def.Type != debris.DynamicBody {
		return
	}
	center := b.raw.LocalToWorld(b.raw.CenterOfGravity())
	b.raw.ApplyImpulseAtWorldPoint(cp.Vector{X: impulse.X(), Y: impulse.Y()}, center)
	b.raw.Activate()
}

// Mass is the body mass derived from density and shape area.
func (b *Body) Mass() float64 {
	return b.raw.Mass()
}

func moment(mass float64, shape debris.Shape) float64 {
	switch s := shape.(type) {
	case debris.Circle:
		return cp.MomentForCircle(mass, 0, s.Radius, cp.Vector{})
	case debris.Box:
		verts := vectors(s.Vertices())
		return cp.MomentForPoly(mass, len(verts), verts, cp.Vector{}, 0)
	case debris.Polygon:
		verts := vectors(s.Vertices)
		return cp.MomentForPoly(mass, len(verts), verts, cp.Vector{}, 0)
	default:
		panic(fmt.Sprintf("unsupported shape %T", shape))
	}
}

func makeShape(body *cp.Body, shape debris.Shape) *cp.Shape {
	switch s := shape.(type) {
	case debris.Circle:
		return cp.NewCircle(body, s.Radius, cp.Vector{})
	case debris.Box:
		if s.Angle == 0 {
			c, h := s.Center, s.HalfExtents
			return cp.NewBox2(body, cp.BB{
				L: c.X() - h.X(), B: c.Y() - h.Y(),
				R: c.X() + h.X(), T: c.Y() + h.Y(),
			}, 0)
		}
		verts := vectors(s.Vertices())
		return cp.NewPolyShape(body, len(verts), verts, cp.NewTransformIdentity(), 0)
	case debris.Polygon:
		verts := vectors(s.Vertices)
		return cp.NewPolyShape(body, len(verts), verts, cp.NewTransformIdentity(), 0)
	default:
		panic(fmt.Sprintf("unsupported shape %T", shape))
	}
}

func vectors(vs []mgl64.Vec2) []cp.Vector {
	out := make([]cp.Vector, len(vs))
	for i, v := range vs {
		out[i] = cp.Vector{X: v.X(), Y: v.Y()}
	}
	return out
}
