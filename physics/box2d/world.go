// Package box2d runs debris sessions on the Box2D port at
// github.com/ByteArena/box2d.
package box2d

import (
	"fmt"
	"iter"

	b2 "github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"
	"github.com/plus3/debrisfall/debris"
)

// World adapts a b2.B2World to debris.World. Every Box2D body carries the id
// of its handle as user data, so contacts resolve back to handles.
type World struct {
	world   b2.B2World
	nextID  uint32
	order   []uint32
	bodies  *intmap.Map[uint32, *Body]
	handler debris.ContactHandler
}

// New creates an empty Box2D world.
func New(gravity mgl64.Vec2) *World {
	w := &World{
		world:  b2.MakeB2World(vec(gravity)),
		bodies: intmap.New[uint32, *Body](64),
	}
	w.world.SetContactListener(&contactListener{world: w})
	return w
}

// NewWorld matches debris.NewWorldFunc.
func NewWorld(gravity mgl64.Vec2) debris.World {
	return New(gravity)
}

func (w *World) CreateBody(def debris.BodyDef) debris.Body {
	w.nextID++
	id := w.nextID

	bd := b2.MakeB2BodyDef()
	bd.Type = bodyType(def.Type)
	bd.Position = vec(def.Position)
	bd.Angle = def.Angle
	bd.UserData = id

	raw := w.world.CreateBody(&bd)

	fd := b2.MakeB2FixtureDef()
	fd.Shape = makeShape(def.Shape)
	fd.Density = def.Material.Density
	fd.Friction = def.Material.Friction
	fd.Restitution = def.Material.Restitution
	raw.CreateFixtureFromDef(&fd)

	body := &Body{id: id, raw: raw, def: def}
	w.order = append(w.order, id)
	w.bodies.Put(id, body)
	return body
}

func (w *World) Step(dt float64, velocityIterations, positionIterations int) {
	w.world.Step(dt, velocityIterations, positionIterations)
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
		if body, ok := w.bodies.Get(id); ok {
			w.world.DestroyBody(body.raw)
		}
	}
	w.bodies.Clear()
	w.order = nil
}

// BodyCount is the number of bodies in the underlying Box2D world.
func (w *World) BodyCount() int {
	return w.world.GetBodyCount()
}

func (w *World) lookup(raw *b2.B2Body) *Body {
	id, ok := raw.GetUserData().(uint32)
	if !ok {
		return nil
	}
	body, _ := w.bodies.Get(id)
	return body
}

func (w *World) dispatch(kind debris.ContactKind, contact b2.B2ContactInterface) {
	if w.handler == nil {
		return
	}

	a := w.lookup(contact.GetFixtureA().GetBody())
	b := w.lookup(contact.GetFixtureB().GetBody())
	if a == nil || b == nil {
		return
	}

	w.handler(debris.ContactEvent{Kind: kind, A: a, B: b})
}

type contactListener struct {
	world *World
}

func (l *contactListener) BeginContact(contact b2.B2ContactInterface) {
	l.world.dispatch(debris.ContactBegin, contact)
}

func (l *contactListener) EndContact(contact b2.B2ContactInterface) {
	l.world.dispatch(debris.ContactEnd, contact)
}

func (l *contactListener) PreSolve(contact b2.B2ContactInterface, oldManifold b2.B2Manifold) {}

func (l *contactListener) PostSolve(contact b2.B2ContactInterface, impulse *b2.B2ContactImpulse) {}

// Body is a handle to a Box2D body.
type Body struct {
	id  uint32
	raw *b2.B2Body
	def debris.BodyDef
}

func (b *Body) Type() debris.BodyType { return b.def.Type }
func (b *Body) Shape() debris.Shape { return b.def.Shape }
func (b *Body) UserData() any { return b.def.UserData }
func (b *Body) Angle() float64 { return b.raw.GetAngle() }

func (b *Body) Position() mgl64.Vec2 {
	p := b.raw.GetPosition()
	return mgl64.Vec2{p.X, p.Y}
}

func (b *Body) LinearVelocity() mgl64.Vec2 {
	v := b.raw.GetLinearVelocity()
	return mgl64.Vec2{v.X, v.Y}
}

func (b *Body) ApplyLinearImpulse(impulse mgl64.Vec2) {
	b.raw.ApplyLinearImpulse(vec(impulse), b.raw.GetWorldCenter(), true)
}

// Mass is the mass Box2D derived from the fixture density.
func (b *Body) Mass() float64 {
	return b.raw.GetMass()
}

func bodyType(t debris.BodyType) uint8 {
	switch t {
	case debris.StaticBody:
		return b2.B2BodyType.B2_staticBody
	case debris.DynamicBody:
		return b2.B2BodyType.B2_dynamicBody
	default:
		panic(fmt.Sprintf("unsupported body type %v", t))
	}
}

func makeShape(shape debris.Shape) b2.B2ShapeInterface {
	switch s := shape.(type) {
	case debris.Box:
		poly := b2.MakeB2PolygonShape()
		poly.SetAsBoxFromCenterAndAngle(s.HalfExtents.X(), s.HalfExtents.Y(), vec(s.Center), s.Angle)
		return &poly
	case debris.Circle:
		circle := b2.MakeB2CircleShape()
		circle.M_radius = s.Radius
		return &circle
	case debris.Polygon:
		verts := make([]b2.B2Vec2, len(s.Vertices))
		for i, v := range s.Vertices {
			verts[i] = vec(v)
		}
		poly := b2.MakeB2PolygonShape()
		poly.Set(verts, len(verts))
		return &poly
	default:
		panic(fmt.Sprintf("unsupported shape %T", shape))
	}
}

func vec(v mgl64.Vec2) b2.B2Vec2 {
	return b2.MakeB2Vec2(v.X(), v.Y())
}
