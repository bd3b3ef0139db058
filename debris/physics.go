package debris

import (
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType distinguishes immovable bodies from simulated ones.
type BodyType uint8

const (
	StaticBody BodyType = iota
	DynamicBody
)

func (t BodyType) String() string {
	switch t {
	case StaticBody:
		return "static"
	case DynamicBody:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Shape is a collision shape in body-local coordinates.
// Implementations are Box, Circle and Polygon.
type Shape interface {
	// Area is used by backends that derive mass from density.
	Area() float64
	valid() bool
}

// Box is a rectangle given by its half extents, optionally offset from the
// body origin and rotated about its own centre.
type Box struct {
	HalfExtents mgl64.Vec2
	Center      mgl64.Vec2
	Angle       float64
}

func (b Box) Area() float64 {
	return 4 * b.HalfExtents.X() * b.HalfExtents.Y()
}

func (b Box) valid() bool {
	return positiveFinite(b.HalfExtents.X()) && positiveFinite(b.HalfExtents.Y()) &&
		finite(b.Center.X()) && finite(b.Center.Y()) && finite(b.Angle)
}

// Vertices returns the four corners in body-local coordinates, counter
// clockwise starting at the bottom-left.
func (b Box) Vertices() []mgl64.Vec2 {
	hx, hy := b.HalfExtents.X(), b.HalfExtents.Y()
	rot := mgl64.Rotate2D(b.Angle)
	corners := []mgl64.Vec2{{-hx, -hy}, {hx, -hy}, {hx, hy}, {-hx, hy}}
	for i, c := range corners {
		corners[i] = rot.Mul2x1(c).Add(b.Center)
	}
	return corners
}

// Circle is a disc centred on the body origin.
type Circle struct {
	Radius float64
}

func (c Circle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}

func (c Circle) valid() bool {
	return positiveFinite(c.Radius)
}

// Polygon is a convex polygon with counter clockwise vertices.
type Polygon struct {
	Vertices []mgl64.Vec2
}

func (p Polygon) Area() float64 {
	area := 0.0
	for i := range p.Vertices {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%len(p.Vertices)]
		area += a.X()*b.Y() - b.X()*a.Y()
	}
	return area / 2
}

func (p Polygon) valid() bool {
	if len(p.Vertices) < 3 {
		return false
	}
	for _, v := range p.Vertices {
		if !finite(v.X()) || !finite(v.Y()) {
			return false
		}
	}
	return p.Area() > 0
}

// Material is the fixture profile attached to a body's shape.
type Material struct {
	Density     float64
	Friction    float64
	Restitution float64
}

var (
	// DynamicMaterial is shared by the player, every debris body and the door.
	DynamicMaterial = Material{Density: 1.0, Friction: 0.3, Restitution: 0}
	// StaticMaterial is used for the floor and walls.
	StaticMaterial = Material{Density: 1.0, Friction: 0.2, Restitution: 0}
)

// BodyDef describes a body to be created by a World.
type BodyDef struct {
	Type     BodyType
	Position mgl64.Vec2
	Angle    float64
	Shape    Shape
	Material Material
	UserData any
}

// Body is a handle to a rigid body owned by a World. The session keeps
// handles but never frees them; they die with their World.
type Body interface {
	Type() BodyType
	Shape() Shape
	Position() mgl64.Vec2
	Angle() float64
	LinearVelocity() mgl64.Vec2
	UserData() any
	// ApplyLinearImpulse applies an impulse at the centre of mass and wakes
	// the body.
	ApplyLinearImpulse(impulse mgl64.Vec2)
}

// ContactKind tells whether two bodies started or stopped touching.
type ContactKind uint8

const (
	ContactBegin ContactKind = iota
	ContactEnd
)

func (k ContactKind) String() string {
	if k == ContactBegin {
		return "begin"
	}
	return "end"
}

// ContactEvent is one begin or end notification between two bodies.
type ContactEvent struct {
	Kind ContactKind
	A, B Body
}

// Involves reports whether body is one side of the contact, and returns the
// other side.
func (e ContactEvent) Involves(body Body) (other Body, ok bool) {
	if body == nil {
		return nil, false
	}
	switch body {
	case e.A:
		return e.B, true
	case e.B:
		return e.A, true
	}
	return nil, false
}

// ContactHandler receives contact events. Worlds call it synchronously from
// inside Step, in the order the solver finds or loses contacts.
type ContactHandler func(ContactEvent)

// World is the rigid-body engine a session runs on.
type World interface {
	CreateBody(def BodyDef) Body
	Step(dt float64, velocityIterations, positionIterations int)
	SetContactHandler(handler ContactHandler)
	Bodies() iter.Seq[Body]
	// Destroy releases every body. The world must not be used afterwards.
	Destroy()
}

// NewWorldFunc builds an empty world with the given gravity. Sessions call
// it on every Reset.
type NewWorldFunc func(gravity mgl64.Vec2) World

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
