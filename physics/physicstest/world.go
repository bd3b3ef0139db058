// Package physicstest provides a scripted debris.World for tests. It does no
// collision detection: tests decide which contacts happen and when.
package physicstest

import (
	"iter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"
	"github.com/plus3/debrisfall/debris"
)

// StepCall records the arguments of one World.Step call.
type StepCall struct {
	Dt                 float64
	VelocityIterations int
	PositionIterations int
}

// World is an in-memory debris.World. With Integrate set, dynamic bodies
// fall under gravity and keep their velocity; otherwise bodies stay where
// they were created.
type World struct {
	Gravity   mgl64.Vec2
	Integrate bool
	// OnStep, if set, runs at the end of every Step, after queued contacts
	// have been delivered. It may call Begin and End.
	OnStep func(w *World, step int)

	nextID    uint32
	order     []uint32
	bodies    *intmap.Map[uint32, *Body]
	handler   debris.ContactHandler
	queued    []debris.ContactEvent
	steps     []StepCall
	destroyed bool
}

// New creates an empty world.
func New(gravity mgl64.Vec2) *World {
	return &World{
		Gravity: gravity,
		bodies:  intmap.New[uint32, *Body](64),
	}
}

// NewWorld matches debris.NewWorldFunc.
func NewWorld(gravity mgl64.Vec2) debris.World {
	return New(gravity)
}

func (w *World) CreateBody(def debris.BodyDef) debris.Body {
	w.mustBeAlive()

	w.nextID++
	b := &Body{
		id:       w.nextID,
		def:      def,
		position: def.Position,
		angle:    def.Angle,
	}
	w.order = append(w.order, b.id)
	w.bodies.Put(b.id, b)
	return b
}

func (w *World) Step(dt float64, velocityIterations, positionIterations int) {
	w.mustBeAlive()

	w.steps = append(w.steps, StepCall{
		Dt:                 dt,
		VelocityIterations: velocityIterations,
		PositionIterations: positionIterations,
	})

	if w.Integrate {
		for _, id := range w.order {
			b, _ := w.bodies.Get(id)
			if b.def.Type != debris.DynamicBody {
				continue
			}
			b.velocity = b.velocity.Add(w.Gravity.Mul(dt))
			b.position = b.position.Add(b.velocity.Mul(dt))
		}
	}

	queued := w.queued
	w.queued = nil
	for _, ev := range queued {
		w.deliver(ev)
	}

	if w.OnStep != nil {
		w.OnStep(w, len(w.steps))
	}
}

func (w *World) SetContactHandler(handler debris.ContactHandler) {
	w.handler = handler
}

func (w *World) Bodies() iter.Seq[debris.Body] {
	return func(yield func(debris.Body) bool) {
		for _, id := range w.order {
			b, ok := w.bodies.Get(id)
			if !ok {
				continue
			}
			if !yield(b) {
				return
			}
		}
	}
}

func (w *World) Destroy() {
	w.bodies.Clear()
	w.order = nil
	w.queued = nil
	w.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (w *World) Destroyed() bool {
	return w.destroyed
}

// Steps returns every Step call so far.
func (w *World) Steps() []StepCall {
	return append([]StepCall(nil), w.steps...)
}

// BodyCount is the number of live bodies.
func (w *World) BodyCount() int {
	return w.bodies.Len()
}

// Lookup returns the body with the given id.
func (w *World) Lookup(id uint32) (*Body, bool) {
	return w.bodies.Get(id)
}

// Begin delivers a begin contact between a and b immediately.
func (w *World) Begin(a, b debris.Body) {
	w.deliver(debris.ContactEvent{Kind: debris.ContactBegin, A: a, B: b})
}

// End delivers an end contact between a and b immediately.
func (w *World) End(a, b debris.Body) {
	w.deliver(debris.ContactEvent{Kind: debris.ContactEnd, A: a, B: b})
}

// QueueBegin schedules a begin contact for the next Step.
func (w *World) QueueBegin(a, b debris.Body) {
	w.queued = append(w.queued, debris.ContactEvent{Kind: debris.ContactBegin, A: a, B: b})
}

// QueueEnd schedules an end contact for the next Step.
func (w *World) QueueEnd(a, b debris.Body) {
	w.queued = append(w.queued, debris.ContactEvent{Kind: debris.ContactEnd, A: a, B: b})
}

func (w *World) deliver(ev debris.ContactEvent) {
	if w.handler != nil {
		w.handler(ev)
	}
}

func (w *World) mustBeAlive() {
	if w.destroyed {
		panic("physicstest: world used after Destroy")
	}
}

// Body is a body in a scripted World.
type Body struct {
	id       uint32
	def      debris.BodyDef
	position mgl64.Vec2
	velocity mgl64.Vec2
	angle    float64
	impulses []mgl64.Vec2
}

func (b *Body) ID() uint32 { return b.id }
func (b *Body) Def() debris.BodyDef { return b.def }
func (b *Body) Type() debris.BodyType { return b.def.Type }
func (b *Body) Shape() debris.Shape { return b.def.Shape }
func (b *Body) Position() mgl64.Vec2 { return b.position }
func (b *Body) Angle() float64 { return b.angle }
func (b *Body) LinearVelocity() mgl64.Vec2 { return b.velocity }
func (b *Body) UserData() any { return b.def.UserData }
func (b *Body) Material() debris.Material { return b.def.Material }
func (b *Body) SetPosition(p mgl64.Vec2) { b.position = p }
func (b *Body) Impulses() []mgl64.Vec2 { return append([]mgl64.Vec2(nil), b.impulses...) }
func (b *Body) SetLinearVelocity(v mgl64.Vec2) { b.velocity = v }

// ApplyLinearImpulse records the impulse and, for dynamic bodies, changes
// the velocity by impulse / mass.
func (b *Body) ApplyLinearImpulse(impulse mgl64.Vec2) {
	b.impulses = append(b.impulses, impulse)
	if b.def.Type != debris.DynamicBody {
		return
	}
	mass := b.def.Material.Density * b.def.Shape.Area()
	if mass <= 0 {
		return
	}
	b.velocity = b.velocity.Add(impulse.Mul(1 / mass))
}
