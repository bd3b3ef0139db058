package physicstest

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/debrisfall/debris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const step = 1.0 / 60

// RunConformance checks that a real engine behaves the way sessions expect:
// bodies fall, static bodies stay put, impulses change velocity and touching
// bodies report paired begin and end contacts.
func RunConformance(t *testing.T, newWorld debris.NewWorldFunc) {
	t.Helper()

	t.Run("dynamic bodies fall", func(t *testing.T) {
		world := newWorld(mgl64.Vec2{0, -10})
		defer world.Destroy()

		body := world.CreateBody(dynamicCircle(mgl64.Vec2{0, 10}, 0.5))
		for i := 0; i < 60; i++ {
			world.Step(step, 10, 10)
		}

		assert.Less(t, body.Position().Y(), 6.0)
		assert.Less(t, body.LinearVelocity().Y(), -5.0)
		assert.InDelta(t, 0, body.Position().X(), 1e-9)
	})

	t.Run("static bodies stay put", func(t *testing.T) {
		world := newWorld(mgl64.Vec2{0, -10})
		defer world.Destroy()

		floor := world.CreateBody(staticBox(mgl64.Vec2{1, 2}, mgl64.Vec2{5, 0.5}))
		floor.ApplyLinearImpulse(mgl64.Vec2{100, 100})
		for i := 0; i < 30; i++ {
			world.Step(step, 10, 10)
		}

		assert.Equal(t, mgl64.Vec2{1, 2}, floor.Position())
		assert.Equal(t, mgl64.Vec2{}, floor.LinearVelocity())
	})

	t.Run("impulses change velocity", func(t *testing.T) {
		world := newWorld(mgl64.Vec2{})
		defer world.Destroy()

		body := world.CreateBody(dynamicCircle(mgl64.Vec2{}, 0.5))
		mass := body.Shape().Area() * debris.DynamicMaterial.Density

		body.ApplyLinearImpulse(mgl64.Vec2{2, 0})
		world.Step(step, 10, 10)

		assert.InDelta(t, 2/mass, body.LinearVelocity().X(), 1e-6)
		assert.Greater(t, body.Position().X(), 0.0)
	})

	t.Run("resting contact is reported", func(t *testing.T) {
		world := newWorld(mgl64.Vec2{0, -10})
		defer world.Destroy()

		floor := world.CreateBody(staticBox(mgl64.Vec2{}, mgl64.Vec2{5, 0.5}))
		ball := world.CreateBody(dynamicCircle(mgl64.Vec2{0, 2}, 0.5))

		var events []debris.ContactEvent
		world.SetContactHandler(func(ev debris.ContactEvent) {
			events = append(events, ev)
		})

		for i := 0; i < 120; i++ {
			world.Step(step, 10, 10)
		}

		require.NotEmpty(t, events)
		first := events[0]
		assert.Equal(t, debris.ContactBegin, first.Kind)
		other, ok := first.Involves(ball)
		require.True(t, ok)
		assert.Same(t, floor, other)

		assert.InDelta(t, 1.0, ball.Position().Y(), 0.15, "ball rests on the floor")
	})

	t.Run("contacts are paired", func(t *testing.T) {
		world := newWorld(mgl64.Vec2{0, -10})
		defer world.Destroy()

		world.CreateBody(staticBox(mgl64.Vec2{}, mgl64.Vec2{5, 0.5}))
		world.CreateBody(staticBox(mgl64.Vec2{-5, 5}, mgl64.Vec2{0.5, 5}))
		world.CreateBody(staticBox(mgl64.Vec2{5, 5}, mgl64.Vec2{0.5, 5}))

		rng := rand.New(rand.NewPCG(1, 2))
		var balls []debris.Body
		for i := 0; i < 8; i++ {
			pos := mgl64.Vec2{rng.Float64()*8 - 4, 2 + float64(i)}
			balls = append(balls, world.CreateBody(dynamicCircle(pos, 0.3)))
		}

		open := map[[2]debris.Body]int{}
		world.SetContactHandler(func(ev debris.ContactEvent) {
			key := [2]debris.Body{ev.A, ev.B}
			switch ev.Kind {
			case debris.ContactBegin:
				open[key]++
			case debris.ContactEnd:
				open[key]--
				require.GreaterOrEqual(t, open[key], 0, "end without begin")
			}
		})

		for i := 0; i < 240; i++ {
			if i%40 == 0 {
				for _, b := range balls {
					b.ApplyLinearImpulse(mgl64.Vec2{rng.Float64() - 0.5, 1})
				}
			}
			world.Step(step, 10, 10)
		}

		for _, b := range balls {
			p := b.Position()
			assert.False(t, math.IsNaN(p.X()) || math.IsNaN(p.Y()))
		}
	})

	t.Run("bodies are listed in creation order", func(t *testing.T) {
		world := newWorld(mgl64.Vec2{})
		defer world.Destroy()

		var created []debris.Body
		for i := 0; i < 5; i++ {
			created = append(created, world.CreateBody(dynamicCircle(mgl64.Vec2{float64(i), 0}, 0.2)))
		}

		var listed []debris.Body
		for body := range world.Bodies() {
			listed = append(listed, body)
		}
		assert.Equal(t, created, listed)
	})

	t.Run("shapes", func(t *testing.T) {
		world := newWorld(mgl64.Vec2{0, -10})
		defer world.Destroy()

		world.CreateBody(staticBox(mgl64.Vec2{}, mgl64.Vec2{5, 0.5}))
		shapes := []debris.Shape{
			debris.Box{HalfExtents: mgl64.Vec2{0.5, 0.5}},
			debris.Box{HalfExtents: mgl64.Vec2{0.5, 0.25}, Center: mgl64.Vec2{0.1, 0}, Angle: 0.3},
			debris.Circle{Radius: 0.4},
			debris.Polygon{Vertices: []mgl64.Vec2{{0, 0}, {0.5, -0.866}, {1, 0}}},
		}
		for i, shape := range shapes {
			body := world.CreateBody(debris.BodyDef{
				Type:     debris.DynamicBody,
				Position: mgl64.Vec2{float64(i)*2 - 3, 3},
				Shape:    shape,
				Material: debris.DynamicMaterial,
			})
			assert.Equal(t, shape, body.Shape())
		}

		for i := 0; i < 180; i++ {
			world.Step(step, 10, 10)
		}
		for body := range world.Bodies() {
			if body.Type() == debris.DynamicBody {
				assert.Greater(t, body.Position().Y(), 0.0, "%T fell through the floor", body.Shape())
				assert.Less(t, body.Position().Y(), 3.0)
			}
		}
	})
}

func dynamicCircle(pos mgl64.Vec2, radius float64) debris.BodyDef {
	return debris.BodyDef{
		Type:     debris.DynamicBody,
		Position: pos,
		Shape:    debris.Circle{Radius: radius},
		Material: debris.DynamicMaterial,
	}
}

func staticBox(pos, halfExtents mgl64.Vec2) debris.BodyDef {
	return debris.BodyDef{
		Type:     debris.StaticBody,
		Position: pos,
		Shape:    debris.Box{HalfExtents: halfExtents},
		Material: debris.StaticMaterial,
	}
}
