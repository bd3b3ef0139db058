package box2d_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/debrisfall/debris"
	"github.com/plus3/debrisfall/physics/box2d"
	"github.com/plus3/debrisfall/physics/physicstest"
	"github.com/stretchr/testify/assert"
)

func TestConformance(t *testing.T) {
	physicstest.RunConformance(t, box2d.NewWorld)
}

func TestWorldMass(t *testing.T) {
	world := box2d.New(mgl64.Vec2{})
	defer world.Destroy()

	body := world.CreateBody(debris.BodyDef{
		Type:     debris.DynamicBody,
		Shape:    debris.Box{HalfExtents: mgl64.Vec2{0.5, 0.25}},
		Material: debris.Material{Density: 2},
	}).(*box2d.Body)

	assert.InDelta(t, 1.0, body.Mass(), 1e-9)
}

func TestWorldDestroy(t *testing.T) {
	world := box2d.New(mgl64.Vec2{0, -10})
	for i := 0; i < 4; i++ {
		world.CreateBody(debris.BodyDef{
			Type:     debris.DynamicBody,
			Position: mgl64.Vec2{float64(i), 0},
			Shape:    debris.Circle{Radius: 0.25},
			Material: debris.DynamicMaterial,
		})
	}
	assert.Equal(t, 4, world.BodyCount())

	world.Destroy()

	assert.Zero(t, world.BodyCount())
	for range world.Bodies() {
		t.Fatal("destroyed world still lists bodies")
	}
}

func TestSessionOnBox2D(t *testing.T) {
	t.Run("player lands and the clock runs out", func(t *testing.T) {
		params := debris.DefaultParams()
		params.TimeLimit = 1.8

		session := debris.NewSession(params, box2d.NewWorld, debris.SessionOptions{
			Rand: rand.New(rand.NewPCG(1, 2)),
		})
		session.Reset()

		for !session.State().Terminal() {
			session.Tick(1.0 / 60)
		}

		assert.Equal(t, debris.Dead, session.State())
		assert.True(t, session.IsPlayerGrounded())
		assert.InDelta(t, 1.0+params.PlayerSize, session.Player().Position().Y(), 0.05)
		assert.Equal(t, 3, session.SpawnedCount())
	})

	t.Run("door falls onto the player", func(t *testing.T) {
		params := debris.DefaultParams()
		params.MaxDebris = 0
		params.TimeLimit = 10

		session := debris.NewSession(params, box2d.NewWorld, debris.SessionOptions{})
		session.Reset()

		for !session.State().Terminal() {
			session.Tick(1.0 / 60)
		}

		assert.Equal(t, debris.Win, session.State())
		assert.Less(t, session.Elapsed(), 5.0)
	})

	t.Run("reset rebuilds the world", func(t *testing.T) {
		session := debris.NewSession(debris.DefaultParams(), box2d.NewWorld, debris.SessionOptions{})
		session.Reset()
		for i := 0; i < 90; i++ {
			session.Tick(1.0 / 60)
		}
		old := session.World().(*box2d.World)

		session.Reset()

		assert.Zero(t, old.BodyCount())
		assert.Equal(t, 4, session.World().(*box2d.World).BodyCount())
		assert.Zero(t, session.ContactCount())
	})

	t.Run("jump leaves the ground", func(t *testing.T) {
		session := debris.NewSession(debris.DefaultParams(), box2d.NewWorld, debris.SessionOptions{})
		session.Reset()
		for !session.IsPlayerGrounded() {
			session.Tick(1.0 / 60)
		}
		start := session.Player().Position().Y()

		assert.True(t, session.ApplyPlayerImpulse(mgl64.Vec2{0, 3}))
		for i := 0; i < 10; i++ {
			session.Tick(1.0 / 60)
		}

		assert.Greater(t, session.Player().Position().Y(), start+0.1)
		assert.False(t, math.IsNaN(session.Player().LinearVelocity().Y()))
	})
}
