package debris_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/debrisfall/debris"
	"github.com/plus3/debrisfall/physics/physicstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubSteps(t *testing.T) {
	tests := []struct {
		delta float64
		fps   int
		want  int
	}{
		{0.05, 60, 4},
		{0, 60, 1},
		{0.001, 60, 1},
		{0.02, 60, 2},
		{0.07, 60, 5},
		{0.1, 10, 2},
	}

	for _, tt := range tests {
		n, sub := debris.SubSteps(tt.delta, tt.fps)
		assert.Equal(t, tt.want, n, "delta=%v fps=%d", tt.delta, tt.fps)
		assert.InDelta(t, tt.delta, sub*float64(n), 1e-12)
	}
}

func TestStepperAdvance(t *testing.T) {
	t.Run("covers the full delta", func(t *testing.T) {
		world := physicstest.New(mgl64.Vec2{0, -10})
		stepper := debris.NewStepper(debris.DefaultParams())

		stepper.Advance(world, 0.05)

		steps := world.Steps()
		require.Len(t, steps, 4)

		total := 0.0
		for _, step := range steps {
			assert.InDelta(t, 0.0125, step.Dt, 1e-12)
			assert.Equal(t, 10, step.VelocityIterations)
			assert.Equal(t, 10, step.PositionIterations)
			total += step.Dt
		}
		assert.InDelta(t, 0.05, total, 1e-12)
		assert.Equal(t, 4, stepper.LastSubSteps())
		assert.Equal(t, int64(4), stepper.TotalSteps())
	})

	t.Run("zero delta still steps once", func(t *testing.T) {
		world := physicstest.New(mgl64.Vec2{})
		world.Integrate = true
		body := world.CreateBody(debris.BodyDef{
			Type:     debris.DynamicBody,
			Position: mgl64.Vec2{1, 2},
			Shape:    debris.Circle{Radius: 1},
			Material: debris.DynamicMaterial,
		})
		stepper := debris.NewStepper(debris.DefaultParams())

		stepper.Advance(world, 0)

		steps := world.Steps()
		require.Len(t, steps, 1)
		assert.Zero(t, steps[0].Dt)
		assert.Equal(t, mgl64.Vec2{1, 2}, body.Position())
	})

	t.Run("accumulates totals", func(t *testing.T) {
		world := physicstest.New(mgl64.Vec2{})
		stepper := debris.NewStepper(debris.DefaultParams())

		stepper.Advance(world, 0.05)
		stepper.Advance(world, 0.01)

		assert.Equal(t, 1, stepper.LastSubSteps())
		assert.Equal(t, int64(5), stepper.TotalSteps())
		assert.InDelta(t, 0.06, stepper.Simulated(), 1e-12)
	})
}
