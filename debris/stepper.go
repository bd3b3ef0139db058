package debris

import "math"

// SubSteps splits delta into steps no longer than one native frame at fps.
// It always returns at least one step.
func SubSteps(delta float64, fps int) (n int, subDelta float64) {
	n = 1 + int(math.Floor(delta/(1/float64(fps))))
	return n, delta / float64(n)
}

// Stepper advances a World by a variable wall-clock delta using fixed-size
// sub-steps.
type Stepper struct {
	fps                int
	velocityIterations int
	positionIterations int

	lastSubSteps int
	totalSteps   int64
	simulated    float64
}

// NewStepper creates a stepper for the given native frame rate and solver
// iteration counts.
func NewStepper(params Params) *Stepper {
	return &Stepper{
		fps:                params.FPS,
		velocityIterations: params.VelocityIterations,
		positionIterations: params.PositionIterations,
	}
}

// Advance steps world forward by delta seconds.
func (s *Stepper) Advance(world World, delta float64) {
	n, dt := SubSteps(delta, s.fps)
	for i := 0; i < n; i++ {
		world.Step(dt, s.velocityIterations, s.positionIterations)
	}
	s.lastSubSteps = n
	s.totalSteps += int64(n)
	s.simulated += delta
}

// LastSubSteps is the sub-step count of the most recent Advance.
func (s *Stepper) LastSubSteps() int {
	return s.lastSubSteps
}

// TotalSteps is the number of World.Step calls so far.
func (s *Stepper) TotalSteps() int64 {
	return s.totalSteps
}

// Simulated is the total physics time advanced so far.
func (s *Stepper) Simulated() float64 {
	return s.simulated
}
