// Package control turns player input into impulses on a debris session.
package control

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/debrisfall/debris"
)

const (
	// MoveImpulse is applied every tick a direction is held.
	MoveImpulse = 0.05
	// JumpImpulse is applied once per jump, only while grounded.
	JumpImpulse = 2.5
)

// Input is the held state of the game controls for one tick.
type Input struct {
	Left  bool
	Right bool
	Jump  bool
}

// Impulse is the impulse for input. Jumping needs ground contact; opposite
// directions cancel out. ok is false when there is nothing to apply.
func Impulse(input Input, grounded bool) (impulse mgl64.Vec2, ok bool) {
	if input.Left {
		impulse[0] -= MoveImpulse
	}
	if input.Right {
		impulse[0] += MoveImpulse
	}
	if input.Jump && grounded {
		impulse[1] += JumpImpulse
	}
	return impulse, impulse != mgl64.Vec2{}
}

// Apply pushes the session player according to input and reports whether an
// impulse reached the player.
func Apply(session *debris.Session, input Input) bool {
	impulse, ok := Impulse(input, session.IsPlayerGrounded())
	if !ok {
		return false
	}
	return session.ApplyPlayerImpulse(impulse)
}

// RandomController holds each randomly chosen input for a random number of
// ticks, the way a restless player would.
type RandomController struct {
	rng      *rand.Rand
	current  Input
	holdFor  int
	maxHold  int
	jumpOdds float64
}

// NewRandomController creates a controller that keeps an input for up to
// maxHold ticks and wants to jump with probability jumpOdds.
func NewRandomController(rng *rand.Rand, maxHold int, jumpOdds float64) *RandomController {
	return &RandomController{rng: rng, maxHold: max(maxHold, 1), jumpOdds: jumpOdds}
}

// Next returns the input for the next tick.
func (c *RandomController) Next() Input {
	if c.holdFor <= 0 {
		c.current = Input{}
		switch c.rng.IntN(3) {
		case 0:
			c.current.Left = true
		case 1:
			c.current.Right = true
		}
		c.current.Jump = c.rng.Float64() < c.jumpOdds
		c.holdFor = 1 + c.rng.IntN(c.maxHold)
	}
	c.holdFor--
	return c.current
}
