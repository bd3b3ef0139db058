package debris

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// PickTier maps a dice roll in [0, sum(weights)) to a tier index by walking
// the weights in order. The first tier at which the running value drops to
// zero or below wins, so ties go to the earlier tier. If no tier qualifies
// the last one is returned.
func PickTier(weights []int, dice int) int {
	i := 0
	for ; i < len(weights); i++ {
		dice -= weights[i]
		if dice <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

// Spawner decides when the next piece of debris drops and what it looks
// like.
type Spawner struct {
	params Params
	rng    *rand.Rand

	sinceLastDrop float64
	spawned       int
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(params Params, rng *rand.Rand) *Spawner {
	return &Spawner{params: params, rng: rng}
}

// Advance adds delta to the drop accumulator and reports whether a drop is
// due this tick. When it is, the accumulator is cleared and the spawn count
// incremented; elapsed intervals beyond the first are discarded.
func (s *Spawner) Advance(delta float64) bool {
	s.sinceLastDrop += delta
	if s.sinceLastDrop < s.params.DropInterval || s.spawned >= s.params.MaxDebris {
		return false
	}
	s.sinceLastDrop = 0
	s.spawned++
	return true
}

// Roll draws a size tier and a drop position.
func (s *Spawner) Roll() (DebrisData, mgl64.Vec2) {
	p := s.params

	tier := PickTier(p.DebrisWeights, s.rng.IntN(p.TotalWeight()))

	minX := -p.StageWidth/2 + p.WallWidth
	x := minX + s.rng.Float64()*(p.StageWidth-2*p.WallWidth)
	y := p.StageHeight * p.SpawnHeightFactor

	return DebrisData{Tier: tier, Size: p.DebrisSizes[tier]}, mgl64.Vec2{x, y}
}

// Spawned is the number of drops so far.
func (s *Spawner) Spawned() int {
	return s.spawned
}

// SinceLastDrop is the time accumulated towards the next drop.
func (s *Spawner) SinceLastDrop() float64 {
	return s.sinceLastDrop
}

// Exhausted reports whether every drop has happened.
func (s *Spawner) Exhausted() bool {
	return s.spawned >= s.params.MaxDebris
}
