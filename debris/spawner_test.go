package debris_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/plus3/debrisfall/debris"
	"github.com/stretchr/testify/assert"
)

func TestPickTier(t *testing.T) {
	tests := []struct {
		weights []int
		dice    int
		want    int
	}{
		{[]int{40, 30, 20, 10}, 0, 0},
		{[]int{40, 30, 20, 10}, 40, 0}, // exact boundary stays on the earlier tier
		{[]int{40, 30, 20, 10}, 41, 1},
		{[]int{40, 30, 20, 10}, 70, 1},
		{[]int{40, 30, 20, 10}, 71, 2},
		{[]int{40, 30, 20, 10}, 99, 3},
		{[]int{0, 5}, 0, 0}, // a leading zero weight wins only on a zero roll
		{[]int{0, 5}, 1, 1},
		{[]int{5, 0, 5}, 5, 0},
		{[]int{5, 0, 5}, 6, 2}, // zero weights in the middle never win
		{[]int{1}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v/%d", tt.weights, tt.dice), func(t *testing.T) {
			assert.Equal(t, tt.want, debris.PickTier(tt.weights, tt.dice))
		})
	}
}

func TestPickTierDistribution(t *testing.T) {
	weights := []int{40, 30, 20, 10}
	total := 100
	draws := 200000

	rng := rand.New(rand.NewPCG(7, 11))
	counts := make([]int, len(weights))
	for i := 0; i < draws; i++ {
		counts[debris.PickTier(weights, rng.IntN(total))]++
	}

	for i, w := range weights {
		freq := float64(counts[i]) / float64(draws)
		assert.InDelta(t, float64(w)/float64(total), freq, 0.02, "tier %d", i)
	}
}

func TestSpawnerAdvance(t *testing.T) {
	params := testParams(func(p *debris.Params) {
		p.DropInterval = 1
		p.MaxDebris = 2
	})

	t.Run("waits for the interval", func(t *testing.T) {
		s := debris.NewSpawner(params, rand.New(rand.NewPCG(1, 1)))

		assert.False(t, s.Advance(0.5))
		assert.InDelta(t, 0.5, s.SinceLastDrop(), 1e-12)
		assert.True(t, s.Advance(0.5))
		assert.Equal(t, 1, s.Spawned())
		assert.Zero(t, s.SinceLastDrop())
	})

	t.Run("one drop per advance after a long pause", func(t *testing.T) {
		s := debris.NewSpawner(params, rand.New(rand.NewPCG(1, 1)))

		assert.True(t, s.Advance(10))
		assert.Equal(t, 1, s.Spawned())
		assert.Zero(t, s.SinceLastDrop(), "elapsed intervals are not carried over")
		assert.False(t, s.Advance(0.1))
	})

	t.Run("stops at the cap", func(t *testing.T) {
		s := debris.NewSpawner(params, rand.New(rand.NewPCG(1, 1)))

		assert.True(t, s.Advance(1))
		assert.True(t, s.Advance(1))
		assert.True(t, s.Exhausted())
		assert.False(t, s.Advance(1))
		assert.Equal(t, 2, s.Spawned())
	})
}

func TestSpawnerRoll(t *testing.T) {
	params := debris.DefaultParams()
	s := debris.NewSpawner(params, rand.New(rand.NewPCG(3, 4)))

	minX := -params.StageWidth/2 + params.WallWidth
	maxX := params.StageWidth/2 - params.WallWidth

	for i := 0; i < 1000; i++ {
		data, pos := s.Roll()

		assert.GreaterOrEqual(t, pos.X(), minX)
		assert.Less(t, pos.X(), maxX)
		assert.Equal(t, params.StageHeight*params.SpawnHeightFactor, pos.Y())
		assert.Equal(t, params.DebrisSizes[data.Tier], data.Size)
	}
}
