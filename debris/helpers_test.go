package debris_test

import (
	"math/rand/v2"
	"testing"

	"github.com/plus3/debrisfall/debris"
	"github.com/plus3/debrisfall/physics/physicstest"
	"github.com/stretchr/testify/require"
)

func testParams(mutate ...func(*debris.Params)) debris.Params {
	params := debris.DefaultParams()
	for _, fn := range mutate {
		fn(&params)
	}
	return params
}

func newTestSession(t *testing.T, mutate ...func(*debris.Params)) *debris.Session {
	t.Helper()

	session := debris.NewSession(testParams(mutate...), physicstest.NewWorld, debris.SessionOptions{
		Rand: rand.New(rand.NewPCG(1, 2)),
	})
	session.Reset()
	return session
}

func worldOf(t *testing.T, session *debris.Session) *physicstest.World {
	t.Helper()

	world, ok := session.World().(*physicstest.World)
	require.True(t, ok, "session world is %T", session.World())
	return world
}

// tickUntil ticks with delta until cond holds or limit ticks have run and
// returns the number of ticks taken.
func tickUntil(t *testing.T, session *debris.Session, delta float64, limit int, cond func() bool) int {
	t.Helper()

	for i := 1; i <= limit; i++ {
		session.Tick(delta)
		if cond() {
			return i
		}
	}
	t.Fatalf("condition not met after %d ticks", limit)
	return 0
}
