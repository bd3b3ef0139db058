package main

import (
	"bytes"
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/plus3/debrisfall/control"
	"github.com/plus3/debrisfall/debris"
	"github.com/plus3/debrisfall/physics/physicstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newRunner(timeLimit float64) *Runner {
	params := debris.DefaultParams()
	params.TimeLimit = timeLimit

	return &Runner{
		Session: debris.NewSession(params, physicstest.NewWorld, debris.SessionOptions{
			Rand: rand.New(rand.NewPCG(1, 2)),
		}),
		Controller: control.NewRandomController(rand.New(rand.NewPCG(3, 4)), 10, 0.5),
		Tick:       1.0 / 60,
	}
}

func TestRunnerPlaysRounds(t *testing.T) {
	runner := newRunner(0.1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res := runner.Run(ctx)

	require.Positive(t, res.Rounds)
	assert.Equal(t, res.Rounds, res.Deaths, "nothing reaches the door in a tenth of a second")
	assert.Zero(t, res.Wins)
	assert.GreaterOrEqual(t, res.Ticks, int64(res.Rounds)*6)
	assert.Positive(t, res.SubSteps)
	assert.GreaterOrEqual(t, res.RoundTime.Min, 99*time.Millisecond)
	assert.Equal(t, int64(res.Rounds), res.RoundTime.Count)
	assert.Equal(t, res.Ticks, res.TickTime.Count)
	assert.Len(t, res.Systems, 4)
}

func TestRunnersShareLock(t *testing.T) {
	var lock sync.Mutex
	runners := []*Runner{newRunner(0.1), newRunner(0.2), newRunner(0.3)}
	results := make([]Result, len(runners))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var g errgroup.Group
	for i, runner := range runners {
		runner.Lock = &lock
		g.Go(func() error {
			results[i] = runner.Run(ctx)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, res := range results {
		assert.Positive(t, res.Ticks, "runner %d", i)
		assert.Equal(t, res.Rounds, res.Deaths, "runner %d", i)
	}
}

func TestStats(t *testing.T) {
	var a, b Stats
	for _, d := range []time.Duration{3, 1, 2} {
		a.Add(d)
	}
	b.Add(10)

	a.Merge(b)
	a.Merge(Stats{})
	a.Finalize()

	assert.Equal(t, Stats{Min: 1, Max: 10, Avg: 4, Count: 4, Total: 16}, a)
}

func TestReportMerge(t *testing.T) {
	systems := func(n int64, d time.Duration) []debris.SystemStats {
		return []debris.SystemStats{
			{Name: "TimerSystem", ExecutionCount: n, TotalDuration: d * time.Duration(n), MinDuration: d, MaxDuration: d},
			{Name: "StepSystem", ExecutionCount: n, TotalDuration: 2 * d * time.Duration(n), MinDuration: 2 * d, MaxDuration: 2 * d},
		}
	}

	report := &Report{}
	report.Merge([]Result{
		{Rounds: 3, Wins: 1, Deaths: 2, Ticks: 100, SubSteps: 100, Spawned: 9, Systems: systems(100, time.Microsecond)},
		{Rounds: 1, Deaths: 1, Ticks: 50, SubSteps: 60, Spawned: 4, Systems: systems(50, 4*time.Microsecond)},
	})

	assert.Equal(t, 4, report.Rounds)
	assert.Equal(t, 1, report.Wins)
	assert.Equal(t, 3, report.Deaths)
	assert.Equal(t, int64(150), report.TotalTicks)
	assert.Equal(t, int64(160), report.TotalSubSteps)
	assert.Equal(t, int64(13), report.TotalSpawned)
	assert.InDelta(t, 0.25, report.WinRate(), 1e-12)

	require.Len(t, report.Systems, 2)
	timer := report.Systems[0]
	assert.Equal(t, "TimerSystem", timer.Name)
	assert.Equal(t, int64(150), timer.ExecutionCount)
	assert.Equal(t, time.Microsecond, timer.MinDuration)
	assert.Equal(t, 4*time.Microsecond, timer.MaxDuration)
	assert.Equal(t, 2*time.Microsecond, timer.AvgDuration)
}

func TestReportGenerate(t *testing.T) {
	report := &Report{
		Duration: time.Second,
		Sessions: 2,
		Backend:  "box2d",
		Rounds:   4,
		Wins:     1,
		Deaths:   3,
		Systems:  []debris.SystemStats{{Name: "StepSystem", ExecutionCount: 7}},
	}

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "**Backend:** box2d")
	assert.Contains(t, out, "**Wins:** 1 (25.0%)")
	assert.Contains(t, out, "| StepSystem | 7 |")
	assert.NotContains(t, out, "GC Pause")
}
