package main

import (
	"context"
	"sync"
	"time"

	"github.com/plus3/debrisfall/control"
	"github.com/plus3/debrisfall/debris"
)

// Runner plays rounds of one session back to back with a random player,
// resetting whenever a round ends.
type Runner struct {
	Session    *debris.Session
	Controller *control.RandomController
	Tick       float64
	// Lock, when set, is held around every world operation. Physics engines
	// with package-level state need one lock shared by all runners.
	Lock sync.Locker
}

// Result is what one runner saw until its context ended.
type Result struct {
	Rounds   int
	Wins     int
	Deaths   int
	Ticks    int64
	SubSteps int64
	Spawned  int64
	// RoundTime is the simulated length of finished rounds.
	RoundTime Stats
	// TickTime is the wall-clock cost of one tick.
	TickTime Stats
	Systems  []debris.SystemStats
}

func (r *Runner) Run(ctx context.Context) Result {
	var res Result

	r.Session.OnTransition(func(t debris.Transition) {
		switch t.To {
		case debris.Win:
			res.Wins++
		case debris.Dead:
			res.Deaths++
		default:
			return
		}
		res.Rounds++
		res.RoundTime.Add(time.Duration(t.At * float64(time.Second)))
	})
	r.lock()
	r.Session.Reset()
	r.unlock()

	for ctx.Err() == nil {
		input := r.Controller.Next()

		r.lock()
		if r.Session.State().Terminal() {
			res.SubSteps += r.Session.TotalSteps()
			res.Spawned += int64(r.Session.SpawnedCount())
			r.Session.Reset()
		}
		control.Apply(r.Session, input)

		start := time.Now()
		r.Session.Tick(r.Tick)
		res.TickTime.Add(time.Since(start))
		r.unlock()

		res.Ticks++
	}

	res.SubSteps += r.Session.TotalSteps()
	res.Spawned += int64(r.Session.SpawnedCount())
	res.RoundTime.Finalize()
	res.TickTime.Finalize()
	res.Systems = r.Session.Stats().Systems
	return res
}

func (r *Runner) lock() {
	if r.Lock != nil {
		r.Lock.Lock()
	}
}

func (r *Runner) unlock() {
	if r.Lock != nil {
		r.Lock.Unlock()
	}
}
