// Package debris is the simulation core of a falling-debris arcade game.
//
// A Session owns a physics World, drops debris on a timer, brings in a door
// once the drops are done and decides the outcome from contacts between the
// player and the door, or from the clock running out. Rendering, input and
// the physics engine itself live outside this package: engines plug in
// through the World interface.
package debris

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// SessionOptions configures optional collaborators of a Session.
type SessionOptions struct {
	// Rand drives debris tiers and drop positions. Defaults to a randomly
	// seeded source.
	Rand *rand.Rand
	// Logger receives transitions and spawns. Defaults to a discarding logger.
	Logger *log.Logger
}

// Session is one run of the game. It is not safe for concurrent use: the
// caller serialises Reset, Tick and ApplyPlayerImpulse.
type Session struct {
	params   Params
	newWorld NewWorldFunc
	rng      *rand.Rand
	logger   *log.Logger

	scheduler *Scheduler
	world     World
	factory   *BodyFactory
	spawner   *Spawner
	stepper   *Stepper

	floor, leftWall, rightWall Body
	player                     Body
	door                       Body
	debris                     []Body

	started     bool
	state       State
	remaining   float64
	elapsed     float64
	contacts    int
	transitions []Transition
	listeners   []func(Transition)
}

// NewSession creates a session that builds its worlds with newWorld. The
// session is inert until Reset is called. Invalid params panic.
func NewSession(params Params, newWorld NewWorldFunc, opts SessionOptions) *Session {
	if err := params.Validate(); err != nil {
		panic("invalid session params: " + err.Error())
	}
	if newWorld == nil {
		panic("session requires a world constructor")
	}

	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	s := &Session{
		params:   params.clone(),
		newWorld: newWorld,
		rng:      opts.Rand,
		logger:   opts.Logger,
	}

	s.scheduler = NewScheduler(s)
	s.scheduler.Register(TimerSystem{})
	s.scheduler.Register(SpawnSystem{})
	s.scheduler.Register(DoorSystem{})
	s.scheduler.Register(StepSystem{})

	return s
}

// Reset discards the current world, if any, and starts a fresh session:
// boundaries and player in a new world, full clock, no debris.
func (s *Session) Reset() {
	if s.world != nil {
		s.world.SetContactHandler(nil)
		s.world.Destroy()
	}

	p := s.params
	s.world = s.newWorld(mgl64.Vec2{0, p.Gravity})
	s.world.SetContactHandler(s.handleContact)

	s.factory = NewBodyFactory(s.world, p)
	s.spawner = NewSpawner(p, s.rng)
	s.stepper = NewStepper(p)

	s.door = nil
	s.debris = make([]Body, 0, p.MaxDebris)
	s.state = Dropping
	s.remaining = p.TimeLimit
	s.elapsed = 0
	s.contacts = 0
	s.transitions = s.transitions[:0]

	s.floor, s.leftWall, s.rightWall = s.factory.CreateBoundaries()
	s.player = s.factory.CreatePlayer()
	s.started = true

	s.logger.Info("session reset", "time_limit", p.TimeLimit, "max_debris", p.MaxDebris)
}

// Tick advances the session by delta seconds. It is a no-op once the
// session is over.
func (s *Session) Tick(delta float64) {
	s.mustBeStarted("Tick")
	if !(delta >= 0) || math.IsInf(delta, 0) {
		panic(fmt.Sprintf("tick delta must be a non-negative finite number, got %v", delta))
	}
	if s.state.Terminal() {
		return
	}

	s.scheduler.Once(delta)
}

// ApplyPlayerImpulse pushes the player at its centre of mass. Impulses are
// ignored once the session is over; the return value reports whether the
// impulse was applied.
func (s *Session) ApplyPlayerImpulse(impulse mgl64.Vec2) bool {
	s.mustBeStarted("ApplyPlayerImpulse")
	if s.state.Terminal() {
		return false
	}
	s.player.ApplyLinearImpulse(impulse)
	return true
}

// OnTransition registers fn to be called after every state change. Calls
// happen at the end of the tick that caused the change; fn may call Reset
// but must not call Tick.
func (s *Session) OnTransition(fn func(Transition)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) setState(to State) {
	if s.state == to || s.state.Terminal() {
		return
	}

	t := Transition{From: s.state, To: to, At: s.elapsed}
	s.state = to
	s.transitions = append(s.transitions, t)

	s.logger.Info("state changed", "from", t.From, "to", t.To, "at", t.At,
		"remaining", s.remaining, "spawned", s.spawner.Spawned())

	if len(s.listeners) > 0 {
		s.scheduler.Commands().Defer(func() {
			for _, fn := range s.listeners {
				fn(t)
			}
		})
	}
}

func (s *Session) mustBeStarted(op string) {
	if !s.started {
		panic(op + " called before Reset")
	}
}

// State is the current phase.
func (s *Session) State() State {
	return s.state
}

// RemainingTime is the time left on the clock. It may be negative once the
// session is Dead.
func (s *Session) RemainingTime() float64 {
	return s.remaining
}

// Elapsed is the session time consumed by ticks so far.
func (s *Session) Elapsed() float64 {
	return s.elapsed
}

// Player is the player body, or nil before the first Reset.
func (s *Session) Player() Body {
	return s.player
}

// Door is the door body, or nil until the session has stopped dropping.
func (s *Session) Door() Body {
	return s.door
}

// Boundaries returns the floor and both walls.
func (s *Session) Boundaries() (floor, left, right Body) {
	return s.floor, s.leftWall, s.rightWall
}

// Debris returns the debris bodies in spawn order.
func (s *Session) Debris() []Body {
	return slices.Clone(s.debris)
}

// SpawnedCount is the number of debris dropped so far.
func (s *Session) SpawnedCount() int {
	if s.spawner == nil {
		return 0
	}
	return s.spawner.Spawned()
}

// ContactCount is the number of bodies currently touching the player.
func (s *Session) ContactCount() int {
	return s.contacts
}

// IsPlayerGrounded reports whether the player touches anything, which is
// when it may jump.
func (s *Session) IsPlayerGrounded() bool {
	return s.contacts > 0
}

// Transitions returns the state changes of the current session in order.
func (s *Session) Transitions() []Transition {
	return slices.Clone(s.transitions)
}

// Params returns the session parameters.
func (s *Session) Params() Params {
	return s.params.clone()
}

// World is the current physics world, or nil before the first Reset.
func (s *Session) World() World {
	return s.world
}

// LastSubSteps is the number of physics steps taken by the latest tick.
func (s *Session) LastSubSteps() int {
	if s.stepper == nil {
		return 0
	}
	return s.stepper.LastSubSteps()
}

// TotalSteps is the number of physics steps taken since Reset.
func (s *Session) TotalSteps() int64 {
	if s.stepper == nil {
		return 0
	}
	return s.stepper.TotalSteps()
}

// Scheduler exposes the system scheduler, for stats and wall-clock runs.
func (s *Session) Scheduler() *Scheduler {
	return s.scheduler
}

// Stats returns system execution statistics accumulated across resets.
func (s *Session) Stats() *SchedulerStats {
	return s.scheduler.Stats()
}
