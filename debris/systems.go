package debris

// TimerSystem runs the session clock and ends the session when it runs out.
type TimerSystem struct{}

func (TimerSystem) Execute(frame *UpdateFrame) {
	s := frame.Session
	if s.state.Terminal() {
		return
	}

	s.elapsed += frame.DeltaTime
	s.remaining -= frame.DeltaTime
	if s.remaining <= 0 {
		s.setState(Dead)
	}
}

// SpawnSystem drops at most one piece of debris per tick.
type SpawnSystem struct{}

func (SpawnSystem) Execute(frame *UpdateFrame) {
	s := frame.Session
	if s.state.Terminal() {
		return
	}

	if !s.spawner.Advance(frame.DeltaTime) {
		return
	}

	data, pos := s.spawner.Roll()
	body := s.factory.CreateDebrisBox(pos.X(), pos.Y(), data.Size, data.Size, data)
	s.debris = append(s.debris, body)

	s.logger.Debug("debris dropped",
		"n", s.spawner.Spawned(), "tier", data.Tier, "size", data.Size, "x", pos.X())
}

// DoorSystem stops the drops and brings in the door once the last piece of
// debris has spawned.
type DoorSystem struct{}

func (DoorSystem) Execute(frame *UpdateFrame) {
	s := frame.Session
	if s.state != Dropping || !s.spawner.Exhausted() {
		return
	}

	s.door = s.factory.CreateDoor()
	s.setState(Stopped)

	s.logger.Debug("door placed", "y", s.door.Position().Y())
}

// StepSystem advances the physics world. Contact events raised by the world
// reach the session from inside this system.
type StepSystem struct{}

func (StepSystem) Execute(frame *UpdateFrame) {
	s := frame.Session
	if s.state.Terminal() {
		return
	}

	s.stepper.Advance(s.world, frame.DeltaTime)
}
