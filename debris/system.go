package debris

// System is one stage of a tick. Systems run in registration order and
// share the session through the frame.
type System interface {
	Execute(frame *UpdateFrame)
}

// UpdateFrame carries the data of one tick.
type UpdateFrame struct {
	DeltaTime float64
	Session   *Session
	Commands  *Commands
}

func newUpdateFrame(dt float64, session *Session, commands *Commands) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Session:   session,
		Commands:  commands,
	}
}
