package debris

import "fmt"

// State is the phase of a session.
type State uint8

const (
	// Dropping: debris are still spawning.
	Dropping State = iota
	// Stopped: every drop has happened and the door is in play.
	Stopped
	// Win: the player touched the door.
	Win
	// Dead: the clock ran out first.
	Dead
)

func (s State) String() string {
	switch s {
	case Dropping:
		return "DROPPING"
	case Stopped:
		return "STOPPED"
	case Win:
		return "WIN"
	case Dead:
		return "DEAD"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Terminal reports whether the session is over.
func (s State) Terminal() bool {
	return s == Win || s == Dead
}

// Transition records one state change. At is the session time at which it
// happened.
type Transition struct {
	From State
	To   State
	At   float64
}
