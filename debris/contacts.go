package debris

import "fmt"

// handleContact is the ContactHandler registered with the session's world.
// Only contacts that involve the player matter; all others are ignored.
func (s *Session) handleContact(ev ContactEvent) {
	other, ok := ev.Involves(s.player)
	if !ok {
		return
	}

	switch ev.Kind {
	case ContactBegin:
		s.contacts++
		if s.door != nil && other == s.door {
			s.setState(Win)
		}
	case ContactEnd:
		if s.contacts == 0 {
			panic(fmt.Sprintf("unpaired end contact between player and %v", describeBody(other)))
		}
		s.contacts--
	}
}

func describeBody(b Body) string {
	if b == nil {
		return "<nil>"
	}
	switch data := b.UserData().(type) {
	case Role:
		return data.String()
	case DebrisData:
		return fmt.Sprintf("debris tier %d", data.Tier)
	default:
		return fmt.Sprintf("%s body", b.Type())
	}
}
