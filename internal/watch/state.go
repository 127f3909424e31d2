package watch

import "fmt"

// State is the controller's position in a cycle.
type State int

const (
	Idle State = iota
	Compiling
	Reporting
	Finalizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Compiling:
		return "compiling"
	case Reporting:
		return "reporting"
	case Finalizing:
		return "finalizing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
