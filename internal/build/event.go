package build

import "fmt"

// EventKind tags the Event variant.
type EventKind int

const (
	// Invalidated: sources changed and a rebuild is starting.
	Invalidated EventKind = iota
	// Done: the rebuild finished and Result holds its diagnostics.
	Done
	// Failed: the bundler itself could not produce a result.
	Failed
)

func (k EventKind) String() string {
	switch k {
	case Invalidated:
		return "invalidated"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("event_kind(%d)", int(k))
	}
}

// Event is one bundler lifecycle notification. Only the field matching Kind is set.
type Event struct {
	Kind   EventKind
	Result CompilationResult
	Err    error
}

func InvalidatedEvent() Event { return Event{Kind: Invalidated} }

func DoneEvent(result CompilationResult) Event { return Event{Kind: Done, Result: result} }

func FailedEvent(err error) Event { return Event{Kind: Failed, Err: err} }
