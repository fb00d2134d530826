package controller

import "github.com/aslpavel/sweep-go/sweep/candidate"

// EventKind identifies the shape of a SweepEvent (spec §4.5's outbound
// SweepEvent union: Select/Bind/Resize/Custom).
type EventKind int

const (
	Select EventKind = iota
	Bind
	Resize
	Custom
)

// SweepEvent is one item on the controller's outbound event channel. Only
// the fields relevant to Kind are populated.
type SweepEvent struct {
	Kind EventKind

	// Select
	Items []*candidate.Candidate
	Key   string

	// Bind
	Command string

	// Resize
	Cols, Rows int

	// Custom
	Method string
	Params any
}

func (c *Controller) emit(ev SweepEvent) {
	select {
	case c.events <- ev:
	default:
		// The outbound channel is buffered generously (see New); a full
		// channel means nobody is draining it, and blocking the loop
		// goroutine on a wedged consumer would hang input handling too.
	}
}

// Events returns the channel of outbound SweepEvents. Consumers are
// expected to drain it continuously for the lifetime of the controller.
func (c *Controller) Events() <-chan SweepEvent {
	return c.events
}
