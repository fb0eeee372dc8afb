package worker

import "fmt"

// EventType identifies the kind of worker event
type EventType int

const (
	EventProgress EventType = iota
	EventSucceeded
	EventFailed
	EventCanceled
)

// String returns string representation of event type
func (t EventType) String() string {
	switch t {
	case EventProgress:
		return "progress"
	case EventSucceeded:
		return "succeeded"
	case EventFailed:
		return "failed"
	case EventCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// IsTerminal reports whether no further events follow this one
func (t EventType) IsTerminal() bool {
	return t != EventProgress
}

// Event is emitted by a worker on its events channel
type Event struct {
	TaskID  string
	Type    EventType
	Percent int
	// Path is the produced artifact on success; may be empty when unknown
	Path string
	// Message is the failure description
	Message string
}
