package ecs

import "github.com/aidendeom/platformer/character"

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventContact = "contact"
	EventReload  = "reload"
)

// ContactEventKind identifies contact event types.
type ContactEventKind string

const (
	ContactEnter ContactEventKind = "enter"
	ContactExit  ContactEventKind = "exit"
)

// ContactEvent is emitted when a character's feet start or stop overlapping
// a platform.
type ContactEvent struct {
	Entity   Entity
	Platform character.PlatformID
	Kind     ContactEventKind
}

// ReloadEvent is emitted after an entity's character was rebuilt from a
// changed prefab. Source names the file that triggered the rebuild.
type ReloadEvent struct {
	Entity Entity
	Source string
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events of type typ in order and keeps the rest.
func (q *EventQueue) Drain(typ string) []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	var out []Event
	kept := q.items[:0]
	for _, evt := range q.items {
		if evt.Type == typ {
			out = append(out, evt)
		} else {
			kept = append(kept, evt)
		}
	}
	q.items = kept
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
