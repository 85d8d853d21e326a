// Package fsm drives a single-threaded state machine whose states are a
// tagged enumeration. Each tick the active state's Update runs; when it names
// a next state the current state exits and the next one enters within the
// same call.
package fsm

import (
	"errors"
	"fmt"
	"log"
)

var ErrUnknownState = errors.New("fsm: unknown state")

// Handler holds the per-step callbacks of one state. Any of them may be nil.
type Handler[S comparable] struct {
	Enter func()
	// Update returns the next state and true to request a transition.
	Update func() (S, bool)
	Exit   func()
}

// Machine dispatches on the active state.
type Machine[S comparable] struct {
	handlers map[S]Handler[S]
	current  S
	started  bool
	debug    bool
}

// New registers handlers and enters initial.
func New[S comparable](initial S, handlers map[S]Handler[S]) (*Machine[S], error) {
	if _, ok := handlers[initial]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownState, initial)
	}
	m := &Machine[S]{handlers: handlers}
	m.TransitionTo(initial)
	return m, nil
}

// SetDebug toggles enter/exit logging.
func (m *Machine[S]) SetDebug(enabled bool) {
	m.debug = enabled
}

func (m *Machine[S]) Current() S {
	return m.current
}

// Update runs one step of the active state and applies at most one transition.
func (m *Machine[S]) Update() {
	if m == nil || !m.started {
		return
	}
	h := m.handlers[m.current]
	if h.Update == nil {
		return
	}
	if next, ok := h.Update(); ok {
		m.TransitionTo(next)
	}
}

// TransitionTo exits the active state and enters next. Transitioning to the
// active state is a full exit/enter cycle. Unknown states are ignored.
func (m *Machine[S]) TransitionTo(next S) {
	nh, ok := m.handlers[next]
	if !ok {
		log.Printf("fsm: ignoring transition to unknown state %v", next)
		return
	}

	if m.started {
		if m.debug {
			log.Printf("fsm: exiting state %v", m.current)
		}
		if h := m.handlers[m.current]; h.Exit != nil {
			h.Exit()
		}
	}

	m.current = next
	m.started = true
	if m.debug {
		log.Printf("fsm: entering state %v", next)
	}
	if nh.Enter != nil {
		nh.Enter()
	}
}
