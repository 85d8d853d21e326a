package character

import (
	"fmt"

	"github.com/aidendeom/platformer/fsm"
)

// MovementState is the active state of the movement machine.
type MovementState int

const (
	StateIdle MovementState = iota
	StateAccelerating
	StateMoving
	StateDecelerating
)

func (s MovementState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAccelerating:
		return "accelerating"
	case StateMoving:
		return "moving"
	case StateDecelerating:
		return "decelerating"
	}
	return fmt.Sprintf("MovementState(%d)", int(s))
}

// Mover turns directional intent into an eased speed multiplier.
//
// Its clock is the sum of the tick durations it has been given. A state
// entered during a tick starts its ramp at the beginning of that tick, so the
// multiplier it reports for the entering tick already includes that tick's
// elapsed time.
type Mover struct {
	cfg Config

	machine *fsm.Machine[MovementState]
	ramp    Ramp

	now       float64
	tickStart float64

	intent     Intent
	lastIntent Intent
	// heading is the direction of motion; it only flips once a turnaround
	// brake has brought progress back to zero.
	heading    Intent
	braking    bool
	multiplier float64
}

// NewMover validates the ramp settings of cfg and starts in Idle.
func NewMover(cfg Config) (*Mover, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Mover{cfg: cfg}
	machine, err := fsm.New(StateIdle, map[MovementState]fsm.Handler[MovementState]{
		StateIdle: {
			Enter:  m.enterIdle,
			Update: m.updateIdle,
		},
		StateAccelerating: {
			Enter:  m.enterAccelerating,
			Update: m.updateAccelerating,
		},
		StateMoving: {
			Enter:  m.enterMoving,
			Update: m.updateMoving,
		},
		StateDecelerating: {
			Enter:  m.enterDecelerating,
			Update: m.updateDecelerating,
		},
	})
	if err != nil {
		return nil, err
	}
	m.machine = machine
	return m, nil
}

// SetDebug logs every state change.
func (m *Mover) SetDebug(enabled bool) {
	m.machine.SetDebug(enabled)
}

// Update advances the clock by dt and runs one machine step for intent.
func (m *Mover) Update(dt float64, intent Intent) {
	m.tickStart = m.now
	m.now += dt
	m.intent = intent
	m.machine.Update()
}

// Reset returns the machine to Idle at rest.
func (m *Mover) Reset() {
	m.intent = IntentNone
	m.machine.TransitionTo(StateIdle)
}

func (m *Mover) State() MovementState {
	return m.machine.Current()
}

// Multiplier is the eased speed multiplier in [0,1] for the last tick.
func (m *Mover) Multiplier() float64 {
	return m.multiplier
}

// Progress is the shared ramp progress in [0,1].
func (m *Mover) Progress() float64 {
	return m.ramp.Progress()
}

// Heading is the direction of motion, which lags intent during a turnaround.
func (m *Mover) Heading() Intent {
	return m.heading
}

// Braking reports whether a turnaround brake is in progress.
func (m *Mover) Braking() bool {
	return m.braking
}

func (m *Mover) enterIdle() {
	m.multiplier = 0
	m.heading = IntentNone
	m.braking = false
	m.ramp.Reset(0)
}

func (m *Mover) updateIdle() (MovementState, bool) {
	if m.intent != IntentNone {
		return StateAccelerating, true
	}
	return StateIdle, false
}

func (m *Mover) enterAccelerating() {
	m.lastIntent = m.intent
	if m.heading != IntentNone && m.heading != m.intent && m.ramp.Progress() > 0 {
		m.braking = true
		m.ramp.Begin(m.tickStart, RampBackward, m.cfg.StopDuration, m.cfg.StopCurve)
	} else {
		m.braking = false
		m.heading = m.intent
		m.ramp.Begin(m.tickStart, RampForward, m.cfg.StartDuration, m.cfg.StartCurve)
	}
	m.accelerate()
}

func (m *Mover) updateAccelerating() (MovementState, bool) {
	if m.intent != m.lastIntent {
		if m.intent == IntentNone {
			return StateDecelerating, true
		}
		return StateAccelerating, true
	}
	if m.accelerate() {
		return StateMoving, true
	}
	return StateAccelerating, false
}

// accelerate samples the ramp and reports whether full speed was reached.
// A finished turnaround brake flips heading and restarts the forward ramp
// from zero progress.
func (m *Mover) accelerate() bool {
	mult, done := m.ramp.Sample(m.now)
	if m.braking {
		if !done {
			m.multiplier = mult
			return false
		}
		m.braking = false
		m.heading = m.lastIntent
		m.ramp.Begin(m.now, RampForward, m.cfg.StartDuration, m.cfg.StartCurve)
		mult, done = m.ramp.Sample(m.now)
	}
	m.multiplier = mult
	return done
}

func (m *Mover) enterMoving() {
	m.lastIntent = m.intent
	if m.intent != IntentNone {
		m.heading = m.intent
	}
	m.braking = false
	m.multiplier = 1
	m.ramp.Reset(1)
}

func (m *Mover) updateMoving() (MovementState, bool) {
	if m.intent == m.lastIntent {
		return StateMoving, false
	}
	if m.intent == IntentNone {
		return StateDecelerating, true
	}
	return StateAccelerating, true
}

func (m *Mover) enterDecelerating() {
	m.braking = false
	m.ramp.Begin(m.tickStart, RampBackward, m.cfg.StopDuration, m.cfg.StopCurve)
	m.multiplier, _ = m.ramp.Sample(m.now)
}

func (m *Mover) updateDecelerating() (MovementState, bool) {
	if m.intent != IntentNone {
		return StateAccelerating, true
	}
	var done bool
	m.multiplier, done = m.ramp.Sample(m.now)
	if done {
		return StateIdle, true
	}
	return StateDecelerating, false
}
