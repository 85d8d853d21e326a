package system

import (
	"github.com/aidendeom/platformer/ecs"
	"github.com/aidendeom/platformer/ecs/component"
	"github.com/aidendeom/platformer/telemetry"
)

// Publisher receives telemetry frames.
type Publisher interface {
	Publish(frame telemetry.Frame)
}

// TelemetrySystem publishes a frame of every character every Interval ticks.
type TelemetrySystem struct {
	publisher Publisher
	interval  uint64
	tick      uint64
}

func NewTelemetrySystem(publisher Publisher, interval int) *TelemetrySystem {
	if interval < 1 {
		interval = 1
	}
	return &TelemetrySystem{publisher: publisher, interval: uint64(interval)}
}

func (ts *TelemetrySystem) Update(w *ecs.World) {
	if ts == nil || ts.publisher == nil || w == nil {
		return
	}
	ts.tick++
	if ts.tick%ts.interval != 0 {
		return
	}

	frame := telemetry.Frame{Tick: ts.tick}
	for _, e := range w.Query(component.CharacterComponent.ID()) {
		c, ok := ecs.Get(w, e, component.CharacterComponent)
		if !ok || c == nil || c.Sim == nil {
			continue
		}
		frame.Characters = append(frame.Characters, telemetry.CharacterFrame{
			Entity:   e.String(),
			Snapshot: c.Sim.Snapshot(),
		})
	}
	ts.publisher.Publish(frame)
}
