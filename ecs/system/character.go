package system

import (
	"log"

	"github.com/aidendeom/platformer/ecs"
	"github.com/aidendeom/platformer/ecs/component"
)

// CharacterSystem applies this tick's contact events and steps every
// character with its input.
type CharacterSystem struct {
	dt float64
}

func NewCharacterSystem(dt float64) *CharacterSystem {
	return &CharacterSystem{dt: dt}
}

func (cs *CharacterSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}

	for _, evt := range w.Events().Drain(ecs.EventContact) {
		contact, ok := evt.Data.(ecs.ContactEvent)
		if !ok {
			continue
		}
		c, ok := ecs.Get(w, contact.Entity, component.CharacterComponent)
		if !ok || c == nil || c.Sim == nil {
			continue
		}
		switch contact.Kind {
		case ecs.ContactEnter:
			c.Sim.OnContactEnter(contact.Platform)
		case ecs.ContactExit:
			c.Sim.OnContactExit(contact.Platform)
		}
	}

	for _, e := range w.Query(component.CharacterComponent.ID()) {
		c, ok := ecs.Get(w, e, component.CharacterComponent)
		if !ok || c == nil || c.Sim == nil {
			continue
		}
		input, _ := ecs.Get(w, e, component.InputComponent)
		if input.Reset {
			log.Printf("character: entity %v reset to spawn (%.2f, %.2f)", e, c.Spawn.X, c.Spawn.Y)
			c.Sim.Reset(c.Spawn)
			continue
		}
		c.Sim.Step(cs.dt, input.Input)
	}
}
