package system

import (
	"github.com/aidendeom/platformer/ecs"
	"github.com/aidendeom/platformer/ecs/component"
)

// InputPoller reads the controller once per tick.
type InputPoller func() component.Input

// InputSystem copies the polled controller state onto every player entity.
type InputSystem struct {
	poll InputPoller
}

func NewInputSystem(poll InputPoller) *InputSystem {
	return &InputSystem{poll: poll}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || i.poll == nil || w == nil {
		return
	}
	input := i.poll()
	for _, e := range w.Query(component.PlayerTagComponent.ID(), component.InputComponent.ID()) {
		if err := ecs.Add(w, e, component.InputComponent, input); err != nil {
			panic("input system: update input: " + err.Error())
		}
	}
}
