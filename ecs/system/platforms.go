package system

import (
	"github.com/aidendeom/platformer/character"
	"github.com/aidendeom/platformer/ecs"
	"github.com/aidendeom/platformer/ecs/component"
)

// WorldPlatforms answers platform top heights from Platform components.
type WorldPlatforms struct {
	World *ecs.World
}

func (p WorldPlatforms) TopHeight(id character.PlatformID) (float64, bool) {
	if p.World == nil {
		return 0, false
	}
	for _, e := range p.World.Query(component.PlatformComponent.ID()) {
		plat, ok := ecs.Get(p.World, e, component.PlatformComponent)
		if ok && plat.ID == id {
			return plat.Top(), true
		}
	}
	return 0, false
}
