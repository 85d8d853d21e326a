package system

import (
	"log"
	"path/filepath"

	"github.com/aidendeom/platformer/character"
	"github.com/aidendeom/platformer/ecs"
	"github.com/aidendeom/platformer/ecs/component"
	"github.com/aidendeom/platformer/prefabs"
)

// CharacterPrefab is everything a reload rebuilds a character from.
type CharacterPrefab struct {
	Config character.Config
	Sensor component.ContactSensor
}

// PrefabLoader builds a fresh prefab, e.g. from a character spec on disk.
type PrefabLoader func() (CharacterPrefab, error)

// ReloadSystem rebuilds characters when their spec or one of its curve
// scripts changes on disk. The new character keeps its position, spawn
// and debug flag but restarts idle with no contacts. Each rebuild replaces
// the entity's ContactSensor and pushes an EventReload so the contact
// detector recreates the sensor and reports current overlaps again.
type ReloadSystem struct {
	changes   <-chan prefabs.Change
	load      PrefabLoader
	platforms character.PlatformSource
}

func NewReloadSystem(changes <-chan prefabs.Change, load PrefabLoader, platforms character.PlatformSource) *ReloadSystem {
	return &ReloadSystem{changes: changes, load: load, platforms: platforms}
}

func (rs *ReloadSystem) Update(w *ecs.World) {
	if rs == nil || rs.changes == nil || rs.load == nil || w == nil {
		return
	}

	batch := rs.drain()
	if len(batch) == 0 {
		return
	}
	for _, change := range batch {
		log.Printf("reload: %v changed", change)
	}
	source := filepath.Base(batch[0].Path)

	prefab, err := rs.load()
	if err != nil {
		log.Printf("reload: %s: %v", source, err)
		return
	}

	rebuilt := 0
	for _, e := range w.Query(component.CharacterComponent.ID()) {
		c, ok := ecs.Get(w, e, component.CharacterComponent)
		if !ok || c == nil || c.Sim == nil {
			continue
		}
		next, err := character.New(prefab.Config, rs.platforms, c.Sim.Position())
		if err != nil {
			log.Printf("reload: entity %v: %v", e, err)
			continue
		}
		if err := ecs.Add(w, e, component.ContactSensorComponent, prefab.Sensor); err != nil {
			log.Printf("reload: entity %v sensor: %v", e, err)
			continue
		}
		next.SetDebug(c.Sim.Debug())
		c.Sim = next
		w.Events().Push(ecs.Event{Type: ecs.EventReload, Data: ecs.ReloadEvent{Entity: e, Source: source}})
		rebuilt++
	}
	log.Printf("reload: applied %s to %d character(s)", source, rebuilt)
}

// drain takes every queued change without blocking. A closed channel
// disables the system.
func (rs *ReloadSystem) drain() []prefabs.Change {
	var batch []prefabs.Change
	for {
		select {
		case change, ok := <-rs.changes:
			if !ok {
				rs.changes = nil
				return batch
			}
			batch = append(batch, change)
		default:
			return batch
		}
	}
}
