package component

import "github.com/aidendeom/platformer/character"

// Character wraps the movement simulation of one entity.
type Character struct {
	Sim   *character.Character
	Spawn character.Vec2
}

var CharacterComponent = NewComponent[*Character]("character")
