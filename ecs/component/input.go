package component

import "github.com/aidendeom/platformer/character"

// Input stores per-tick controller state for an entity.
type Input struct {
	character.Input
	// Reset is edge triggered and puts the character back at its spawn.
	Reset bool
}

var InputComponent = NewComponent[Input]("input")
