package component

import "github.com/aidendeom/platformer/character"

// Platform is a static axis-aligned box the character can stand on.
// X and Y are the centre.
type Platform struct {
	ID     character.PlatformID
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Top is the height of the walkable surface.
func (p Platform) Top() float64 {
	return p.Y + p.Height/2
}

var PlatformComponent = NewComponent[Platform]("platform")
