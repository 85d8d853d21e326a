package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/aidendeom/platformer/ecs"
	"github.com/aidendeom/platformer/ecs/component"
)

const (
	pixelsPerUnit = 32.0
	// world origin sits at the horizontal centre, a quarter up from the bottom
	originX = baseWidth / 2
	originY = baseHeight * 3 / 4
)

// toScreen maps a y-up world point to y-down screen pixels.
func toScreen(x, y float64) (float32, float32) {
	return float32(originX + x*pixelsPerUnit), float32(originY - y*pixelsPerUnit)
}

// fillBox draws a world-space box given by its centre and size.
func fillBox(screen *ebiten.Image, cx, cy, w, h float64, clr color.Color) {
	x, y := toScreen(cx-w/2, cy+h/2)
	vector.FillRect(screen, x, y, float32(w*pixelsPerUnit), float32(h*pixelsPerUnit), clr, false)
}

func strokeBox(screen *ebiten.Image, cx, cy, w, h float64, clr color.Color) {
	x, y := toScreen(cx-w/2, cy+h/2)
	vector.StrokeRect(screen, x, y, float32(w*pixelsPerUnit), float32(h*pixelsPerUnit), 1, clr, false)
}

func drawWorld(screen *ebiten.Image, w *ecs.World, debug bool) {
	screen.Fill(colornames.Midnightblue)

	ecs.ForEach(w, component.PlatformComponent, func(_ ecs.Entity, p component.Platform) {
		fillBox(screen, p.X, p.Y, p.Width, p.Height, colornames.Slategray)
		strokeBox(screen, p.X, p.Y, p.Width, p.Height, colornames.Lightgrey)
	})

	ecs.ForEach(w, component.CharacterComponent, func(e ecs.Entity, c *component.Character) {
		if c == nil || c.Sim == nil {
			return
		}
		sensor, _ := ecs.Get(w, e, component.ContactSensorComponent)
		width := sensor.BodyWidth
		if width <= 0 {
			width = 1
		}
		pos := c.Sim.Position()
		half := c.Sim.HalfHeight()
		fillBox(screen, pos.X, pos.Y, width, 2*half, colornames.Crimson)

		if !debug {
			return
		}
		feet := c.Sim.Feet()
		if c.Sim.Grounded() {
			fillBox(screen, feet.X, feet.Y, width, 0.05, colornames.Yellow)
		}
	})
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	if g.debug {
		drawContactDebug(g.contacts.Space(), screen)
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()))

	c, ok := ecs.Get(g.world, g.player, component.CharacterComponent)
	if !ok || c == nil || c.Sim == nil {
		return
	}
	s := c.Sim.Snapshot()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("State: %s  intent: %s  heading: %s", s.State, s.Intent, s.Heading), 0, 20)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("mult: %.3f  progress: %.3f", s.Multiplier, s.Progress), 0, 36)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("pos: (%.2f, %.2f)  vel: (%.2f, %.2f)", s.Position.X, s.Position.Y, s.Velocity.X, s.Velocity.Y), 0, 52)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("grounded: %v  contacts: %v", s.Grounded, s.Contacts), 0, 68)
	if g.hub != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("telemetry clients: %d", g.hub.Clients()), 0, 84)
	}
}
