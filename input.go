package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/aidendeom/platformer/character"
	"github.com/aidendeom/platformer/ecs/component"
)

const stickDeadzone = 0.2

// pollInput reads keyboard and the first gamepad. Arrows move, left shift
// runs, up or space jumps on press, R resets to the spawn.
func pollInput() component.Input {
	left := ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	run := ebiten.IsKeyPressed(ebiten.KeyShiftLeft)
	jump := inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeySpace)
	reset := inpututil.IsKeyJustPressed(ebiten.KeyR)

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		left = left || x < -stickDeadzone || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft)
		right = right || x > stickDeadzone || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight)
		run = run || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightLeft)
		jump = jump || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		reset = reset || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
	}

	return component.Input{
		Input: character.Input{
			MoveLeft:  left,
			MoveRight: right,
			Jump:      jump,
			Run:       run,
		},
		Reset: reset,
	}
}
