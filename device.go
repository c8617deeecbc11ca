package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const stickDeadzone = 0.2

// keyboardDevice reads the keyboard and the first standard gamepad.
type keyboardDevice struct{}

func (keyboardDevice) MoveAxis() float64 {
	moveX := 0.0
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		moveX += 1
	}
	if id, ok := firstGamepad(); ok {
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			moveX = leftX
		}
	}
	return moveX
}

func (keyboardDevice) JumpHeld() bool {
	if ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		return true
	}
	id, ok := firstGamepad()
	return ok && ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
}

func (keyboardDevice) WalkHeld() bool {
	if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		return true
	}
	id, ok := firstGamepad()
	return ok && ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft)
}

func firstGamepad() (ebiten.GamepadID, bool) {
	ids := ebiten.GamepadIDs()
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}
