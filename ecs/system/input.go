package system

import (
	"math"

	"github.com/milk9111/ledge/common"
	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/component"
)

// moveDeadZone is the axis magnitude below which no Move action is emitted.
const moveDeadZone = 0.1

// Device is the current state of an input device.
type Device interface {
	MoveAxis() float64
	JumpHeld() bool
	WalkHeld() bool
}

// InputSystem samples a Device once per rendered frame and queues actions
// on every player-controlled actor. Buttons emit on transitions only; the
// move axis emits every frame it is outside the dead zone.
type InputSystem struct {
	device Device
}

func NewInputSystem(device Device) *InputSystem {
	return &InputSystem{device: device}
}

func (i *InputSystem) SetDevice(device Device) {
	if i != nil {
		i.device = device
	}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil || i.device == nil {
		return
	}

	moveX := common.ClampUnit(i.device.MoveAxis())
	jump := i.device.JumpHeld()
	walk := i.device.WalkHeld()

	for _, e := range w.Query(component.PlayerTagComponent.Kind(), component.InputComponent.Kind(), component.ActionQueueComponent.Kind()) {
		input, _ := ecs.Get(w, e, component.InputComponent.Kind())
		queue, _ := ecs.Get(w, e, component.ActionQueueComponent.Kind())

		if walk != input.WalkHeld {
			queue.Push(component.Walk(walk))
		}
		if math.Abs(moveX) > moveDeadZone {
			queue.Push(component.Move(moveX))
		}
		if jump && !input.JumpHeld {
			queue.Push(component.Jump())
		} else if !jump && input.JumpHeld {
			queue.Push(component.JumpCut())
		}

		input.MoveX = moveX
		input.JumpHeld = jump
		input.WalkHeld = walk
	}
}
