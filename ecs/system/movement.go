package system

import (
	"math"

	"github.com/milk9111/ledge/common"
	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/component"
)

const (
	// contactClearance is the probe distance under which a surface counts
	// as touching.
	contactClearance = 0.25
	// contactBias is the small velocity, in simulation units, used to push
	// away from a touching surface. It doubles as the resting floor for
	// vertical velocity.
	contactBias = 0.45
	// stopEpsilon snaps decaying horizontal velocity to zero.
	stopEpsilon = 0.5
	// counterFloor bounds how far the tick counters drift below zero.
	counterFloor = -1 << 10
)

// MovementSystem turns queued actions plus ground and wall state into the
// actor's velocity, once per fixed tick.
type MovementSystem struct {
	violations violations
}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{violations: violations{system: "movement"}}
}

func (m *MovementSystem) Update(w *ecs.World) {
	if m == nil || w == nil {
		return
	}
	for _, e := range w.Query(component.ControllerComponent.Kind()) {
		ctrl, _ := ecs.Get(w, e, component.ControllerComponent.Kind())
		info, ok := ecs.Get(w, e, component.MoveInfoComponent.Kind())
		if !ok {
			m.violations.report(e, "move info")
			continue
		}
		vel, ok := ecs.Get(w, e, component.VelocityComponent.Kind())
		if !ok {
			m.violations.report(e, "velocity")
			continue
		}
		loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind())
		if !ok {
			m.violations.report(e, "locomotion")
			continue
		}
		queue, ok := ecs.Get(w, e, component.ActionQueueComponent.Kind())
		if !ok {
			m.violations.report(e, "action queue")
			continue
		}
		probes, ok := ecs.Get(w, e, component.ProbesComponent.Kind())
		if !ok {
			m.violations.report(e, "probes")
			continue
		}

		Integrate(ctrl, info, vel, loco.Grounded, probes, queue)
		loco.Mode = classify(loco.Grounded, info.Walk, vel.X)
	}
}

// Integrate runs one tick of the movement state machine for a single actor.
// It drains queue and mutates info and vel in place.
//
// The jump request and coyote counters keep a value set during the tick
// through the end of that tick; all other decrements happen every tick, so a
// boost of n ticks forces jump speed on exactly n ticks. A jump that fires
// consumes both the buffered request and the coyote window.
func Integrate(c *component.Controller, info *component.MoveInfo, vel *component.Velocity, grounded bool, probes *component.Probes, queue *component.ActionQueue) {
	var resetShould, resetCoyote, resetBoost bool

	if grounded {
		info.CoyoteTimeTicks = c.CoyoteTicks
		resetCoyote = true
	}

	moved := false
	queue.Drain(func(a component.Action) {
		switch a.Kind {
		case component.ActionMove:
			vel.X += common.ClampUnit(a.Direction) * c.MoveAccel * common.VelocityScale
			moved = true
		case component.ActionJump:
			info.ShouldJumpTicks = c.JumpBufferTicks
			resetShould = true
		case component.ActionJumpCut:
			if vel.Y > 0 {
				vel.Y /= 3
				info.JumpBoostTicks = 0
				info.ShouldJumpTicks = 0
				resetBoost, resetShould = true, true
			}
		case component.ActionWalk:
			info.Walk = a.On
		}
	})

	if info.ShouldJumpTicks > 0 && info.CoyoteTimeTicks > 0 {
		info.JumpBoostTicks = c.JumpBoostTicks
		// Zeroed rather than left to decay so one press jumps at most once.
		info.ShouldJumpTicks = 0
		info.CoyoteTimeTicks = 0
		resetShould, resetCoyote = true, true
	}

	var ground component.Probe
	if probes != nil {
		ground = probes.Ground
	}
	if info.JumpBoostTicks > 0 {
		vel.Y = c.JumpSpeed * common.VelocityScale
	} else if ground.Within(contactClearance) && vel.Y < contactBias {
		vel.Y = contactBias
	} else if grounded && vel.Y < contactBias {
		vel.Y = 0
	} else {
		vel.Y -= c.Gravity * common.VelocityScale
	}
	maxFall := c.MaxFall * common.VelocityScale
	vel.Y = common.Clamp(vel.Y, -maxFall, maxFall)

	if !moved {
		vel.X *= c.Friction
		if math.Abs(vel.X) < stopEpsilon {
			vel.X = 0
		}
	}

	if probes != nil {
		vel.X = resolveWall(vel.X, probes.Left, -1)
		vel.X = resolveWall(vel.X, probes.Right, 1)
	}

	maxRun := c.MaxRun * common.VelocityScale
	if info.Walk {
		maxRun *= c.WalkFactor
	}
	vel.X = common.Clamp(vel.X, -maxRun, maxRun)

	if !resetShould {
		info.ShouldJumpTicks = decrement(info.ShouldJumpTicks)
	}
	if !resetBoost {
		info.JumpBoostTicks = decrement(info.JumpBoostTicks)
	}
	if !resetCoyote {
		info.CoyoteTimeTicks = decrement(info.CoyoteTimeTicks)
	}
}

// resolveWall applies one wall probe to vx. side is -1 for the left wall and
// 1 for the right wall.
func resolveWall(vx float64, probe component.Probe, side float64) float64 {
	if !probe.Hit || vx*side <= 0 {
		return vx
	}
	if probe.Distance < contactClearance {
		return -side * contactBias
	}
	return 0
}

func decrement(ticks int) int {
	if ticks <= counterFloor {
		return counterFloor
	}
	return ticks - 1
}

func classify(grounded, walk bool, vx float64) component.LocomotionMode {
	switch {
	case !grounded:
		return component.LocomotionAirborne
	case vx == 0:
		return component.LocomotionIdle
	case walk:
		return component.LocomotionWalk
	default:
		return component.LocomotionRun
	}
}
