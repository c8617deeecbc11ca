package system

import (
	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/component"
)

// GroundStateSystem mirrors each actor's ground sensor into
// Locomotion.Grounded. It runs after the contact system every tick.
type GroundStateSystem struct {
	violations violations
}

func NewGroundStateSystem() *GroundStateSystem {
	return &GroundStateSystem{violations: violations{system: "ground"}}
}

func (g *GroundStateSystem) Update(w *ecs.World) {
	if g == nil || w == nil {
		return
	}
	ecs.ForEach2(w, component.LocomotionComponent.Kind(), component.SensorRefsComponent.Kind(), func(e ecs.Entity, loco *component.Locomotion, refs *component.SensorRefs) {
		sensor, ok := ecs.Get(w, ecs.Entity(refs.Ground), component.SensorComponent.Kind())
		if !ok {
			g.violations.report(e, "ground sensor")
			loco.Grounded = false
			return
		}
		loco.Grounded = !sensor.Contacts.Empty()
	})
}

// IsGrounded reports the ground classification of e for other gameplay
// systems (camera, animation, footsteps).
func IsGrounded(w *ecs.World, e ecs.Entity) bool {
	loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind())
	return ok && loco.Grounded
}
