package system

import (
	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/component"
)

// PauseVelocities stores every actor's velocity in a snapshot and zeroes
// the live value so the body stays put while the game is paused. Actors
// that already carry a snapshot are left alone.
func PauseVelocities(w *ecs.World) int {
	if w == nil {
		return 0
	}
	paused := 0
	for _, e := range w.Query(component.VelocityComponent.Kind()) {
		if ecs.Has(w, e, component.VelocitySnapshotComponent.Kind()) {
			continue
		}
		vel, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
		snap := &component.VelocitySnapshot{X: vel.X, Y: vel.Y}
		if err := ecs.Add(w, e, component.VelocitySnapshotComponent.Kind(), snap); err != nil {
			continue
		}
		vel.X, vel.Y = 0, 0
		setBodyVelocity(w, e, 0, 0)
		paused++
	}
	return paused
}

// ResumeVelocities restores each snapshot exactly and removes it.
func ResumeVelocities(w *ecs.World) int {
	if w == nil {
		return 0
	}
	resumed := 0
	for _, e := range w.Query(component.VelocitySnapshotComponent.Kind()) {
		snap, _ := ecs.Get(w, e, component.VelocitySnapshotComponent.Kind())
		if vel, ok := ecs.Get(w, e, component.VelocityComponent.Kind()); ok {
			vel.X, vel.Y = snap.X, snap.Y
			setBodyVelocity(w, e, snap.X, snap.Y)
			resumed++
		}
		ecs.Remove(w, e, component.VelocitySnapshotComponent.Kind())
	}
	return resumed
}

func setBodyVelocity(w *ecs.World, e ecs.Entity, x, y float64) {
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || body.Body == nil || body.Static {
		return
	}
	body.Body.SetVelocity(x, y)
}
