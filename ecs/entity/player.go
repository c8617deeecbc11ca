package entity

import (
	"fmt"

	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/component"
	"github.com/milk9111/ledge/prefabs"
)

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, prefabs.PlayerPrefab)
}

func NewPlayerAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	entity, err := BuildEntity(w, prefabs.PlayerPrefab)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, x, y); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	return entity, nil
}

// DestroyActor removes an actor together with its sensor children.
func DestroyActor(w *ecs.World, e ecs.Entity) {
	if refs, ok := ecs.Get(w, e, component.SensorRefsComponent.Kind()); ok {
		for _, child := range []uint64{refs.Ground, refs.Left, refs.Right} {
			if child != 0 {
				ecs.DestroyEntity(w, ecs.Entity(child))
			}
		}
	}
	ecs.DestroyEntity(w, e)
}

// ApplyController replaces the tunables of every controlled actor. Counters
// and velocity are left as they are.
func ApplyController(w *ecs.World, spec prefabs.ControllerComponentSpec) int {
	ctrl := ControllerFromSpec(spec)
	n := 0
	ecs.ForEach(w, component.ControllerComponent.Kind(), func(_ ecs.Entity, c *component.Controller) {
		*c = ctrl
		n++
	})
	return n
}
