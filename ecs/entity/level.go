package entity

import (
	"fmt"

	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/component"
	"github.com/milk9111/ledge/levels"
)

// LoadLevelToWorld creates one static terrain entity per merged level
// rectangle plus a LevelBounds entity, and returns the player spawn point.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level) (spawnX, spawnY float64, err error) {
	if w == nil || lvl == nil {
		return 0, 0, fmt.Errorf("load level: world or level is nil")
	}
	for _, r := range lvl.Rects() {
		if _, err := NewTerrain(w, r); err != nil {
			return 0, 0, fmt.Errorf("load level: %w", err)
		}
	}
	width, height := lvl.Bounds()
	bounds := ecs.CreateEntity(w)
	if err := ecs.Add(w, bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{Width: width, Height: height}); err != nil {
		return 0, 0, fmt.Errorf("load level: %w", err)
	}
	x, y, ok := lvl.Spawn()
	if !ok {
		return 0, 0, fmt.Errorf("load level: no %s entity", levels.PlayerSpawn)
	}
	return x, y, nil
}

// NewTerrain adds a static box. Platforms collide like terrain but are
// invisible to the wall probes.
func NewTerrain(w *ecs.World, r levels.Rect) (ecs.Entity, error) {
	cx, cy := r.Center()
	e := ecs.CreateEntity(w)

	layer := component.LayerTerrain
	if r.Platform {
		layer = component.LayerPlatform
	}
	if err := ecs.Add(w, e, component.TerrainTagComponent.Kind(), &component.TerrainTag{}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: cx, Y: cy}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: layer, Mask: ^uint32(0)}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:    r.W,
		Height:   r.H,
		Friction: 0,
		Static:   true,
	}); err != nil {
		return 0, err
	}
	return e, nil
}
