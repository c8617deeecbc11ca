package entity

import (
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/component"
	"github.com/milk9111/ledge/prefabs"
)

type buildContext struct {
	PrefabPath string
	// children are entities created by builders on behalf of the prefab
	// entity; they are destroyed with it if the build fails.
	children []ecs.Entity
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":      addPlayerTag,
	"input":           addInput,
	"action_queue":    addActionQueue,
	"transform":       addTransform,
	"physics_body":    addPhysicsBody,
	"collision_layer": addCollisionLayer,
	"controller":      addController,
	"sensors":         addSensors,
	"probes":          addProbes,
}

// Sensors attach to the physics body, so it must exist first.
var componentBuildOrder = []string{
	"player_tag",
	"input",
	"action_queue",
	"transform",
	"physics_body",
	"collision_layer",
	"controller",
	"sensors",
	"probes",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}
	fail := func(err error) (ecs.Entity, error) {
		for _, child := range ctx.children {
			ecs.DestroyEntity(w, child)
		}
		ecs.DestroyEntity(w, e)
		return 0, err
	}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			return fail(fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err))
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		return fail(fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, names[0]))
	}

	return e, nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.X = x
	t.Y = y
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil && !body.Static {
		body.Body.SetPosition(cp.Vector{X: x, Y: y})
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addActionQueue(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.ActionQueueComponent.Kind(), &component.ActionQueue{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: spec.X, Y: spec.Y})
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}
	if spec.DefaultWidth <= 0 {
		spec.DefaultWidth = 16
	}
	if spec.DefaultHeight <= 0 {
		spec.DefaultHeight = 16
	}

	width := spec.Width
	height := spec.Height
	if width == 0 {
		width = spec.DefaultWidth
	}
	if height == 0 {
		height = spec.DefaultHeight
	}
	if !spec.Static && spec.Mass == 0 {
		spec.Mass = 1
	}

	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:    width,
		Height:   height,
		Mass:     spec.Mass,
		Friction: spec.Friction,
		Static:   spec.Static,
		OffsetX:  spec.OffsetX,
		OffsetY:  spec.OffsetY,
	})
}

type collisionLayerSpec = prefabs.CollisionLayerComponentSpec

func addCollisionLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[collisionLayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collision layer spec: %w", err)
	}
	cat := spec.Category
	mask := spec.Mask
	if cat == 0 {
		cat = component.LayerTerrain
	}
	if mask == 0 {
		mask = ^uint32(0)
	}
	return ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: cat, Mask: mask})
}

type controllerSpec = prefabs.ControllerComponentSpec

// addController also attaches the runtime state every controlled actor
// needs: counters, velocity and locomotion.
func addController(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[controllerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode controller spec: %w", err)
	}
	ctrl := ControllerFromSpec(spec)
	if err := ecs.Add(w, e, component.ControllerComponent.Kind(), &ctrl); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.MoveInfoComponent.Kind(), &component.MoveInfo{}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.LocomotionComponent.Kind(), &component.Locomotion{})
}

// ControllerFromSpec fills unset tunables from component.DefaultController.
// Negative speeds are ignored.
func ControllerFromSpec(spec prefabs.ControllerComponentSpec) component.Controller {
	c := component.DefaultController()
	setFloat := func(dst *float64, v *float64) {
		if v != nil && *v >= 0 {
			*dst = *v
		}
	}
	setTicks := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	setFloat(&c.MoveAccel, spec.MoveAccel)
	setFloat(&c.MaxRun, spec.MaxRun)
	setFloat(&c.MaxFall, spec.MaxFall)
	setFloat(&c.Gravity, spec.Gravity)
	setFloat(&c.JumpSpeed, spec.JumpSpeed)
	setFloat(&c.Friction, spec.Friction)
	setFloat(&c.WalkFactor, spec.WalkFactor)
	setTicks(&c.JumpBufferTicks, spec.JumpBufferTicks)
	setTicks(&c.CoyoteTicks, spec.CoyoteTicks)
	setTicks(&c.JumpBoostTicks, spec.JumpBoostTicks)
	return c
}

type sensorsSpec = prefabs.SensorsComponentSpec

func addSensors(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[sensorsSpec](raw)
	if err != nil {
		return fmt.Errorf("decode sensors spec: %w", err)
	}
	if spec.Ground == nil {
		return fmt.Errorf("sensors: ground sensor is required")
	}

	var refs component.SensorRefs
	boxes := []struct {
		box  *prefabs.BoxSpec
		kind component.SensorKind
		ref  *uint64
	}{
		{spec.Ground, component.SensorGround, &refs.Ground},
		{spec.Left, component.SensorWallLeft, &refs.Left},
		{spec.Right, component.SensorWallRight, &refs.Right},
	}
	for _, b := range boxes {
		if b.box == nil {
			continue
		}
		if b.box.Width <= 0 || b.box.Height <= 0 {
			return fmt.Errorf("sensors: %v sensor needs a positive size", b.kind)
		}
		child := ecs.CreateEntity(w)
		ctx.children = append(ctx.children, child)
		if err := ecs.Add(w, child, component.SensorComponent.Kind(), &component.Sensor{
			Owner:   uint64(e),
			Kind:    b.kind,
			Width:   b.box.Width,
			Height:  b.box.Height,
			OffsetX: b.box.OffsetX,
			OffsetY: b.box.OffsetY,
		}); err != nil {
			return err
		}
		*b.ref = uint64(child)
	}
	return ecs.Add(w, e, component.SensorRefsComponent.Kind(), &refs)
}

type probesSpec = prefabs.ProbesComponentSpec

func addProbes(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[probesSpec](raw)
	if err != nil {
		return fmt.Errorf("decode probes spec: %w", err)
	}
	shape := func(p prefabs.ProbeSpec) component.ProbeShape {
		return component.ProbeShape{
			OffsetX:     p.OffsetX,
			OffsetY:     p.OffsetY,
			HalfWidth:   p.HalfWidth,
			HalfHeight:  p.HalfHeight,
			MaxDistance: p.MaxDistance,
		}
	}
	return ecs.Add(w, e, component.ProbesComponent.Kind(), &component.Probes{
		GroundShape: shape(spec.Ground),
		LeftShape:   shape(spec.Left),
		RightShape:  shape(spec.Right),
	})
}
