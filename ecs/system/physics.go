package system

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledge/common"
	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/component"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeActor
	collisionTypeSensor
)

// castSkin pulls cast origins back inside the caster so a surface flush
// with the probe anchor still reports a hit at distance zero.
const castSkin = 1.0

// PhysicsSystem owns the Chipmunk space. Each tick it registers new bodies,
// writes actor velocities into their bodies, steps the space and syncs
// positions and velocities back. Sensor overlaps seen during the step are
// reported to the overlap queue.
type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool
	overlaps      *OverlapQueue

	entities     map[ecs.Entity]*bodyInfo
	shapeToBody  map[*cp.Shape]ecs.Entity
	sensorShapes map[*cp.Shape]ecs.Entity
}

type bodyInfo struct {
	body   *cp.Body
	shapes []*cp.Shape
	static bool
}

func NewPhysicsSystem(overlaps *OverlapQueue) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})
	return &PhysicsSystem{
		space:        space,
		overlaps:     overlaps,
		entities:     make(map[ecs.Entity]*bodyInfo),
		shapeToBody:  make(map[*cp.Shape]ecs.Entity),
		sensorShapes: make(map[*cp.Shape]ecs.Entity),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil || ps.space == nil {
		return
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.syncSensors(w)
	ps.writeVelocities(w)

	ps.space.Step(common.TickDuration)

	ps.syncBodies(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	sensorHandler := ps.space.NewWildcardCollisionHandler(collisionTypeSensor)
	sensorHandler.UserData = ps
	sensorHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		sys.notifyOverlap(arb, true)
		return true
	}
	sensorHandler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return
		}
		sys.notifyOverlap(arb, false)
	}

	ps.handlersReady = true
}

// notifyOverlap reports the pair once per sensor side of the arbiter.
func (ps *PhysicsSystem) notifyOverlap(arb *cp.Arbiter, started bool) {
	shapeA, shapeB := arb.Shapes()
	pairs := [2][2]*cp.Shape{{shapeA, shapeB}, {shapeB, shapeA}}
	for _, pair := range pairs {
		sensor, ok := ps.sensorShapes[pair[0]]
		if !ok {
			continue
		}
		other, ok := ps.entityForShape(pair[1])
		if !ok {
			continue
		}
		if started {
			ps.overlaps.OverlapStarted(sensor, other)
		} else {
			ps.overlaps.OverlapEnded(sensor, other)
		}
	}
}

func (ps *PhysicsSystem) entityForShape(shape *cp.Shape) (ecs.Entity, bool) {
	if e, ok := ps.shapeToBody[shape]; ok {
		return e, true
	}
	e, ok := ps.sensorShapes[shape]
	return e, ok
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		if _, ok := ps.entities[e]; ok {
			continue
		}
		bodyComp, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		transform, _ := ecs.Get(w, e, component.TransformComponent.Kind())

		layer := component.CollisionLayer{Category: component.LayerTerrain}
		if cl, ok := ecs.Get(w, e, component.CollisionLayerComponent.Kind()); ok {
			layer = *cl
		}

		info := ps.createBodyInfo(transform, bodyComp, layer)
		if info == nil {
			continue
		}
		ps.entities[e] = info
		for _, shape := range info.shapes {
			ps.shapeToBody[shape] = e
		}
		bodyComp.Body = info.body
		bodyComp.Shape = info.shapes[0]
	}
}

func (ps *PhysicsSystem) createBodyInfo(transform *component.Transform, bodyComp *component.PhysicsBody, layer component.CollisionLayer) *bodyInfo {
	width, height := bodyComp.Width, bodyComp.Height
	if width <= 0 || height <= 0 {
		width = common.TileSize
		height = common.TileSize
	}
	filter := shapeFilter(layer)

	if bodyComp.Static {
		cx := transform.X + bodyComp.OffsetX
		cy := transform.Y + bodyComp.OffsetY
		bb := cp.BB{L: cx - width/2, B: cy - height/2, R: cx + width/2, T: cy + height/2}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(0)
		shape.SetCollisionType(collisionTypeSolid)
		shape.SetFilter(filter)
		ps.space.AddShape(shape)
		return &bodyInfo{body: ps.space.StaticBody, shapes: []*cp.Shape{shape}, static: true}
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetAngle(0)

	bb := cp.BB{
		L: bodyComp.OffsetX - width/2,
		B: bodyComp.OffsetY - height/2,
		R: bodyComp.OffsetX + width/2,
		T: bodyComp.OffsetY + height/2,
	}
	shape := cp.NewBox2(body, bb, 0)
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeActor)
	shape.SetFilter(filter)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	log.Printf("physics: created body %.0fx%.0f at (%.1f, %.1f)", width, height, transform.X, transform.Y)
	return &bodyInfo{body: body, shapes: []*cp.Shape{shape}}
}

// syncSensors attaches every sensor child to its owner's body once the
// owner has one.
func (ps *PhysicsSystem) syncSensors(w *ecs.World) {
	ecs.ForEach(w, component.SensorComponent.Kind(), func(e ecs.Entity, sensor *component.Sensor) {
		if _, ok := ps.entities[e]; ok {
			return
		}
		owner, ok := ps.entities[ecs.Entity(sensor.Owner)]
		if !ok || owner.static {
			return
		}
		width, height := sensor.Width, sensor.Height
		if width <= 0 || height <= 0 {
			return
		}
		bb := cp.BB{
			L: sensor.OffsetX - width/2,
			B: sensor.OffsetY - height/2,
			R: sensor.OffsetX + width/2,
			T: sensor.OffsetY + height/2,
		}
		shape := cp.NewBox2(owner.body, bb, 0)
		shape.SetSensor(true)
		shape.SetCollisionType(collisionTypeSensor)
		shape.SetFilter(shapeFilter(component.CollisionLayer{
			Category: component.LayerSensor,
			Mask:     component.LayerTerrain | component.LayerPlatform | component.LayerActor,
		}))
		ps.space.AddShape(shape)
		ps.sensorShapes[shape] = e
		ps.entities[e] = &bodyInfo{body: owner.body, shapes: []*cp.Shape{shape}, static: true}
	})
}

func (ps *PhysicsSystem) writeVelocities(w *ecs.World) {
	ecs.ForEach2(w, component.VelocityComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, vel *component.Velocity, body *component.PhysicsBody) {
		if body.Body == nil || body.Static {
			return
		}
		body.Body.SetVelocity(vel.X, vel.Y)
	})
}

// syncBodies copies positions and solver-adjusted velocities back after a step.
func (ps *PhysicsSystem) syncBodies(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.PhysicsBody, transform *component.Transform) {
		if body.Body == nil || body.Static {
			return
		}
		pos := body.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		if vel, ok := ecs.Get(w, e, component.VelocityComponent.Kind()); ok {
			v := body.Body.Velocity()
			vel.X = v.X
			vel.Y = v.Y
		}
	})
}

// cleanupEntities drops bodies of destroyed entities. Sensors go with their
// owner. All shapes are removed before any body.
func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	var dead []ecs.Entity
	for e := range ps.entities {
		if !ps.live(w, e) {
			dead = append(dead, e)
		}
	}
	if len(dead) == 0 {
		return
	}
	for _, e := range dead {
		for _, shape := range ps.entities[e].shapes {
			ps.space.RemoveShape(shape)
			delete(ps.shapeToBody, shape)
			delete(ps.sensorShapes, shape)
		}
	}
	for _, e := range dead {
		info := ps.entities[e]
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}

func (ps *PhysicsSystem) live(w *ecs.World, e ecs.Entity) bool {
	if !w.IsAlive(e) {
		return false
	}
	if ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
		return true
	}
	sensor, ok := ecs.Get(w, e, component.SensorComponent.Kind())
	return ok && w.IsAlive(ecs.Entity(sensor.Owner))
}

// ShapeCast sweeps the cast box as three fat segments spread across the
// box's width perpendicular to the direction and returns the nearest hit.
func (ps *PhysicsSystem) ShapeCast(c ShapeCast) (float64, bool) {
	if ps == nil || ps.space == nil || c.MaxDistance <= 0 {
		return 0, false
	}
	dir := cp.Vector{X: c.DirX, Y: c.DirY}.Normalize()
	perp := dir.Perp()

	along, across := c.HalfHeight, c.HalfWidth
	if math.Abs(dir.X) > math.Abs(dir.Y) {
		along, across = c.HalfWidth, c.HalfHeight
	}
	radius := math.Min(along, across)
	spread := math.Max(across-radius, 0)

	filter := cp.ShapeFilter{Group: 0, Categories: ^uint(0), Mask: uint(c.Mask)}
	length := c.MaxDistance + castSkin
	best := math.Inf(1)
	for _, k := range [3]float64{-1, 0, 1} {
		origin := cp.Vector{X: c.OriginX, Y: c.OriginY}.Add(perp.Mult(k * spread)).Sub(dir.Mult(castSkin))
		end := origin.Add(dir.Mult(length))
		info := ps.space.SegmentQueryFirst(origin, end, radius, filter)
		if info.Shape == nil {
			continue
		}
		if d := info.Alpha*length - castSkin; d < best {
			best = d
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return math.Max(best, 0), true
}

func shapeFilter(layer component.CollisionLayer) cp.ShapeFilter {
	cat := layer.Category
	mask := layer.Mask
	if cat == 0 {
		cat = component.LayerTerrain
	}
	if mask == 0 {
		mask = ^uint32(0)
	}
	return cp.ShapeFilter{Group: 0, Categories: uint(cat), Mask: uint(mask)}
}
