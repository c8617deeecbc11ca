package system

import (
	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/component"
)

// OverlapEvent is one overlap notification from the physics engine.
type OverlapEvent struct {
	Sensor  ecs.Entity
	Other   ecs.Entity
	Started bool
}

// OverlapQueue collects overlap notifications produced during a physics
// step until the contact system drains them on the next tick.
type OverlapQueue struct {
	events []OverlapEvent
}

func (q *OverlapQueue) OverlapStarted(sensor, other ecs.Entity) {
	if q == nil {
		return
	}
	q.events = append(q.events, OverlapEvent{Sensor: sensor, Other: other, Started: true})
}

func (q *OverlapQueue) OverlapEnded(sensor, other ecs.Entity) {
	if q == nil {
		return
	}
	q.events = append(q.events, OverlapEvent{Sensor: sensor, Other: other})
}

func (q *OverlapQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.events)
}

func (q *OverlapQueue) drain() []OverlapEvent {
	if q == nil || len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

// ContactSensorSystem folds overlap notifications into each sensor's
// contact set, in the order they were reported.
type ContactSensorSystem struct {
	overlaps *OverlapQueue
}

func NewContactSensorSystem(overlaps *OverlapQueue) *ContactSensorSystem {
	return &ContactSensorSystem{overlaps: overlaps}
}

func (c *ContactSensorSystem) Update(w *ecs.World) {
	if c == nil || w == nil {
		return
	}
	for _, ev := range c.overlaps.drain() {
		sensor, ok := ecs.Get(w, ev.Sensor, component.SensorComponent.Kind())
		if !ok {
			continue
		}
		if !ev.Started {
			sensor.Contacts.Remove(uint64(ev.Other))
			continue
		}
		owner := ecs.Entity(sensor.Owner)
		if !ecs.Has(w, owner, component.ControllerComponent.Kind()) {
			continue
		}
		if ecs.Has(w, ev.Other, component.SensorComponent.Kind()) {
			continue
		}
		sensor.Contacts.Insert(uint64(ev.Other))
	}
}
