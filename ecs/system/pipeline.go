package system

import "github.com/milk9111/ledge/ecs"

// Pipeline is the fixed-tick system order for actor movement plus the
// shared state the systems hand to each other.
type Pipeline struct {
	Overlaps  *OverlapQueue
	Physics   *PhysicsSystem
	Scheduler *ecs.Scheduler
}

// NewPipeline wires contact tracking, ground state, probes, movement and
// the physics step in that order. Overlaps reported by one step are folded
// into the contact sets at the start of the next tick.
func NewPipeline() *Pipeline {
	overlaps := &OverlapQueue{}
	physics := NewPhysicsSystem(overlaps)
	return &Pipeline{
		Overlaps: overlaps,
		Physics:  physics,
		Scheduler: ecs.NewScheduler(
			NewContactSensorSystem(overlaps),
			NewGroundStateSystem(),
			NewProbeSystem(physics),
			NewMovementSystem(),
			physics,
		),
	}
}

func (p *Pipeline) Tick(w *ecs.World) {
	if p == nil {
		return
	}
	p.Scheduler.Update(w)
}
