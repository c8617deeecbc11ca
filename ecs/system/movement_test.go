package system

import (
	"fmt"
	"math"
	"testing"

	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/component"
)

const floatTolerance = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

type tickInput struct {
	grounded bool
	probes   component.Probes
	actions  []component.Action
}

type actorState struct {
	ctrl component.Controller
	info component.MoveInfo
	vel  component.Velocity
}

func newActorState() *actorState {
	return &actorState{ctrl: component.DefaultController()}
}

func (s *actorState) tick(in tickInput) {
	var q component.ActionQueue
	for _, a := range in.actions {
		q.Push(a)
	}
	probes := in.probes
	Integrate(&s.ctrl, &s.info, &s.vel, in.grounded, &probes, &q)
}

func wallProbe(d float64) component.Probe {
	return component.Probe{Hit: true, Distance: d}
}

func TestIntegrateSingleTick(t *testing.T) {
	tests := []struct {
		name   string
		vel    component.Velocity
		info   component.MoveInfo
		walk   bool
		in     tickInput
		wantVX float64
		wantVY float64
		// wantInfo, when set, is the full counter state after the tick.
		wantInfo *component.MoveInfo
	}{
		{
			name:   "grounded move right",
			in:     tickInput{grounded: true, actions: []component.Action{component.Move(1)}},
			wantVX: 32,
			wantVY: 0,
		},
		{
			name:   "airborne gravity",
			vel:    component.Velocity{X: 0, Y: 10},
			wantVX: 0,
			wantVY: 10 - 12.8,
		},
		{
			name:   "max fall clamp",
			vel:    component.Velocity{Y: -380},
			wantVY: -384,
		},
		{
			name:   "right wall pushes back",
			vel:    component.Velocity{X: 64},
			in:     tickInput{grounded: true, probes: component.Probes{Right: wallProbe(0.1)}, actions: []component.Action{component.Move(1)}},
			wantVX: -0.45,
		},
		{
			name:   "left wall pushes back",
			vel:    component.Velocity{X: -64},
			in:     tickInput{grounded: true, probes: component.Probes{Left: wallProbe(0.1)}, actions: []component.Action{component.Move(-1)}},
			wantVX: 0.45,
		},
		{
			name:   "near wall stops",
			vel:    component.Velocity{X: 64},
			in:     tickInput{grounded: true, probes: component.Probes{Right: wallProbe(0.3)}, actions: []component.Action{component.Move(1)}},
			wantVX: 0,
		},
		{
			name:   "moving away from wall is untouched",
			vel:    component.Velocity{X: -64},
			in:     tickInput{grounded: true, probes: component.Probes{Right: wallProbe(0.1)}, actions: []component.Action{component.Move(-1)}},
			wantVX: -96,
		},
		{
			name:   "walk clamp",
			vel:    component.Velocity{X: 200},
			walk:   true,
			in:     tickInput{grounded: true, actions: []component.Action{component.Move(1)}},
			wantVX: 64,
		},
		{
			name:   "run clamp",
			vel:    component.Velocity{X: 200},
			in:     tickInput{grounded: true, actions: []component.Action{component.Move(1)}},
			wantVX: 128,
		},
		{
			name:   "friction without move",
			vel:    component.Velocity{X: 100},
			in:     tickInput{grounded: true},
			wantVX: 60,
		},
		{
			name:   "friction snaps to zero",
			vel:    component.Velocity{X: 0.7},
			in:     tickInput{grounded: true},
			wantVX: 0,
		},
		{
			name:   "touching ground applies resting bias",
			vel:    component.Velocity{Y: -20},
			in:     tickInput{grounded: true, probes: component.Probes{Ground: wallProbe(0.1)}},
			wantVY: 0.45,
		},
		{
			name:   "ground probe out of range falls back to grounded floor",
			vel:    component.Velocity{Y: -20},
			in:     tickInput{grounded: true, probes: component.Probes{Ground: wallProbe(0.4)}},
			wantVY: 0,
		},
		{
			name:   "grounded rising keeps falling under gravity",
			vel:    component.Velocity{Y: 20},
			in:     tickInput{grounded: true},
			wantVY: 20 - 12.8,
		},
		{
			name:   "jump cut while rising",
			vel:    component.Velocity{Y: 90},
			info:   component.MoveInfo{JumpBoostTicks: 0, ShouldJumpTicks: 0},
			in:     tickInput{actions: []component.Action{component.JumpCut()}},
			wantVY: 30 - 12.8,
		},
		{
			name:     "jump cut while falling is ignored",
			vel:      component.Velocity{Y: -10},
			info:     component.MoveInfo{ShouldJumpTicks: 3, JumpBoostTicks: -1},
			in:       tickInput{actions: []component.Action{component.JumpCut()}},
			wantVY:   -10 - 12.8,
			wantInfo: &component.MoveInfo{ShouldJumpTicks: 2, CoyoteTimeTicks: -1, JumpBoostTicks: -2},
		},
		{
			name:   "nan move adds nothing and skips friction",
			vel:    component.Velocity{X: 10},
			in:     tickInput{grounded: true, actions: []component.Action{component.Move(math.NaN())}},
			wantVX: 10,
		},
		{
			name:   "infinite move clamps to unit",
			in:     tickInput{grounded: true, actions: []component.Action{component.Move(math.Inf(-1))}},
			wantVX: -32,
		},
		{
			name:   "two moves accumulate",
			in:     tickInput{grounded: true, actions: []component.Action{component.Move(0.5), component.Move(0.5)}},
			wantVX: 32,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newActorState()
			s.vel = tc.vel
			s.info = tc.info
			s.info.Walk = tc.walk
			s.tick(tc.in)
			if !approx(s.vel.X, tc.wantVX) {
				t.Fatalf("vx: expected %v, got %v", tc.wantVX, s.vel.X)
			}
			if !approx(s.vel.Y, tc.wantVY) {
				t.Fatalf("vy: expected %v, got %v", tc.wantVY, s.vel.Y)
			}
			if tc.wantInfo != nil && s.info != *tc.wantInfo {
				t.Fatalf("counters: expected %+v, got %+v", *tc.wantInfo, s.info)
			}
		})
	}
}

func TestIntegrateCountersDecrement(t *testing.T) {
	s := newActorState()
	s.info = component.MoveInfo{ShouldJumpTicks: 3, CoyoteTimeTicks: 0, JumpBoostTicks: -2}
	s.tick(tickInput{})
	if s.info.ShouldJumpTicks != 2 || s.info.CoyoteTimeTicks != -1 || s.info.JumpBoostTicks != -3 {
		t.Fatalf("unexpected counters %+v", s.info)
	}

	s.info = component.MoveInfo{ShouldJumpTicks: counterFloor, CoyoteTimeTicks: counterFloor, JumpBoostTicks: counterFloor}
	s.tick(tickInput{})
	if s.info.ShouldJumpTicks != counterFloor || s.info.CoyoteTimeTicks != counterFloor || s.info.JumpBoostTicks != counterFloor {
		t.Fatalf("counters must not drift below the floor: %+v", s.info)
	}
}

func TestIntegrateGroundedJump(t *testing.T) {
	s := newActorState()
	s.tick(tickInput{grounded: true, actions: []component.Action{component.Jump()}})

	if !approx(s.vel.Y, 256) {
		t.Fatalf("expected jump speed 256, got %v", s.vel.Y)
	}
	if s.info.JumpBoostTicks != 1 || s.info.ShouldJumpTicks != 0 || s.info.CoyoteTimeTicks != 0 {
		t.Fatalf("unexpected counters after jump %+v", s.info)
	}

	// The boost holds for one more tick, then gravity takes over. The consumed
	// request does not fire again.
	s.tick(tickInput{})
	if !approx(s.vel.Y, 256) {
		t.Fatalf("second boost tick: expected 256, got %v", s.vel.Y)
	}
	s.tick(tickInput{})
	if !approx(s.vel.Y, 256-12.8) {
		t.Fatalf("expected gravity after boost, got %v", s.vel.Y)
	}
}

func TestIntegrateBoostLastsConfiguredTicks(t *testing.T) {
	for _, boost := range []int{1, 2, 4} {
		t.Run(fmt.Sprintf("boost_%d", boost), func(t *testing.T) {
			s := newActorState()
			s.ctrl.JumpBoostTicks = boost
			s.tick(tickInput{grounded: true, actions: []component.Action{component.Jump()}})
			atJumpSpeed := 0
			if approx(s.vel.Y, 256) {
				atJumpSpeed++
			}
			for i := 0; i < boost+4; i++ {
				s.tick(tickInput{})
				if approx(s.vel.Y, 256) {
					atJumpSpeed++
				}
			}
			if atJumpSpeed != boost {
				t.Fatalf("expected %d ticks at jump speed, got %d", boost, atJumpSpeed)
			}
		})
	}
}

func TestIntegrateCoyoteWindow(t *testing.T) {
	for airborne := 1; airborne <= 7; airborne++ {
		s := newActorState()
		s.tick(tickInput{grounded: true})
		for i := 1; i < airborne; i++ {
			s.tick(tickInput{})
		}
		s.vel.Y = -50
		s.tick(tickInput{actions: []component.Action{component.Jump()}})

		jumped := approx(s.vel.Y, 256)
		want := airborne <= 5
		if jumped != want {
			t.Fatalf("jump on airborne tick %d: expected jumped=%v, got vy=%v", airborne, want, s.vel.Y)
		}
	}
}

func TestIntegrateJumpBuffer(t *testing.T) {
	for k := 1; k <= 10; k++ {
		s := newActorState()
		s.info.CoyoteTimeTicks = -10
		s.tick(tickInput{actions: []component.Action{component.Jump()}})
		if s.info.JumpBoostTicks > 0 {
			t.Fatalf("jump must not fire without ground or coyote time")
		}
		for i := 1; i < k; i++ {
			s.tick(tickInput{})
		}
		s.vel.Y = -50
		s.tick(tickInput{grounded: true})

		jumped := approx(s.vel.Y, 256)
		want := k <= 8
		if jumped != want {
			t.Fatalf("landing %d ticks after press: expected jumped=%v, got vy=%v", k, want, s.vel.Y)
		}
	}
}

func TestIntegrateJumpCutClearsJump(t *testing.T) {
	s := newActorState()
	s.tick(tickInput{grounded: true, actions: []component.Action{component.Jump()}})
	s.tick(tickInput{actions: []component.Action{component.JumpCut()}})

	if s.info.JumpBoostTicks != 0 || s.info.ShouldJumpTicks != 0 {
		t.Fatalf("jump cut should clear the jump counters, got %+v", s.info)
	}
	// 256 / 3 then one gravity step.
	if !approx(s.vel.Y, 256.0/3-12.8) {
		t.Fatalf("unexpected vy after cut %v", s.vel.Y)
	}
}

func TestIntegrateResetCountersSkipDecay(t *testing.T) {
	s := newActorState()
	s.tick(tickInput{grounded: true})
	if s.info.CoyoteTimeTicks != 5 {
		t.Fatalf("coyote refreshed this tick should stay at 5, got %d", s.info.CoyoteTimeTicks)
	}
	s.tick(tickInput{})
	if s.info.CoyoteTimeTicks != 4 {
		t.Fatalf("expected coyote 4 one tick after leaving ground, got %d", s.info.CoyoteTimeTicks)
	}
}

func TestIntegrateWalkToggle(t *testing.T) {
	s := newActorState()
	s.tick(tickInput{grounded: true, actions: []component.Action{component.Walk(true)}})
	if !s.info.Walk {
		t.Fatalf("expected walk on")
	}
	s.tick(tickInput{grounded: true, actions: []component.Action{component.Walk(false)}})
	if s.info.Walk {
		t.Fatalf("expected walk off")
	}
}

func TestIntegrateDrainsQueue(t *testing.T) {
	s := newActorState()
	var q component.ActionQueue
	q.Push(component.Move(1))
	q.Push(component.Jump())
	Integrate(&s.ctrl, &s.info, &s.vel, true, &component.Probes{}, &q)
	if q.Len() != 0 {
		t.Fatalf("expected queue drained, %d left", q.Len())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		grounded bool
		walk     bool
		vx       float64
		want     component.LocomotionMode
	}{
		{"airborne", false, false, 10, component.LocomotionAirborne},
		{"idle", true, false, 0, component.LocomotionIdle},
		{"run", true, false, 10, component.LocomotionRun},
		{"walk", true, true, -10, component.LocomotionWalk},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := classify(tc.grounded, tc.walk, tc.vx); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func addMovementActor(t *testing.T, w *ecs.World, skipProbes bool) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	ctrl := component.DefaultController()
	must := func(err error) {
		if err != nil {
			t.Fatalf("add component: %v", err)
		}
	}
	must(ecs.Add(w, e, component.ControllerComponent.Kind(), &ctrl))
	must(ecs.Add(w, e, component.MoveInfoComponent.Kind(), &component.MoveInfo{}))
	must(ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{}))
	must(ecs.Add(w, e, component.LocomotionComponent.Kind(), &component.Locomotion{Grounded: true}))
	must(ecs.Add(w, e, component.ActionQueueComponent.Kind(), &component.ActionQueue{}))
	if !skipProbes {
		must(ecs.Add(w, e, component.ProbesComponent.Kind(), &component.Probes{}))
	}
	return e
}

func TestMovementSystemUpdate(t *testing.T) {
	w := ecs.NewWorld()
	ok := addMovementActor(t, w, false)
	broken := addMovementActor(t, w, true)

	for _, e := range []ecs.Entity{ok, broken} {
		q, _ := ecs.Get(w, e, component.ActionQueueComponent.Kind())
		q.Push(component.Move(1))
	}

	sys := NewMovementSystem()
	sys.Update(w)
	sys.Update(w)

	vel, _ := ecs.Get(w, ok, component.VelocityComponent.Kind())
	// One move tick, then one friction tick.
	if !approx(vel.X, 32*0.6) {
		t.Fatalf("expected vx %v, got %v", 32*0.6, vel.X)
	}
	loco, _ := ecs.Get(w, ok, component.LocomotionComponent.Kind())
	if loco.Mode != component.LocomotionRun {
		t.Fatalf("expected run mode, got %v", loco.Mode)
	}

	brokenVel, _ := ecs.Get(w, broken, component.VelocityComponent.Kind())
	if brokenVel.X != 0 || brokenVel.Y != 0 {
		t.Fatalf("actor without probes must be skipped, got %+v", brokenVel)
	}
	if len(sys.violations.seen) != 1 {
		t.Fatalf("expected one reported violation, got %d", len(sys.violations.seen))
	}
}
