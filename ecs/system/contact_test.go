package system

import (
	"testing"

	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/component"
)

type contactFixture struct {
	w       *ecs.World
	queue   *OverlapQueue
	sys     *ContactSensorSystem
	actor   ecs.Entity
	sensor  ecs.Entity
	terrain ecs.Entity
}

func newContactFixture(t *testing.T, controlled bool) *contactFixture {
	t.Helper()
	w := ecs.NewWorld()
	actor := ecs.CreateEntity(w)
	if controlled {
		ctrl := component.DefaultController()
		if err := ecs.Add(w, actor, component.ControllerComponent.Kind(), &ctrl); err != nil {
			t.Fatalf("add controller: %v", err)
		}
	}
	sensor := ecs.CreateEntity(w)
	if err := ecs.Add(w, sensor, component.SensorComponent.Kind(), &component.Sensor{Owner: uint64(actor), Kind: component.SensorGround}); err != nil {
		t.Fatalf("add sensor: %v", err)
	}
	terrain := ecs.CreateEntity(w)
	if err := ecs.Add(w, terrain, component.TerrainTagComponent.Kind(), &component.TerrainTag{}); err != nil {
		t.Fatalf("add terrain: %v", err)
	}
	q := &OverlapQueue{}
	return &contactFixture{w: w, queue: q, sys: NewContactSensorSystem(q), actor: actor, sensor: sensor, terrain: terrain}
}

func (f *contactFixture) contacts() *component.ContactSet {
	s, _ := ecs.Get(f.w, f.sensor, component.SensorComponent.Kind())
	return &s.Contacts
}

func TestContactSensorSystem(t *testing.T) {
	tests := []struct {
		name       string
		controlled bool
		events     func(f *contactFixture)
		want       int
	}{
		{
			name:       "begin inserts",
			controlled: true,
			events:     func(f *contactFixture) { f.queue.OverlapStarted(f.sensor, f.terrain) },
			want:       1,
		},
		{
			name:       "round trip leaves set empty",
			controlled: true,
			events: func(f *contactFixture) {
				f.queue.OverlapStarted(f.sensor, f.terrain)
				f.queue.OverlapEnded(f.sensor, f.terrain)
			},
			want: 0,
		},
		{
			name:       "duplicate begin is idempotent and one end clears",
			controlled: true,
			events: func(f *contactFixture) {
				f.queue.OverlapStarted(f.sensor, f.terrain)
				f.queue.OverlapStarted(f.sensor, f.terrain)
				f.queue.OverlapEnded(f.sensor, f.terrain)
			},
			want: 0,
		},
		{
			name:       "end without begin is a no-op",
			controlled: true,
			events:     func(f *contactFixture) { f.queue.OverlapEnded(f.sensor, f.terrain) },
			want:       0,
		},
		{
			name:       "uncontrolled owner is ignored",
			controlled: false,
			events:     func(f *contactFixture) { f.queue.OverlapStarted(f.sensor, f.terrain) },
			want:       0,
		},
		{
			name:       "other sensors are ignored",
			controlled: true,
			events: func(f *contactFixture) {
				other := ecs.CreateEntity(f.w)
				_ = ecs.Add(f.w, other, component.SensorComponent.Kind(), &component.Sensor{Owner: uint64(other)})
				f.queue.OverlapStarted(f.sensor, other)
			},
			want: 0,
		},
		{
			name:       "unknown sensor is dropped",
			controlled: true,
			events:     func(f *contactFixture) { f.queue.OverlapStarted(f.terrain, f.sensor) },
			want:       0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newContactFixture(t, tc.controlled)
			tc.events(f)
			f.sys.Update(f.w)
			if got := f.contacts().Len(); got != tc.want {
				t.Fatalf("expected %d contacts, got %d", tc.want, got)
			}
			if f.queue.Len() != 0 {
				t.Fatalf("expected queue drained, %d left", f.queue.Len())
			}
		})
	}
}

func TestContactSensorSystemAcrossTicks(t *testing.T) {
	f := newContactFixture(t, true)
	f.queue.OverlapStarted(f.sensor, f.terrain)
	f.sys.Update(f.w)
	f.sys.Update(f.w)
	if !f.contacts().Contains(uint64(f.terrain)) {
		t.Fatalf("contact must persist until an end notification")
	}
	f.queue.OverlapEnded(f.sensor, f.terrain)
	f.sys.Update(f.w)
	if !f.contacts().Empty() {
		t.Fatalf("expected contact cleared")
	}
}
