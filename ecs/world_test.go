package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/ledge/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex < 0 {
				return
			}
			dead := ents[c.destroyIndex]
			if !DestroyEntity(w, dead) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if IsAlive(w, dead) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if DestroyEntity(w, dead) {
				t.Fatalf("second DestroyEntity should return false")
			}
			if len(Entities(w)) != c.create-1 {
				t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
			}
		})
	}
}

func TestWorldReusesIDsWithNewGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	if err := Add(w, old, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	DestroyEntity(w, old)

	reused := CreateEntity(w)
	if reused.Index() != old.Index() {
		t.Fatalf("expected id %d to be reused, got %d", old.Index(), reused.Index())
	}
	if reused == old {
		t.Fatalf("reused entity must carry a new generation")
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle must not be alive")
	}
	if Has(w, reused, h.Kind()) {
		t.Fatalf("reused entity must not inherit components")
	}
	if _, ok := Get(w, old, h.Kind()); ok {
		t.Fatalf("stale handle must not resolve components")
	}
}

func TestWorldComponentErrors(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := CreateEntity(w)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil_value", err: Add[int](w, e, h.Kind(), nil), want: component.ErrNilComponent},
		{name: "zero_kind", err: Add(w, e, component.ComponentKind[int]{}, intPtr(1)), want: component.ErrInvalidComponentKind},
		{name: "dead_entity", err: Add(w, Entity(99), h.Kind(), intPtr(1)), want: component.ErrEntityNotAlive},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, tc.err)
			}
		})
	}
}

func TestWorldComponentsAndQueries(t *testing.T) {
	w := NewWorld()
	hInt := component.NewComponent[int]()
	hStr := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	tests := []struct {
		name  string
		setup func() error
		check func(t *testing.T)
	}{
		{
			name:  "add_and_get",
			setup: func() error { return Add(w, e1, hInt.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, hInt.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
		},
		{
			name: "get_returns_pointer",
			check: func(t *testing.T) {
				v, _ := Get(w, e1, hInt.Kind())
				*v = 11
				again, _ := Get(w, e1, hInt.Kind())
				if *again != 11 {
					t.Fatalf("expected in-place update, got %d", *again)
				}
			},
		},
		{
			name: "query_intersection",
			setup: func() error {
				if err := Add(w, e2, hInt.Kind(), intPtr(2)); err != nil {
					return err
				}
				if err := Add(w, e2, hStr.Kind(), stringPtr("b")); err != nil {
					return err
				}
				return Add(w, e3, hStr.Kind(), stringPtr("c"))
			},
			check: func(t *testing.T) {
				res := w.Query(hInt.Kind(), hStr.Kind())
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "first",
			check: func(t *testing.T) {
				e, ok := w.First(hStr.Kind())
				if !ok || (e != e2 && e != e3) {
					t.Fatalf("unexpected first %v ok=%v", e, ok)
				}
			},
		},
		{
			name:  "remove",
			setup: func() error { Remove(w, e2, hStr.Kind()); return nil },
			check: func(t *testing.T) {
				if Has(w, e2, hStr.Kind()) {
					t.Fatalf("expected string removed from e2")
				}
				if res := w.Query(hInt.Kind(), hStr.Kind()); len(res) != 0 {
					t.Fatalf("expected empty query, got %v", res)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setup != nil {
				if err := tc.setup(); err != nil {
					t.Fatalf("setup failed: %v", err)
				}
			}
			tc.check(t)
		})
	}
}

func TestForEachVariants(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	kc := component.NewComponentKind[int]()
	kd := component.NewComponentKind[int]()

	all := CreateEntity(w)
	partial := CreateEntity(w)
	dead := CreateEntity(w)
	for _, k := range []component.ComponentKind[int]{ka, kb, kc, kd} {
		if err := Add(w, all, k, intPtr(1)); err != nil {
			t.Fatal(err)
		}
		if err := Add(w, dead, k, intPtr(1)); err != nil {
			t.Fatal(err)
		}
	}
	if err := Add(w, partial, ka, intPtr(2)); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, partial, kb, intPtr(2)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, dead)

	tests := []struct {
		name string
		want int
		run  func() int
	}{
		{name: "one", want: 2, run: func() int {
			n := 0
			ForEach(w, ka, func(Entity, *int) { n++ })
			return n
		}},
		{name: "two", want: 2, run: func() int {
			n := 0
			ForEach2(w, ka, kb, func(Entity, *int, *int) { n++ })
			return n
		}},
		{name: "three", want: 1, run: func() int {
			n := 0
			ForEach3(w, ka, kb, kc, func(Entity, *int, *int, *int) { n++ })
			return n
		}},
		{name: "four", want: 1, run: func() int {
			n := 0
			ForEach4(w, ka, kb, kc, kd, func(Entity, *int, *int, *int, *int) { n++ })
			return n
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.run(); got != tc.want {
				t.Fatalf("expected %d visits, got %d", tc.want, got)
			}
		})
	}
}

type recordSystem struct {
	name string
	log  *[]string
}

func (r recordSystem) Update(*World) {
	*r.log = append(*r.log, r.name)
}

func TestSchedulerRunsInOrder(t *testing.T) {
	var got []string
	s := NewScheduler(recordSystem{"a", &got}, nil, recordSystem{"b", &got})
	s.Add(recordSystem{"c", &got})

	s.Update(NewWorld())
	s.Update(NewWorld())

	want := []string{"a", "b", "c", "a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if len(s.Systems()) != 3 {
		t.Fatalf("expected nil system skipped, got %d systems", len(s.Systems()))
	}
}
