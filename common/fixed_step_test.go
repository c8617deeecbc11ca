package common

import (
	"math"
	"testing"
	"time"
)

func TestFixedStepAdvance(t *testing.T) {
	step := time.Second / TickRate
	tests := []struct {
		name   string
		frames []time.Duration
		want   []int
	}{
		{"exact_ticks", []time.Duration{step, 2 * step}, []int{1, 2}},
		{"accumulates_partial", []time.Duration{step / 2, step / 2, step / 4}, []int{0, 1, 0}},
		{"render_faster_than_sim", []time.Duration{step / 4, step / 4, step / 4, step / 4}, []int{0, 0, 0, 1}},
		{"catch_up_capped", []time.Duration{20 * step, step}, []int{MaxCatchUpTicks, 1}},
		{"ignores_negative", []time.Duration{-step, step}, []int{0, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewFixedStep(TickRate)
			for i, d := range tc.frames {
				if got := f.Advance(d); got != tc.want[i] {
					t.Fatalf("frame %d: expected %d ticks, got %d", i, tc.want[i], got)
				}
			}
		})
	}
}

func TestClampUnit(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.5, 0.5},
		{2, 1},
		{-3, -1},
		{math.Inf(1), 1},
		{math.Inf(-1), -1},
		{math.NaN(), 0},
	}
	for _, tc := range tests {
		if got := ClampUnit(tc.in); got != tc.want {
			t.Fatalf("ClampUnit(%v): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}
