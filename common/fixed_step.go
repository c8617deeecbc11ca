package common

import "time"

// MaxCatchUpTicks caps how many ticks one frame may run after a stall.
const MaxCatchUpTicks = 8

// FixedStep converts variable frame time into a whole number of fixed ticks.
type FixedStep struct {
	Step        time.Duration
	accumulator time.Duration
}

func NewFixedStep(rate int) *FixedStep {
	if rate <= 0 {
		rate = TickRate
	}
	return &FixedStep{Step: time.Second / time.Duration(rate)}
}

// Advance adds elapsed frame time and returns how many ticks are due.
// Time beyond MaxCatchUpTicks is discarded.
func (f *FixedStep) Advance(elapsed time.Duration) int {
	if f == nil || f.Step <= 0 || elapsed <= 0 {
		return 0
	}
	f.accumulator += elapsed
	ticks := int(f.accumulator / f.Step)
	if ticks > MaxCatchUpTicks {
		ticks = MaxCatchUpTicks
		f.accumulator = 0
		return ticks
	}
	f.accumulator -= time.Duration(ticks) * f.Step
	return ticks
}

// Reset drops any accumulated time, e.g. after resuming from pause.
func (f *FixedStep) Reset() {
	if f != nil {
		f.accumulator = 0
	}
}
