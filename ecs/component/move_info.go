package component

// MoveInfo holds the per-actor jump timing counters. Each tick counter drops
// by one per tick unless something set it during that tick. Only positivity
// is ever tested.
type MoveInfo struct {
	ShouldJumpTicks int
	CoyoteTimeTicks int
	JumpBoostTicks  int
	Walk            bool
}

var MoveInfoComponent = NewComponent[MoveInfo]()
