package component

// Input stores the device state last sampled for an actor. The previous
// values drive edge detection for jump and walk.
type Input struct {
	MoveX    float64
	JumpHeld bool
	WalkHeld bool
}

var InputComponent = NewComponent[Input]()
