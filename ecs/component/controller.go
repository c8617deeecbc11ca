package component

// Controller carries the movement tunables of an actor in design units.
// The integrator multiplies speeds and accelerations by common.VelocityScale.
type Controller struct {
	MoveAccel  float64
	MaxRun     float64
	MaxFall    float64
	Gravity    float64
	JumpSpeed  float64
	Friction   float64
	WalkFactor float64

	JumpBufferTicks int
	CoyoteTicks     int
	JumpBoostTicks  int
}

var ControllerComponent = NewComponent[Controller]()

// DefaultController returns the tuning the prefabs fall back to.
func DefaultController() Controller {
	return Controller{
		MoveAccel:       0.5,
		MaxRun:          2.0,
		MaxFall:         6.0,
		Gravity:         0.2,
		JumpSpeed:       4.0,
		Friction:        0.6,
		WalkFactor:      0.5,
		JumpBufferTicks: 8,
		CoyoteTicks:     5,
		JumpBoostTicks:  2,
	}
}
