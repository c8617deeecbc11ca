package component

type LocomotionMode uint8

const (
	LocomotionIdle LocomotionMode = iota
	LocomotionRun
	LocomotionWalk
	LocomotionAirborne
)

func (m LocomotionMode) String() string {
	switch m {
	case LocomotionRun:
		return "run"
	case LocomotionWalk:
		return "walk"
	case LocomotionAirborne:
		return "airborne"
	default:
		return "idle"
	}
}

// Locomotion is the actor's derived ground classification. Grounded is
// recomputed every tick from the ground sensor; Mode after integration.
type Locomotion struct {
	Grounded bool
	Mode     LocomotionMode
}

var LocomotionComponent = NewComponent[Locomotion]()
