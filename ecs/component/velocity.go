package component

// Velocity is the actor's linear velocity in simulation units (pixels per
// second). It is the authoritative value written back to the physics body.
type Velocity struct {
	X float64
	Y float64
}

var VelocityComponent = NewComponent[Velocity]()

// VelocitySnapshot holds a velocity captured on pause. It only exists while
// the game is paused.
type VelocitySnapshot struct {
	X float64
	Y float64
}

var VelocitySnapshotComponent = NewComponent[VelocitySnapshot]()
