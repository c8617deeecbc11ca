package component

// Transform is the world position of an entity's body center. The world is
// y-up: positive Y points away from the ground.
type Transform struct {
	X float64
	Y float64
}

var TransformComponent = NewComponent[Transform]()
