package component

// SensorKind identifies which detector shape of an actor a sensor is.
type SensorKind uint8

const (
	SensorGround SensorKind = iota + 1
	SensorWallLeft
	SensorWallRight
)

func (k SensorKind) String() string {
	switch k {
	case SensorGround:
		return "ground"
	case SensorWallLeft:
		return "wall_left"
	case SensorWallRight:
		return "wall_right"
	default:
		return "sensor"
	}
}

// ContactSet is the exact set of bodies currently overlapping one detector
// shape. Insert is idempotent and Remove always clears membership.
//
// A body touching the detector through two distinct shapes at once is still
// one member; the first end notification removes it.
type ContactSet struct {
	bodies map[uint64]struct{}
}

func (s *ContactSet) Insert(body uint64) {
	if s == nil {
		return
	}
	if s.bodies == nil {
		s.bodies = make(map[uint64]struct{}, 4)
	}
	s.bodies[body] = struct{}{}
}

func (s *ContactSet) Remove(body uint64) {
	if s == nil {
		return
	}
	delete(s.bodies, body)
}

func (s *ContactSet) Contains(body uint64) bool {
	if s == nil {
		return false
	}
	_, ok := s.bodies[body]
	return ok
}

func (s *ContactSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bodies)
}

func (s *ContactSet) Empty() bool {
	return s.Len() == 0
}

// Sensor is a detector shape child of Owner. Owner is an ecs.Entity.
type Sensor struct {
	Owner    uint64
	Kind     SensorKind
	Contacts ContactSet

	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
}

var SensorComponent = NewComponent[Sensor]()

// SensorRefs points from an actor to its sensor children.
type SensorRefs struct {
	Ground uint64
	Left   uint64
	Right  uint64
}

var SensorRefsComponent = NewComponent[SensorRefs]()
