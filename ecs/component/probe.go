package component

// Probe is the latest result of one directional shape cast.
type Probe struct {
	Hit      bool
	Distance float64
}

// Within reports whether the probe hit something closer than d.
func (p Probe) Within(d float64) bool {
	return p.Hit && p.Distance < d
}

// ProbeShape is a box swept from an anchor offset (relative to the body
// center) along a fixed direction.
type ProbeShape struct {
	OffsetX     float64
	OffsetY     float64
	HalfWidth   float64
	HalfHeight  float64
	MaxDistance float64
}

// Probes holds the ground and wall cast results refreshed every tick.
type Probes struct {
	Ground Probe
	Left   Probe
	Right  Probe

	GroundShape ProbeShape
	LeftShape   ProbeShape
	RightShape  ProbeShape
}

var ProbesComponent = NewComponent[Probes]()
