package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// ControllerComponentSpec holds movement tunables. Omitted speeds fall back
// to the defaults in component.DefaultController; an explicit 0 is kept.
// Tick windows of 0 or less fall back as well.
type ControllerComponentSpec struct {
	MoveAccel       *float64 `yaml:"move_accel"`
	MaxRun          *float64 `yaml:"max_run"`
	MaxFall         *float64 `yaml:"max_fall"`
	Gravity         *float64 `yaml:"gravity"`
	JumpSpeed       *float64 `yaml:"jump_speed"`
	Friction        *float64 `yaml:"friction"`
	WalkFactor      *float64 `yaml:"walk_factor"`
	JumpBufferTicks int      `yaml:"jump_buffer_ticks"`
	CoyoteTicks     int      `yaml:"coyote_ticks"`
	JumpBoostTicks  int      `yaml:"jump_boost_ticks"`
}

type TransformComponentSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type PhysicsBodyComponentSpec struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Mass          float64 `yaml:"mass"`
	Friction      float64 `yaml:"friction"`
	Static        bool    `yaml:"static"`
	OffsetX       float64 `yaml:"offset_x"`
	OffsetY       float64 `yaml:"offset_y"`
	DefaultWidth  float64 `yaml:"default_width"`
	DefaultHeight float64 `yaml:"default_height"`
}

type CollisionLayerComponentSpec struct {
	Category uint32 `yaml:"category"`
	Mask     uint32 `yaml:"mask"`
}

type BoxSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

// SensorsComponentSpec describes the detector shapes attached to an actor.
type SensorsComponentSpec struct {
	Ground *BoxSpec `yaml:"ground"`
	Left   *BoxSpec `yaml:"left"`
	Right  *BoxSpec `yaml:"right"`
}

type ProbeSpec struct {
	OffsetX     float64 `yaml:"offset_x"`
	OffsetY     float64 `yaml:"offset_y"`
	HalfWidth   float64 `yaml:"half_width"`
	HalfHeight  float64 `yaml:"half_height"`
	MaxDistance float64 `yaml:"max_distance"`
}

type ProbesComponentSpec struct {
	Ground ProbeSpec `yaml:"ground"`
	Left   ProbeSpec `yaml:"left"`
	Right  ProbeSpec `yaml:"right"`
}
