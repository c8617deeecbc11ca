package common

const (
	BaseWidth  = 640
	BaseHeight = 360

	TileSize = 16

	// TickRate is the fixed simulation rate in ticks per second.
	TickRate = 64
	// VelocityScale converts design units per tick into simulation units
	// (pixels per second). It equals TickRate and is not tunable.
	VelocityScale = 64.0
)

// TickDuration is the simulated time of one tick in seconds.
const TickDuration = 1.0 / TickRate
