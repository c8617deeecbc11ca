package component

// PlayerTag marks an actor driven by the local input device.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// TerrainTag marks static level geometry.
type TerrainTag struct{}

var TerrainTagComponent = NewComponent[TerrainTag]()
