package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a tile grid with row 0 at the top, as drawn in the editor.
// Entity positions are pixels in the same top-down space.
type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
}

type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// LoadLevelFromFS reads an embedded level.
func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

// Load reads a level from disk when the path exists, falling back to the
// embedded copy.
func Load(name string) (*Level, error) {
	if data, err := os.ReadFile(name); err == nil {
		return Parse(data)
	}
	return LoadLevelFromFS(name)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("level: invalid size %dx%d", l.Width, l.Height)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("level: layer %d has %d tiles, want %d", i, len(layer), l.Width*l.Height)
		}
	}
	return nil
}

// PhysicsLayer reports whether layer i contributes collision geometry.
// Levels without layer metadata treat every layer as solid.
func (l *Level) PhysicsLayer(i int) bool {
	if i < 0 || i >= len(l.LayerMeta) {
		return len(l.LayerMeta) == 0
	}
	return l.LayerMeta[i].Physics
}
