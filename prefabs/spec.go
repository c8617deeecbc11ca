package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// PlayerPrefab is the prefab the game and the simulator spawn actors from.
const PlayerPrefab = "player.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadControllerSpec reads only the controller block of an entity prefab.
// The game uses it to re-apply tunables on hot reload.
func LoadControllerSpec(filename string) (ControllerComponentSpec, error) {
	spec, err := LoadEntityBuildSpec(filename)
	if err != nil {
		return ControllerComponentSpec{}, err
	}
	raw, ok := spec.Components["controller"]
	if !ok {
		return ControllerComponentSpec{}, fmt.Errorf("prefabs: %s: no controller component", filename)
	}
	out, err := DecodeComponentSpec[ControllerComponentSpec](raw)
	if err != nil {
		return ControllerComponentSpec{}, fmt.Errorf("prefabs: %s: decode controller: %w", filename, err)
	}
	return out, nil
}
