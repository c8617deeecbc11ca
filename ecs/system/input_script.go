package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/ledge/prefabs"
)

// ScriptDevice is a Device driven by a tengo script. Before each sample the
// script runs with `frame` set to the frame number and must assign the
// globals `move` (float), `jump` (bool) and `walk` (bool).
type ScriptDevice struct {
	path     string
	compiled *tengo.Compiled

	move float64
	jump bool
	walk bool
}

// LoadScriptDevice compiles the named script from prefabs/scripts.
func LoadScriptDevice(name string) (*ScriptDevice, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("input script %q: %w", name, err)
	}
	d, err := NewScriptDevice(src)
	if err != nil {
		return nil, fmt.Errorf("input script %q: %w", name, err)
	}
	d.path = name
	return d, nil
}

// NewScriptDevice compiles src.
func NewScriptDevice(src []byte) (*ScriptDevice, error) {
	script := tengo.NewScript(src)
	_ = script.Add("frame", 0)
	_ = script.Add("move", 0.0)
	_ = script.Add("jump", false)
	_ = script.Add("walk", false)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &ScriptDevice{compiled: compiled}, nil
}

// Poll runs the script for frame and latches its outputs.
func (d *ScriptDevice) Poll(frame int) error {
	if d == nil || d.compiled == nil {
		return fmt.Errorf("nil script device")
	}
	if err := d.compiled.Set("frame", frame); err != nil {
		return err
	}
	if err := d.compiled.Run(); err != nil {
		return fmt.Errorf("frame %d: %w", frame, err)
	}
	d.move = d.compiled.Get("move").Float()
	d.jump = d.compiled.Get("jump").Bool()
	d.walk = d.compiled.Get("walk").Bool()
	return nil
}

func (d *ScriptDevice) Name() string {
	if d == nil || strings.TrimSpace(d.path) == "" {
		return "inline"
	}
	return d.path
}

func (d *ScriptDevice) MoveAxis() float64 { return d.move }
func (d *ScriptDevice) JumpHeld() bool    { return d.jump }
func (d *ScriptDevice) WalkHeld() bool    { return d.walk }
