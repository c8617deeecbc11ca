package system

import (
	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/component"
)

const (
	groundProbeMask = component.LayerTerrain | component.LayerPlatform
	wallProbeMask   = component.LayerTerrain
)

// ShapeCast sweeps a box with the given half extents from Origin along the
// unit direction Dir for at most MaxDistance, against shapes whose category
// intersects Mask.
type ShapeCast struct {
	OriginX     float64
	OriginY     float64
	DirX        float64
	DirY        float64
	HalfWidth   float64
	HalfHeight  float64
	MaxDistance float64
	Mask        uint32
}

// Caster answers shape casts. The physics system implements it.
type Caster interface {
	ShapeCast(cast ShapeCast) (distance float64, hit bool)
}

// ProbeSystem refreshes the ground and wall probes of every actor. It keeps
// no state between ticks.
type ProbeSystem struct {
	caster     Caster
	violations violations
}

func NewProbeSystem(caster Caster) *ProbeSystem {
	return &ProbeSystem{caster: caster, violations: violations{system: "probe"}}
}

func (p *ProbeSystem) Update(w *ecs.World) {
	if p == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.ProbesComponent.Kind(), func(e ecs.Entity, probes *component.Probes) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			p.violations.report(e, "transform")
			return
		}
		probes.Ground = p.cast(t, probes.GroundShape, 0, -1, groundProbeMask)
		probes.Left = p.cast(t, probes.LeftShape, -1, 0, wallProbeMask)
		probes.Right = p.cast(t, probes.RightShape, 1, 0, wallProbeMask)
	})
}

func (p *ProbeSystem) cast(t *component.Transform, shape component.ProbeShape, dx, dy float64, mask uint32) component.Probe {
	if p.caster == nil || shape.MaxDistance <= 0 {
		return component.Probe{}
	}
	dist, hit := p.caster.ShapeCast(ShapeCast{
		OriginX:     t.X + shape.OffsetX,
		OriginY:     t.Y + shape.OffsetY,
		DirX:        dx,
		DirY:        dy,
		HalfWidth:   shape.HalfWidth,
		HalfHeight:  shape.HalfHeight,
		MaxDistance: shape.MaxDistance,
		Mask:        mask,
	})
	if !hit {
		return component.Probe{}
	}
	return component.Probe{Hit: true, Distance: dist}
}
