package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledge/common"
	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/component"
	"github.com/milk9111/ledge/ecs/system"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

var (
	skyColor      = color.RGBA{0x1d, 0x22, 0x2b, 0xff}
	terrainColor  = color.RGBA{0x5a, 0x6e, 0x4b, 0xff}
	platformColor = color.RGBA{0x8a, 0x74, 0x50, 0xff}
	actorColor    = color.RGBA{0xe0, 0xc0, 0x60, 0xff}
	probeMiss     = color.RGBA{0x60, 0x90, 0xff, 0xc0}
	probeHit      = color.RGBA{0xff, 0x50, 0x50, 0xe0}
)

// camera maps y-up world space onto the screen, following the player
// horizontally inside the level bounds.
type camera struct {
	x, y float64
}

func newCamera(w *ecs.World, player ecs.Entity) camera {
	var cam camera
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return cam
	}
	cam.x = t.X - common.BaseWidth/2
	if e, ok := w.First(component.LevelBoundsComponent.Kind()); ok {
		bounds, _ := ecs.Get(w, e, component.LevelBoundsComponent.Kind())
		cam.x = common.Clamp(cam.x, 0, math.Max(0, bounds.Width-common.BaseWidth))
	}
	return cam
}

func (c camera) toScreen(x, y float64) (float32, float32) {
	return float32(x - c.x), float32(common.BaseHeight - (y - c.y))
}

// box draws an axis-aligned world box given its center and half extents.
func (c camera) box(screen *ebiten.Image, cx, cy, hw, hh float64, clr color.Color, filled bool) {
	x, y := c.toScreen(cx-hw, cy+hh)
	if filled {
		vector.DrawFilledRect(screen, x, y, float32(2*hw), float32(2*hh), clr, false)
		return
	}
	vector.StrokeRect(screen, x, y, float32(2*hw), float32(2*hh), 1, clr, false)
}

func drawWorld(screen *ebiten.Image, w *ecs.World, physics *system.PhysicsSystem, player ecs.Entity, debug bool) {
	if screen == nil || w == nil {
		return
	}
	screen.Fill(skyColor)
	cam := newCamera(w, player)

	for _, e := range w.Query(component.TerrainTagComponent.Kind(), component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind()) {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		clr := terrainColor
		if layer, ok := ecs.Get(w, e, component.CollisionLayerComponent.Kind()); ok && layer.Category == component.LayerPlatform {
			clr = platformColor
		}
		cam.box(screen, t.X, t.Y, body.Width/2, body.Height/2, clr, true)
	}

	for _, e := range w.Query(component.ControllerComponent.Kind(), component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind()) {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		cam.box(screen, t.X+body.OffsetX, t.Y+body.OffsetY, body.Width/2, body.Height/2, actorColor, true)
		if debug {
			drawProbes(screen, cam, w, e, t)
		}
	}

	if debug && physics != nil {
		cp.DrawSpace(physics.Space(), &physicsDebugDrawer{screen: screen, cam: cam})
	}
}

// drawProbes outlines each probe box swept to its hit distance, or to its
// full reach when nothing was hit.
func drawProbes(screen *ebiten.Image, cam camera, w *ecs.World, e ecs.Entity, t *component.Transform) {
	probes, ok := ecs.Get(w, e, component.ProbesComponent.Kind())
	if !ok {
		return
	}
	sweeps := []struct {
		shape  component.ProbeShape
		result component.Probe
		dx, dy float64
	}{
		{probes.GroundShape, probes.Ground, 0, -1},
		{probes.LeftShape, probes.Left, -1, 0},
		{probes.RightShape, probes.Right, 1, 0},
	}
	for _, s := range sweeps {
		reach := s.shape.MaxDistance
		clr := probeMiss
		if s.result.Hit {
			reach = s.result.Distance
			clr = probeHit
		}
		ax := t.X + s.shape.OffsetX
		ay := t.Y + s.shape.OffsetY
		cx := ax + s.dx*reach/2
		cy := ay + s.dy*reach/2
		cam.box(screen, cx, cy, s.shape.HalfWidth+math.Abs(s.dx)*reach/2, s.shape.HalfHeight+math.Abs(s.dy)*reach/2, clr, false)
	}
}

func drawActorDebug(screen *ebiten.Image, w *ecs.World, player ecs.Entity, frames, ticks int) {
	if screen == nil || w == nil {
		return
	}
	text := fmt.Sprintf("Frames: %d  Ticks: %d  FPS: %.2f", frames, ticks, ebiten.ActualFPS())
	info, okInfo := ecs.Get(w, player, component.MoveInfoComponent.Kind())
	vel, okVel := ecs.Get(w, player, component.VelocityComponent.Kind())
	loco, okLoco := ecs.Get(w, player, component.LocomotionComponent.Kind())
	if okInfo && okVel && okLoco {
		text += fmt.Sprintf("\nMode: %s  Grounded: %v  Walk: %v\nVelocity: %.2f, %.2f\nShouldJump: %d  Coyote: %d  Boost: %d",
			loco.Mode, loco.Grounded, info.Walk, vel.X, vel.Y, info.ShouldJumpTicks, info.CoyoteTimeTicks, info.JumpBoostTicks)
	}
	if probes, ok := ecs.Get(w, player, component.ProbesComponent.Kind()); ok {
		text += fmt.Sprintf("\nProbes: ground %s  left %s  right %s", probeText(probes.Ground), probeText(probes.Left), probeText(probes.Right))
	}
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

func probeText(p component.Probe) string {
	if !p.Hit {
		return "-"
	}
	return fmt.Sprintf("%.2f", p.Distance)
}

// physicsDebugDrawer outlines every shape in the space.
type physicsDebugDrawer struct {
	screen *ebiten.Image
	cam    camera
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	d.drawCircle(a, radius, outline)
	d.drawCircle(b, radius, outline)
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.cam.toScreen(a.X, a.Y)
	x2, y2 := d.cam.toScreen(b.X, b.Y)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, 1, toNRGBA(c), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
