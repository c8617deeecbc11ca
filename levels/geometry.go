package levels

import "github.com/milk9111/ledge/common"

// Tile values in physics layers.
const (
	TileEmpty    = 0
	TileTerrain  = 1
	TilePlatform = 3
)

const PlayerSpawn = "player_spawn"

// Rect is an axis-aligned box in world space (y up, pixels) with its
// bottom-left corner at X, Y.
type Rect struct {
	X, Y, W, H float64
	Platform   bool
}

func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Rects merges the solid tiles of every physics layer into as few boxes as
// a greedy row-first scan finds. Terrain and platform tiles never merge
// with each other.
func (l *Level) Rects() []Rect {
	if l == nil {
		return nil
	}
	var out []Rect
	for i, layer := range l.Layers {
		if !l.PhysicsLayer(i) || len(layer) != l.Width*l.Height {
			continue
		}
		out = append(out, l.mergeLayer(layer)...)
	}
	return out
}

func (l *Level) mergeLayer(layer []int) []Rect {
	var out []Rect
	processed := make([]bool, l.Width*l.Height)
	solid := func(v int) bool { return v == TileTerrain || v == TilePlatform }

	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			idx := y*l.Width + x
			if processed[idx] {
				continue
			}
			tileVal := layer[idx]
			if !solid(tileVal) {
				processed[idx] = true
				continue
			}

			w := 1
			for x+w < l.Width {
				idx2 := y*l.Width + (x + w)
				if processed[idx2] || layer[idx2] != tileVal {
					break
				}
				w++
			}

			h := 1
		heightLoop:
			for y+h < l.Height {
				for xi := x; xi < x+w; xi++ {
					idx2 := (y+h)*l.Width + xi
					if processed[idx2] || layer[idx2] != tileVal {
						break heightLoop
					}
				}
				h++
			}

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*l.Width+xx] = true
				}
			}

			size := float64(common.TileSize)
			out = append(out, Rect{
				X:        float64(x) * size,
				Y:        float64(l.Height-(y+h)) * size,
				W:        float64(w) * size,
				H:        float64(h) * size,
				Platform: tileVal == TilePlatform,
			})
		}
	}
	return out
}

// Spawn returns the world position of the first player_spawn entity.
func (l *Level) Spawn() (float64, float64, bool) {
	if l == nil {
		return 0, 0, false
	}
	for _, ent := range l.Entities {
		if ent.Type != PlayerSpawn {
			continue
		}
		return float64(ent.X), float64(l.Height*common.TileSize - ent.Y), true
	}
	return 0, 0, false
}

// Bounds returns the level size in pixels.
func (l *Level) Bounds() (float64, float64) {
	if l == nil {
		return 0, 0
	}
	return float64(l.Width * common.TileSize), float64(l.Height * common.TileSize)
}
