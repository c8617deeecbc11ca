package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/ledge/common"
	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/entity"
	"github.com/milk9111/ledge/ecs/system"
	"github.com/milk9111/ledge/levels"
	"github.com/milk9111/ledge/prefabs"
)

const defaultLevel = "test.json"

type Game struct {
	world    *ecs.World
	pipeline *system.Pipeline
	input    *system.InputSystem
	clock    *common.FixedStep
	last     time.Time

	player ecs.Entity

	debug   bool
	paused  bool
	pauseUI *ebitenui.UI
	watcher *prefabs.Watcher

	frames int
	ticks  int
}

func NewGame(levelName string, debug, watch bool) (*Game, error) {
	if strings.TrimSpace(levelName) == "" {
		levelName = defaultLevel
	}
	if !strings.HasSuffix(levelName, ".json") {
		levelName += ".json"
	}

	lvl, err := levels.Load(levelName)
	if err != nil {
		return nil, fmt.Errorf("failed to load level %s: %w", levelName, err)
	}

	world := ecs.NewWorld()
	spawnX, spawnY, err := entity.LoadLevelToWorld(world, lvl)
	if err != nil {
		return nil, err
	}
	player, err := entity.NewPlayerAt(world, spawnX, spawnY)
	if err != nil {
		return nil, fmt.Errorf("spawn player: %w", err)
	}

	g := &Game{
		world:    world,
		pipeline: system.NewPipeline(),
		input:    system.NewInputSystem(keyboardDevice{}),
		clock:    common.NewFixedStep(common.TickRate),
		player:   player,
		debug:    debug,
	}
	g.pauseUI = NewPauseUI(g)

	if watch {
		w, err := prefabs.NewWatcher("prefabs")
		if err != nil {
			log.Printf("prefabs: watcher disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	return g, nil
}

func (g *Game) Update() error {
	g.frames++
	now := time.Now()
	if g.last.IsZero() {
		g.last = now
	}
	elapsed := now.Sub(g.last)
	g.last = now

	g.reloadChanged()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if g.paused {
			g.resume()
		} else {
			g.pause()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}

	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.input.Update(g.world)
	for n := g.clock.Advance(elapsed); n > 0; n-- {
		g.pipeline.Tick(g.world)
		g.ticks++
	}
	return nil
}

func (g *Game) pause() {
	if g.paused {
		return
	}
	n := system.PauseVelocities(g.world)
	g.paused = true
	if g.debug {
		log.Printf("pause: stored %d velocities", n)
	}
}

func (g *Game) resume() {
	if !g.paused {
		return
	}
	n := system.ResumeVelocities(g.world)
	g.paused = false
	g.clock.Reset()
	g.last = time.Now()
	if g.debug {
		log.Printf("pause: restored %d velocities", n)
	}
}

// reloadChanged applies edited tunables to live actors. Counters and
// velocities are kept.
func (g *Game) reloadChanged() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if name != prefabs.PlayerPrefab {
				continue
			}
			spec, err := prefabs.LoadControllerSpec(name)
			if err != nil {
				log.Printf("prefabs: reload %s: %v", name, err)
				continue
			}
			log.Printf("prefabs: reloaded %s for %d actors", name, entity.ApplyController(g.world, spec))
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("prefabs: watcher: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawWorld(screen, g.world, g.pipeline.Physics, g.player, g.debug)
	if g.debug {
		drawActorDebug(screen, g.world, g.player, g.frames, g.ticks)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
