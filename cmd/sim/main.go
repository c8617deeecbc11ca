// Command sim runs the actor controller headless: it loads a level, spawns
// the player and drives it from an input script, logging one trace line per
// tick.
package main

import (
	"flag"
	"log"
	"strings"

	"github.com/milk9111/ledge/ecs"
	"github.com/milk9111/ledge/ecs/component"
	"github.com/milk9111/ledge/ecs/entity"
	"github.com/milk9111/ledge/ecs/system"
	"github.com/milk9111/ledge/levels"
)

func main() {
	levelName := flag.String("level", "test.json", "level name in levels/ (basename, .json optional)")
	scriptName := flag.String("script", "run_and_jump", "input script in prefabs/scripts (.tengo optional)")
	ticks := flag.Int("ticks", 240, "number of ticks to simulate")
	every := flag.Int("every", 1, "log every n-th tick")
	flag.Parse()

	name := *levelName
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	lvl, err := levels.Load(name)
	if err != nil {
		log.Fatalf("failed to load level %s: %v", name, err)
	}

	device, err := system.LoadScriptDevice(*scriptName)
	if err != nil {
		log.Fatal(err)
	}

	w := ecs.NewWorld()
	spawnX, spawnY, err := entity.LoadLevelToWorld(w, lvl)
	if err != nil {
		log.Fatal(err)
	}
	player, err := entity.NewPlayerAt(w, spawnX, spawnY)
	if err != nil {
		log.Fatalf("spawn player: %v", err)
	}

	input := system.NewInputSystem(device)
	pipeline := system.NewPipeline()

	step := *every
	if step < 1 {
		step = 1
	}
	log.Printf("sim: level=%s script=%s spawn=(%.1f, %.1f)", name, device.Name(), spawnX, spawnY)
	for tick := 0; tick < *ticks; tick++ {
		if err := device.Poll(tick); err != nil {
			log.Fatalf("sim: %v", err)
		}
		input.Update(w)
		pipeline.Tick(w)
		if tick%step == 0 || tick == *ticks-1 {
			trace(w, player, tick)
		}
	}
	if n := pipeline.Overlaps.Len(); n > 0 {
		log.Printf("sim: %d overlap events pending for the next tick", n)
	}
}

func trace(w *ecs.World, player ecs.Entity, tick int) {
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		log.Printf("tick %4d: player missing", tick)
		return
	}
	vel, _ := ecs.Get(w, player, component.VelocityComponent.Kind())
	info, _ := ecs.Get(w, player, component.MoveInfoComponent.Kind())
	loco, _ := ecs.Get(w, player, component.LocomotionComponent.Kind())
	log.Printf("tick %4d: pos=(%7.2f, %7.2f) vel=(%7.2f, %7.2f) mode=%-8s jump=%d coyote=%d boost=%d",
		tick, t.X, t.Y, vel.X, vel.Y, loco.Mode, info.ShouldJumpTicks, info.CoyoteTimeTicks, info.JumpBoostTicks)
}
