package system

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/ledge/ecs"
)

// ErrMissingComponent marks an actor set up without a component a system
// depends on. It is a setup bug upstream, never a runtime condition.
var ErrMissingComponent = errors.New("system: missing component")

// violations reports each excluded entity once per system.
type violations struct {
	system string
	seen   map[ecs.Entity]struct{}
}

func (v *violations) report(e ecs.Entity, what string) {
	if v.seen == nil {
		v.seen = make(map[ecs.Entity]struct{})
	}
	if _, ok := v.seen[e]; ok {
		return
	}
	v.seen[e] = struct{}{}
	err := fmt.Errorf("%s: entity %s: %s: %w", v.system, e, what, ErrMissingComponent)
	log.Printf("%v (excluded from tick)", err)
}
