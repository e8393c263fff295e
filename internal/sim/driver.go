package sim

import (
	"time"

	"go.uber.org/zap"

	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/behavior"
	coresys "github.com/MarkEdmondson1234/TwilightGame-sub007/internal/core/system"
	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/world"
)

// ConditionSource supplies the current world conditions each time
// visibility filtering runs. The driver never owns or caches world
// time — the caller does.
type ConditionSource interface {
	Season() world.Season
	TimeOfDay() world.TimeOfDay
}

// Driver is the single per-tick entry point: it advances every
// visible NPC's animation machine, then runs every visible NPC's
// movement behavior, and reports whether anything visually changed.
// Stateless glue over the registry, the per-NPC machines, and the
// movement engine.
type Driver struct {
	reg    *world.Registry
	cond   ConditionSource
	runner *coresys.Runner
	log    *zap.Logger

	// Now is the tick clock in milliseconds. Overridable in tests.
	Now func() int64

	visible []*world.NPC
}

// NewDriver wires the animation and movement passes. log may be nil.
func NewDriver(reg *world.Registry, cond ConditionSource, engine *behavior.Engine, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Driver{
		reg:  reg,
		cond: cond,
		log:  log,
		Now:  func() int64 { return time.Now().UnixMilli() },
	}
	d.runner = coresys.NewRunner()
	d.runner.Register(&animateSystem{d: d})
	d.runner.Register(&moveSystem{d: d, engine: engine})
	return d
}

// Tick advances the simulation by deltaSeconds. It resolves one
// shared now and one visible set for the whole tick, runs the
// animation phase for all NPCs before the movement phase touches
// any, and returns true when a redraw is warranted.
func (d *Driver) Tick(deltaSeconds float64) bool {
	now := d.Now()
	d.visible = d.reg.VisibleNPCs(d.reg.CurrentMap(), d.cond.Season(), d.cond.TimeOfDay())
	return d.runner.Tick(coresys.Context{NowMs: now, DeltaSeconds: deltaSeconds})
}

// animateSystem advances every visible NPC's animation machine and
// writes the resolved sprite back onto the NPC.
type animateSystem struct {
	d *Driver
}

func (s *animateSystem) Phase() coresys.Phase { return coresys.PhaseAnimate }

func (s *animateSystem) Update(ctx coresys.Context) bool {
	changed := false
	for _, npc := range s.d.visible {
		if npc.Anim == nil {
			continue
		}
		sprite, c := npc.Anim.Advance(ctx.NowMs, npc.Dir)
		npc.Sprite = sprite
		if c {
			changed = true
		}
	}
	return changed
}

// moveSystem runs one movement step for every visible NPC.
type moveSystem struct {
	d      *Driver
	engine *behavior.Engine
}

func (s *moveSystem) Phase() coresys.Phase { return coresys.PhaseMove }

func (s *moveSystem) Update(ctx coresys.Context) bool {
	moved := false
	for _, npc := range s.d.visible {
		st := s.d.reg.MoveState(npc.ID)
		if st == nil {
			continue
		}
		if s.engine.Step(npc, st, ctx.NowMs, ctx.DeltaSeconds) {
			moved = true
		}
	}
	return moved
}
