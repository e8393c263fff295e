package behavior

import (
	"go.uber.org/zap"

	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/geom"
	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/world"
)

// Oracle answers whether a footprint at a position overlaps anything
// solid. Read-only from this engine's perspective; any number of NPCs
// may query it within a tick.
type Oracle interface {
	IsBlocked(pos geom.Position, footprint geom.Size) bool
}

// Config tunes movement. Zero values are replaced by DefaultConfig
// equivalents in NewEngine.
type Config struct {
	Speed             float64 // tiles per second
	FollowDistance    float64 // follow closes in beyond this distance
	FollowSpeedFactor float64 // follow speed multiplier over base speed

	MoveDurMinMs int64 // wander move phase duration range
	MoveDurMaxMs int64
	WaitDurMinMs int64 // wander wait phase duration range
	WaitDurMaxMs int64
	BlockedMinMs int64 // cornered retry pause range
	BlockedMaxMs int64

	// LocomotionStates are the animation state names during which a
	// wandering NPC may actually displace. Empty means no gating.
	LocomotionStates []string
}

// DefaultConfig returns the stock movement tuning.
func DefaultConfig() Config {
	return Config{
		Speed:             1.0,
		FollowDistance:    2.0,
		FollowSpeedFactor: 1.2,
		MoveDurMinMs:      1000,
		MoveDurMaxMs:      3000,
		WaitDurMinMs:      1000,
		WaitDurMaxMs:      4000,
		BlockedMinMs:      300,
		BlockedMaxMs:      800,
		LocomotionStates:  []string{"roaming", "walking"},
	}
}

// Engine decides whether and where each NPC moves this tick. One
// instance serves the whole simulation; per-NPC state lives in the
// registry's MoveState. Best-effort by design: every failure mode
// degrades to "no movement this tick", never a panic.
type Engine struct {
	cfg     Config
	oracle  Oracle
	reg     *world.Registry
	rng     Rand
	scripts ScriptRunner
	log     *zap.Logger

	locomotion map[string]struct{}
}

// ScriptRunner executes a scripted NPC's Lua decision function. Nil
// disables the scripted mode (scripted NPCs then stand still).
type ScriptRunner interface {
	RunBehavior(fn string, ctx ScriptContext) []ScriptCommand
}

// ScriptContext is the per-tick snapshot handed to a behavior script.
type ScriptContext struct {
	ID      string
	X, Y    float64
	Dir     string
	State   string // current animation state name ("" = no machine)
	Waiting bool
}

// ScriptCommand is one action returned by a behavior script.
type ScriptCommand struct {
	Type  string // "move", "face", "wait", "event", "stop"
	Dir   string
	Ms    int64
	Event string
}

// NewEngine builds a movement engine. rng may be nil (production
// randomness), scripts may be nil (scripted NPCs idle), log may be
// nil.
func NewEngine(cfg Config, oracle Oracle, reg *world.Registry, rng Rand, scripts ScriptRunner, log *zap.Logger) *Engine {
	def := DefaultConfig()
	if cfg.Speed <= 0 {
		cfg.Speed = def.Speed
	}
	if cfg.FollowDistance <= 0 {
		cfg.FollowDistance = def.FollowDistance
	}
	if cfg.FollowSpeedFactor <= 0 {
		cfg.FollowSpeedFactor = def.FollowSpeedFactor
	}
	if cfg.MoveDurMaxMs <= 0 {
		cfg.MoveDurMinMs, cfg.MoveDurMaxMs = def.MoveDurMinMs, def.MoveDurMaxMs
	}
	if cfg.WaitDurMaxMs <= 0 {
		cfg.WaitDurMinMs, cfg.WaitDurMaxMs = def.WaitDurMinMs, def.WaitDurMaxMs
	}
	if cfg.BlockedMaxMs <= 0 {
		cfg.BlockedMinMs, cfg.BlockedMaxMs = def.BlockedMinMs, def.BlockedMaxMs
	}
	if cfg.LocomotionStates == nil {
		cfg.LocomotionStates = def.LocomotionStates
	}
	if rng == nil {
		rng = DefaultRand()
	}
	if log == nil {
		log = zap.NewNop()
	}
	locomotion := make(map[string]struct{}, len(cfg.LocomotionStates))
	for _, s := range cfg.LocomotionStates {
		locomotion[s] = struct{}{}
	}
	return &Engine{
		cfg:        cfg,
		oracle:     oracle,
		reg:        reg,
		rng:        rng,
		scripts:    scripts,
		log:        log,
		locomotion: locomotion,
	}
}

// Step runs one tick of movement for one NPC. nowMs is the tick's
// shared clock; dt is elapsed seconds. Returns whether the NPC's
// position changed.
func (e *Engine) Step(npc *world.NPC, st *world.MoveState, nowMs int64, dt float64) bool {
	if st == nil || st.InDialogue {
		return false
	}
	switch npc.Behavior {
	case world.BehaviorWander:
		return e.stepWander(npc, st, nowMs, dt)
	case world.BehaviorFollow:
		return e.stepFollow(npc, dt)
	case world.BehaviorPatrol:
		return e.stepPatrol(npc, st, nowMs, dt)
	case world.BehaviorScripted:
		return e.stepScripted(npc, st, nowMs, dt)
	case world.BehaviorStatic, "":
		return false
	default:
		e.log.Warn("unknown behavior mode", zap.String("id", npc.ID), zap.String("behavior", npc.Behavior))
		return false
	}
}

// stepWander alternates random-length wait and move phases. Ambient
// animation stays decoupled from displacement: unless the machine is
// in a locomotion-permitted state the NPC is forced to wait.
func (e *Engine) stepWander(npc *world.NPC, st *world.MoveState, nowMs int64, dt float64) bool {
	if npc.Anim != nil && len(e.locomotion) > 0 {
		if _, ok := e.locomotion[npc.Anim.CurrentState()]; !ok {
			st.Waiting = true
			return false
		}
	}

	if st.Waiting {
		if nowMs-st.LastMoveMs < st.WaitDurMs {
			return false
		}
		st.Dir = e.randomDirection()
		st.MoveDurMs = durationIn(e.rng, e.cfg.MoveDurMinMs, e.cfg.MoveDurMaxMs)
		st.Waiting = false
		st.LastMoveMs = nowMs
		npc.Dir = st.Dir
		return false
	}

	if nowMs-st.LastMoveMs >= st.MoveDurMs {
		st.Waiting = true
		st.WaitDurMs = durationIn(e.rng, e.cfg.WaitDurMinMs, e.cfg.WaitDurMaxMs)
		st.LastMoveMs = nowMs
		return false
	}

	step := e.cfg.Speed * dt
	cand := npc.Pos.Add(st.Dir, step)
	if !e.oracle.IsBlocked(cand, npc.Footprint) {
		npc.Pos = cand
		return true
	}

	// Blocked: try the three other cardinals in random order from the
	// current position, same step size. First clear one wins.
	for _, d := range e.shuffledOthers(st.Dir) {
		cand = npc.Pos.Add(d, step)
		if e.oracle.IsBlocked(cand, npc.Footprint) {
			continue
		}
		st.Dir = d
		npc.Dir = d
		npc.Pos = cand
		return true
	}

	// Cornered: short pause, faster retry than a normal wait, so an
	// enclosed NPC recovers instead of freezing against a wall.
	st.Waiting = true
	st.WaitDurMs = durationIn(e.rng, e.cfg.BlockedMinMs, e.cfg.BlockedMaxMs)
	st.LastMoveMs = nowMs
	return false
}

// stepFollow pursues the target NPC while keeping personal space.
// No retry on a blocked step: the follower resumes once the leader
// moves clear, so avoidance logic would be wasted complexity here.
func (e *Engine) stepFollow(npc *world.NPC, dt float64) bool {
	target := e.reg.FindOnCurrentMap(npc.FollowTargetID)
	if target == nil {
		e.log.Warn("follow target not on current map", zap.String("id", npc.ID), zap.String("target", npc.FollowTargetID))
		return false
	}

	dx := target.Pos.X - npc.Pos.X
	dy := target.Pos.Y - npc.Pos.Y
	dist := geom.Dist(npc.Pos, target.Pos)
	if dist <= e.cfg.FollowDistance {
		return false
	}

	step := e.cfg.Speed * e.cfg.FollowSpeedFactor * dt
	cand := geom.Position{
		X: npc.Pos.X + dx/dist*step,
		Y: npc.Pos.Y + dy/dist*step,
	}
	npc.Dir = geom.DominantAxis(dx, dy)
	if e.oracle.IsBlocked(cand, npc.Footprint) {
		return false
	}
	npc.Pos = cand
	return true
}

// stepPatrol walks a fixed waypoint loop at base speed. A blocked
// step pauses briefly like a cornered wanderer, then retries.
func (e *Engine) stepPatrol(npc *world.NPC, st *world.MoveState, nowMs int64, dt float64) bool {
	if len(npc.Waypoints) < 2 {
		return false
	}

	if st.Waiting {
		if nowMs-st.LastMoveMs < st.WaitDurMs {
			return false
		}
		st.Waiting = false
		st.LastMoveMs = nowMs
	}

	if st.WaypointIdx >= len(npc.Waypoints) {
		st.WaypointIdx = 0
	}
	wp := npc.Waypoints[st.WaypointIdx]

	dx := wp.X - npc.Pos.X
	dy := wp.Y - npc.Pos.Y
	dist := geom.Dist(npc.Pos, wp)
	step := e.cfg.Speed * dt

	var cand geom.Position
	if dist <= step {
		// Within one step: land on the waypoint and aim at the next.
		cand = wp
		st.WaypointIdx = (st.WaypointIdx + 1) % len(npc.Waypoints)
	} else {
		cand = geom.Position{
			X: npc.Pos.X + dx/dist*step,
			Y: npc.Pos.Y + dy/dist*step,
		}
	}
	if dx != 0 || dy != 0 {
		npc.Dir = geom.DominantAxis(dx, dy)
	}

	if e.oracle.IsBlocked(cand, npc.Footprint) {
		st.Waiting = true
		st.WaitDurMs = durationIn(e.rng, e.cfg.BlockedMinMs, e.cfg.BlockedMaxMs)
		st.LastMoveMs = nowMs
		return false
	}
	npc.Pos = cand
	return true
}

// stepScripted lets Lua decide, then executes the returned commands
// through the same collision-checked primitives as the built-in
// modes. Script failures degrade to standing still.
func (e *Engine) stepScripted(npc *world.NPC, st *world.MoveState, nowMs int64, dt float64) bool {
	if e.scripts == nil {
		return false
	}
	// wasWaiting survives into the context so a script can tell a
	// just-finished wait apart from an ordinary tick.
	wasWaiting := st.Waiting
	if wasWaiting && nowMs-st.LastMoveMs < st.WaitDurMs {
		return false
	}
	st.Waiting = false

	state := ""
	if npc.Anim != nil {
		state = npc.Anim.CurrentState()
	}
	cmds := e.scripts.RunBehavior(npc.Script, ScriptContext{
		ID:      npc.ID,
		X:       npc.Pos.X,
		Y:       npc.Pos.Y,
		Dir:     npc.Dir.String(),
		State:   state,
		Waiting: wasWaiting,
	})

	moved := false
	for _, cmd := range cmds {
		switch cmd.Type {
		case "move":
			d := geom.ParseDirection(cmd.Dir)
			cand := npc.Pos.Add(d, e.cfg.Speed*dt)
			if e.oracle.IsBlocked(cand, npc.Footprint) {
				continue
			}
			npc.Dir = d
			st.Dir = d
			npc.Pos = cand
			moved = true
		case "face":
			npc.Dir = geom.ParseDirection(cmd.Dir)
		case "wait":
			st.Waiting = true
			st.WaitDurMs = cmd.Ms
			st.LastMoveMs = nowMs
		case "event":
			if npc.Anim != nil {
				npc.Anim.TriggerEvent(cmd.Event)
			}
		case "stop":
			return moved
		default:
			e.log.Warn("script returned unknown command", zap.String("id", npc.ID), zap.String("type", cmd.Type))
		}
	}
	return moved
}

// randomDirection picks a uniformly random cardinal direction.
func (e *Engine) randomDirection() geom.Direction {
	i := int(e.rng.Float64() * 4)
	if i > 3 {
		i = 3
	}
	return geom.Cardinals[i]
}

// shuffledOthers returns the three cardinals other than d in random
// order.
func (e *Engine) shuffledOthers(d geom.Direction) []geom.Direction {
	others := make([]geom.Direction, 0, 3)
	for _, c := range geom.Cardinals {
		if c != d {
			others = append(others, c)
		}
	}
	for i := len(others) - 1; i > 0; i-- {
		j := int(e.rng.Float64() * float64(i+1))
		if j > i {
			j = i
		}
		others[i], others[j] = others[j], others[i]
	}
	return others
}
