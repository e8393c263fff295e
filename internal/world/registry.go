package world

import (
	"time"

	"go.uber.org/zap"
)

// Registry owns the set of NPCs per map area, the active-map pointer,
// and each NPC's movement runtime. Construct one per simulation — no
// package-level instance, so tests and multiple worlds never share
// state. Accessed only from the simulation tick — no locks.
type Registry struct {
	log *zap.Logger

	areas   map[string][]*NPC // map area id → ordered NPC roster
	move    map[string]*MoveState
	current string

	// nowMs stamps fresh MoveStates. Overridable in tests.
	nowMs func() int64
}

// NewRegistry creates an empty registry.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:   log,
		areas: make(map[string][]*NPC),
		move:  make(map[string]*MoveState),
		nowMs: func() int64 { return time.Now().UnixMilli() },
	}
}

// RegisterNPCs replaces the roster for a map area. NPCs seen for the
// first time get fresh movement runtime (waiting, timers at now);
// NPCs already known keep their existing runtime untouched, so
// returning to a previously visited area never resets wander phase
// or dialogue freeze.
func (r *Registry) RegisterNPCs(mapID string, npcs []*NPC) {
	roster := make([]*NPC, len(npcs))
	copy(roster, npcs)
	r.areas[mapID] = roster

	now := r.nowMs()
	for _, n := range roster {
		if _, ok := r.move[n.ID]; ok {
			continue
		}
		r.move[n.ID] = &MoveState{
			LastMoveMs: now,
			Waiting:    true,
			Dir:        n.Dir,
		}
	}
}

// SetCurrentMap switches the active-map pointer. NPC state is not
// touched.
func (r *Registry) SetCurrentMap(mapID string) {
	r.current = mapID
}

// CurrentMap returns the active map area id.
func (r *Registry) CurrentMap() string {
	return r.current
}

// NPCs returns a map area's full roster, in registration order.
func (r *Registry) NPCs(mapID string) []*NPC {
	return r.areas[mapID]
}

// VisibleNPCs returns the map's NPCs filtered by their visibility
// conditions against the caller-supplied world conditions.
func (r *Registry) VisibleNPCs(mapID string, season Season, tod TimeOfDay) []*NPC {
	roster := r.areas[mapID]
	result := make([]*NPC, 0, len(roster))
	for _, n := range roster {
		if n.Visible(season, tod) {
			result = append(result, n)
		}
	}
	return result
}

// FindOnCurrentMap returns an NPC by id from the active map's roster,
// or nil. Used to resolve follow targets.
func (r *Registry) FindOnCurrentMap(id string) *NPC {
	for _, n := range r.areas[r.current] {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// AddDynamicNPC appends an NPC to the current map's roster at
// runtime. Adding an id already present on that map is a no-op with
// a warning.
func (r *Registry) AddDynamicNPC(n *NPC) {
	for _, existing := range r.areas[r.current] {
		if existing.ID == n.ID {
			r.log.Warn("dynamic spawn: npc already present", zap.String("id", n.ID), zap.String("map", r.current))
			return
		}
	}
	r.areas[r.current] = append(r.areas[r.current], n)
	if _, ok := r.move[n.ID]; !ok {
		r.move[n.ID] = &MoveState{
			LastMoveMs: r.nowMs(),
			Waiting:    true,
			Dir:        n.Dir,
		}
	}
}

// RemoveDynamicNPC removes an NPC from the current map's roster and
// drops its movement runtime. Removing an unknown id is a no-op with
// a warning.
func (r *Registry) RemoveDynamicNPC(id string) {
	roster := r.areas[r.current]
	for i, n := range roster {
		if n.ID == id {
			r.areas[r.current] = append(roster[:i], roster[i+1:]...)
			delete(r.move, id)
			return
		}
	}
	r.log.Warn("dynamic despawn: npc not found", zap.String("id", id), zap.String("map", r.current))
}

// SetDialogueState toggles the freeze flag the movement engine
// consults. Unknown ids warn and do nothing.
func (r *Registry) SetDialogueState(id string, inDialogue bool) {
	st, ok := r.move[id]
	if !ok {
		r.log.Warn("dialogue state: npc not registered", zap.String("id", id))
		return
	}
	st.InDialogue = inDialogue
}

// MoveState returns an NPC's movement runtime, or nil if the NPC was
// never registered.
func (r *Registry) MoveState(id string) *MoveState {
	return r.move[id]
}

// Clear drops all maps, NPCs, movement runtime, and the active-map
// pointer. Full reset — test isolation and hard restarts only.
func (r *Registry) Clear() {
	r.areas = make(map[string][]*NPC)
	r.move = make(map[string]*MoveState)
	r.current = ""
}
