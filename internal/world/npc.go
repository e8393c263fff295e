package world

import (
	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/anim"
	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/geom"
)

// Behavior modes. Immutable per NPC; content-authored.
const (
	BehaviorStatic   = "static"
	BehaviorWander   = "wander"
	BehaviorFollow   = "follow"
	BehaviorPatrol   = "patrol"
	BehaviorScripted = "scripted"
)

// Season and TimeOfDay are world conditions supplied by the caller;
// the runtime never owns or caches world time.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

type TimeOfDay string

const (
	Day   TimeOfDay = "day"
	Night TimeOfDay = "night"
)

// Visibility gates when an NPC appears in its map's active roster.
// Empty fields match any value.
type Visibility struct {
	Season    Season
	TimeOfDay TimeOfDay
}

// Matches reports whether the filter admits the given conditions.
func (v *Visibility) Matches(season Season, tod TimeOfDay) bool {
	if v == nil {
		return true
	}
	if v.Season != "" && v.Season != season {
		return false
	}
	if v.TimeOfDay != "" && v.TimeOfDay != tod {
		return false
	}
	return true
}

// DefaultInteractionRadius is the distance threshold for "close
// enough to interact", in tiles.
const DefaultInteractionRadius = 1.5

// NPC holds one character's definition plus live runtime fields.
// Position and facing are mutated only by the movement engine;
// Sprite only by the animation pass. The rendering and dialogue
// layers read these but never write them.
// Accessed only from the simulation tick — no locks.
type NPC struct {
	ID   string
	Name string

	Pos geom.Position
	Dir geom.Direction

	Behavior       string
	FollowTargetID string          // required for BehaviorFollow
	Waypoints      []geom.Position // required for BehaviorPatrol
	Script         string          // Lua function for BehaviorScripted ("" = default)

	Sprite    string // resolved image reference, read by rendering
	Anim      *anim.Machine
	Footprint geom.Size

	InteractionRadius float64
	Visibility        *Visibility
}

// Visible reports whether the NPC appears under the given world
// conditions. Absent conditions mean always visible.
func (n *NPC) Visible(season Season, tod TimeOfDay) bool {
	return n.Visibility.Matches(season, tod)
}

// CanInteract reports whether a point (typically the player) is
// within the NPC's interaction radius.
func (n *NPC) CanInteract(from geom.Position) bool {
	r := n.InteractionRadius
	if r <= 0 {
		r = DefaultInteractionRadius
	}
	return geom.Dist(n.Pos, from) <= r
}

// MoveState is an NPC's movement runtime, independent of its
// animation machine. It is created the first time the NPC is
// registered and survives re-registration of the same map, so wander
// phase and dialogue freeze carry across area revisits.
type MoveState struct {
	LastMoveMs  int64
	Waiting     bool
	Dir         geom.Direction
	MoveDurMs   int64
	WaitDurMs   int64
	InDialogue  bool
	WaypointIdx int
}
