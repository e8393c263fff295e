package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/anim"
	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/geom"
	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/world"
)

// NpcDef is one NPC definition as authored in npc_list.yaml.
type NpcDef struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Map       string  `yaml:"map"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Direction string  `yaml:"direction"`
	Behavior  string  `yaml:"behavior"`

	FollowTarget string          `yaml:"follow_target,omitempty"`
	Waypoints    []WaypointEntry `yaml:"waypoints,omitempty"`
	Script       string          `yaml:"script,omitempty"`

	InteractionRadius float64          `yaml:"interaction_radius"`
	Footprint         *FootprintEntry  `yaml:"footprint,omitempty"`
	Visibility        *VisibilityEntry `yaml:"visibility,omitempty"`

	InitialState string              `yaml:"initial_state,omitempty"`
	States       map[string]StateDef `yaml:"states,omitempty"`
}

type WaypointEntry struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type FootprintEntry struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type VisibilityEntry struct {
	Season    string `yaml:"season,omitempty"`
	TimeOfDay string `yaml:"time_of_day,omitempty"`
}

// StateDef is one animation state as authored in content.
type StateDef struct {
	Frames          []string            `yaml:"frames"`
	FramesByDir     map[string][]string `yaml:"frames_by_direction,omitempty"`
	FrameIntervalMs int64               `yaml:"frame_interval_ms"`
	DurationMs      int64               `yaml:"duration_ms,omitempty"`
	NextState       string              `yaml:"next_state,omitempty"`
	Events          map[string]string   `yaml:"events,omitempty"`
}

type npcListFile struct {
	Npcs []NpcDef `yaml:"npcs"`
}

// defaultFrameIntervalMs is used when content omits frame timing.
const defaultFrameIntervalMs = 200

// NpcTable holds loaded NPC definitions grouped by map area.
type NpcTable struct {
	byMap map[string][]*world.NPC
	count int
}

// LoadNpcTable loads and validates NPC definitions. Any dangling
// animation transition target fails the load — content errors
// surface at startup, not mid-simulation.
func LoadNpcTable(path string) (*NpcTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read npc_list: %w", err)
	}
	var f npcListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse npc_list: %w", err)
	}

	t := &NpcTable{byMap: make(map[string][]*world.NPC)}
	seen := make(map[string]struct{}, len(f.Npcs))
	for i := range f.Npcs {
		def := &f.Npcs[i]
		if def.ID == "" {
			return nil, fmt.Errorf("npc_list entry %d: missing id", i)
		}
		if _, dup := seen[def.ID]; dup {
			return nil, fmt.Errorf("npc %q: duplicate id", def.ID)
		}
		seen[def.ID] = struct{}{}

		npc, err := BuildNPC(def)
		if err != nil {
			return nil, fmt.Errorf("npc %q: %w", def.ID, err)
		}
		t.byMap[def.Map] = append(t.byMap[def.Map], npc)
		t.count++
	}
	return t, nil
}

// BuildNPC converts one definition into a runtime NPC, constructing
// and validating its animation machine when states are authored.
func BuildNPC(def *NpcDef) (*world.NPC, error) {
	npc := &world.NPC{
		ID:                def.ID,
		Name:              def.Name,
		Pos:               geom.Position{X: def.X, Y: def.Y},
		Dir:               geom.ParseDirection(def.Direction),
		Behavior:          def.Behavior,
		FollowTargetID:    def.FollowTarget,
		Script:            def.Script,
		InteractionRadius: def.InteractionRadius,
		Footprint:         geom.DefaultFootprint,
	}
	if npc.Behavior == "" {
		npc.Behavior = world.BehaviorStatic
	}
	if npc.InteractionRadius <= 0 {
		npc.InteractionRadius = world.DefaultInteractionRadius
	}
	if def.Footprint != nil && def.Footprint.W > 0 && def.Footprint.H > 0 {
		npc.Footprint = geom.Size{W: def.Footprint.W, H: def.Footprint.H}
	}
	if v := def.Visibility; v != nil {
		npc.Visibility = &world.Visibility{
			Season:    world.Season(v.Season),
			TimeOfDay: world.TimeOfDay(v.TimeOfDay),
		}
	}
	for _, wp := range def.Waypoints {
		npc.Waypoints = append(npc.Waypoints, geom.Position{X: wp.X, Y: wp.Y})
	}
	if npc.Behavior == world.BehaviorFollow && npc.FollowTargetID == "" {
		return nil, fmt.Errorf("behavior follow requires follow_target")
	}
	if npc.Behavior == world.BehaviorPatrol && len(npc.Waypoints) < 2 {
		return nil, fmt.Errorf("behavior patrol requires at least 2 waypoints")
	}

	if len(def.States) > 0 {
		states := make(map[string]anim.State, len(def.States))
		for name, sd := range def.States {
			interval := sd.FrameIntervalMs
			if interval <= 0 {
				interval = defaultFrameIntervalMs
			}
			st := anim.State{
				Frames:        sd.Frames,
				FrameInterval: interval,
				Duration:      sd.DurationMs,
				NextState:     sd.NextState,
				Events:        sd.Events,
			}
			if len(sd.FramesByDir) > 0 {
				st.DirFrames = make(map[geom.Direction][]string, len(sd.FramesByDir))
				for dir, frames := range sd.FramesByDir {
					st.DirFrames[geom.ParseDirection(dir)] = frames
				}
			}
			states[name] = st
		}
		initial := def.InitialState
		if initial == "" {
			return nil, fmt.Errorf("states defined but initial_state missing")
		}
		machine, err := anim.NewMachine(states, initial)
		if err != nil {
			return nil, err
		}
		npc.Anim = machine
		npc.Sprite = machine.Sprite()
	}
	return npc, nil
}

// ByMap returns the NPCs defined for one map area.
func (t *NpcTable) ByMap(mapID string) []*world.NPC {
	return t.byMap[mapID]
}

// Maps returns the ids of all map areas with NPCs defined.
func (t *NpcTable) Maps() []string {
	ids := make([]string, 0, len(t.byMap))
	for id := range t.byMap {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of loaded NPC definitions.
func (t *NpcTable) Count() int {
	return t.count
}
