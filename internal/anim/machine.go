package anim

import (
	"fmt"

	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/geom"
)

// State is one named animation state: a sprite sequence (optionally
// direction-dependent), frame timing, and its outgoing transitions.
// State sets are content-authored per NPC, so they stay open
// string-keyed maps rather than a closed enum.
type State struct {
	Frames        []string
	DirFrames     map[geom.Direction][]string
	FrameInterval int64             // ms between frame advances
	Duration      int64             // ms until the timed transition fires (0 = never)
	NextState     string            // target of the timed transition
	Events        map[string]string // event name → target state
}

// frames resolves the active sprite sequence for a facing: the
// direction-specific sequence when present and non-empty, else the
// default sequence.
func (s *State) frames(facing geom.Direction) []string {
	if seq, ok := s.DirFrames[facing]; ok && len(seq) > 0 {
		return seq
	}
	return s.Frames
}

// Machine drives one NPC's animation. Owned 1:1 by its NPC and
// accessed only from the simulation tick — no locks.
type Machine struct {
	states  map[string]State
	current string
	frame   int
	sprite  string

	lastFrameMs int64
	lastStateMs int64
	lastNowMs   int64
	started     bool
}

// NewMachine validates the state table and returns a machine resting
// in the initial state. Every timed and event transition target must
// name an existing state; dangling targets fail construction here
// rather than surfacing mid-simulation.
func NewMachine(states map[string]State, initial string) (*Machine, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("animation: no states defined")
	}
	init, ok := states[initial]
	if !ok {
		return nil, fmt.Errorf("animation: initial state %q not defined", initial)
	}
	for name, st := range states {
		if len(st.Frames) == 0 {
			return nil, fmt.Errorf("animation: state %q has no frames", name)
		}
		if st.NextState != "" {
			if _, ok := states[st.NextState]; !ok {
				return nil, fmt.Errorf("animation: state %q next_state %q not defined", name, st.NextState)
			}
		}
		if st.Duration > 0 && st.NextState == "" {
			return nil, fmt.Errorf("animation: state %q has duration but no next_state", name)
		}
		for ev, target := range st.Events {
			if _, ok := states[target]; !ok {
				return nil, fmt.Errorf("animation: state %q event %q targets undefined state %q", name, ev, target)
			}
		}
	}
	return &Machine{
		states:  states,
		current: initial,
		sprite:  init.Frames[0],
	}, nil
}

// CurrentState returns the current state name. Always a key of the
// state table.
func (m *Machine) CurrentState() string { return m.current }

// Frame returns the current frame index within the active sequence.
func (m *Machine) Frame() int { return m.frame }

// Sprite returns the most recently resolved sprite reference.
func (m *Machine) Sprite() string { return m.sprite }

// Advance runs one tick of the machine: frame timing first, then the
// state's timed transition. It returns the resolved sprite and
// whether anything observable changed. A facing change alone can swap
// the visible sprite without touching the frame clock, and a timed
// transition counts as a change even when the sprite stays identical.
func (m *Machine) Advance(nowMs int64, facing geom.Direction) (string, bool) {
	if !m.started {
		m.started = true
		m.lastFrameMs = nowMs
		m.lastStateMs = nowMs
	}
	m.lastNowMs = nowMs

	st := m.states[m.current]
	seq := st.frames(facing)

	// A facing change may have selected a shorter sequence; keep the
	// frame index in bounds before any read.
	if m.frame >= len(seq) {
		m.frame = 0
	}

	changed := false
	if st.FrameInterval > 0 && nowMs-m.lastFrameMs >= st.FrameInterval {
		m.frame = (m.frame + 1) % len(seq)
		m.lastFrameMs = nowMs
		m.sprite = seq[m.frame]
		changed = true
	} else if sprite := seq[m.frame]; sprite != m.sprite {
		m.sprite = sprite
		changed = true
	}

	if st.Duration > 0 && st.NextState != "" && nowMs-m.lastStateMs >= st.Duration {
		if m.transition(st.NextState, facing) {
			changed = true
		}
	}

	return m.sprite, changed
}

// TriggerEvent fires a named event into the machine: if the current
// state maps the event to a target state, the transition commits
// immediately (frame and timers reset); otherwise it is a no-op.
// Returns whether a transition happened.
func (m *Machine) TriggerEvent(event string) bool {
	st := m.states[m.current]
	target, ok := st.Events[event]
	if !ok {
		return false
	}
	return m.transition(target, geom.Down)
}

// transition commits a state change. The target is re-checked before
// committing so the machine can never point at a missing state.
func (m *Machine) transition(target string, facing geom.Direction) bool {
	next, ok := m.states[target]
	if !ok {
		return false
	}
	m.current = target
	m.frame = 0
	m.lastFrameMs = m.lastNowMs
	m.lastStateMs = m.lastNowMs
	if seq := next.frames(facing); len(seq) > 0 {
		m.sprite = seq[0]
	}
	return true
}
