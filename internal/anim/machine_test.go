package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/geom"
)

func TestNewMachineValidation(t *testing.T) {
	_, err := NewMachine(nil, "idle")
	assert.Error(t, err)

	_, err = NewMachine(map[string]State{
		"idle": {Frames: []string{"a"}},
	}, "missing")
	assert.Error(t, err)

	_, err = NewMachine(map[string]State{
		"idle": {},
	}, "idle")
	assert.Error(t, err)

	_, err = NewMachine(map[string]State{
		"idle": {Frames: []string{"a"}, Duration: 500, NextState: "gone"},
	}, "idle")
	assert.Error(t, err)

	_, err = NewMachine(map[string]State{
		"idle": {Frames: []string{"a"}, Duration: 500},
	}, "idle")
	assert.Error(t, err)

	_, err = NewMachine(map[string]State{
		"idle": {Frames: []string{"a"}, Events: map[string]string{"greet": "gone"}},
	}, "idle")
	assert.Error(t, err)
}

func TestFrameAdvance(t *testing.T) {
	m, err := NewMachine(map[string]State{
		"idle": {Frames: []string{"a", "b"}, FrameInterval: 400},
	}, "idle")
	require.NoError(t, err)
	assert.Equal(t, "a", m.Sprite())

	sprite, changed := m.Advance(0, geom.Down)
	assert.Equal(t, "a", sprite)
	assert.False(t, changed)

	sprite, changed = m.Advance(399, geom.Down)
	assert.Equal(t, "a", sprite)
	assert.False(t, changed)

	sprite, changed = m.Advance(400, geom.Down)
	assert.Equal(t, "b", sprite)
	assert.True(t, changed)
	assert.Equal(t, 1, m.Frame())

	// Wraps back to the first frame.
	sprite, _ = m.Advance(800, geom.Down)
	assert.Equal(t, "a", sprite)
}

func TestTimedTransition(t *testing.T) {
	m, err := NewMachine(map[string]State{
		"wave": {Frames: []string{"w0"}, Duration: 10000, NextState: "idle"},
		"idle": {Frames: []string{"i0"}},
	}, "wave")
	require.NoError(t, err)

	m.Advance(0, geom.Down)
	assert.Equal(t, "wave", m.CurrentState())

	_, changed := m.Advance(9999, geom.Down)
	assert.Equal(t, "wave", m.CurrentState())
	assert.False(t, changed)

	sprite, changed := m.Advance(10001, geom.Down)
	assert.Equal(t, "idle", m.CurrentState())
	assert.Equal(t, "i0", sprite)
	assert.True(t, changed)
	assert.Equal(t, 0, m.Frame())
}

func TestDirectionChangeClampsFrame(t *testing.T) {
	m, err := NewMachine(map[string]State{
		"walk": {
			Frames: []string{"d0", "d1", "d2"},
			DirFrames: map[geom.Direction][]string{
				geom.Down: {"d0", "d1", "d2"},
				geom.Left: {"l0"},
			},
			FrameInterval: 100,
		},
	}, "walk")
	require.NoError(t, err)

	m.Advance(0, geom.Down)
	m.Advance(100, geom.Down)
	m.Advance(200, geom.Down)
	assert.Equal(t, 2, m.Frame())
	assert.Equal(t, "d2", m.Sprite())

	// Facing swaps to a one-frame sequence; the index must come back
	// in bounds before any read.
	sprite, changed := m.Advance(250, geom.Left)
	assert.Equal(t, "l0", sprite)
	assert.True(t, changed)
	assert.Equal(t, 0, m.Frame())
}

func TestDirectionFallbackToDefaultFrames(t *testing.T) {
	m, err := NewMachine(map[string]State{
		"walk": {
			Frames: []string{"any0"},
			DirFrames: map[geom.Direction][]string{
				geom.Up: {"u0"},
			},
			FrameInterval: 100,
		},
	}, "walk")
	require.NoError(t, err)

	sprite, _ := m.Advance(0, geom.Up)
	assert.Equal(t, "u0", sprite)
	sprite, _ = m.Advance(10, geom.Right)
	assert.Equal(t, "any0", sprite)
}

func TestEventTransition(t *testing.T) {
	m, err := NewMachine(map[string]State{
		"idle": {Frames: []string{"i0", "i1"}, FrameInterval: 200, Events: map[string]string{"greet": "wave"}},
		"wave": {Frames: []string{"w0"}, Duration: 900, NextState: "idle"},
	}, "idle")
	require.NoError(t, err)

	m.Advance(0, geom.Down)

	assert.False(t, m.TriggerEvent("unknown"))
	assert.Equal(t, "idle", m.CurrentState())

	assert.True(t, m.TriggerEvent("greet"))
	assert.Equal(t, "wave", m.CurrentState())
	assert.Equal(t, "w0", m.Sprite())
	assert.Equal(t, 0, m.Frame())

	// Timers reset on the event transition: the timed return fires a
	// full duration later, not relative to the old state's clock.
	m.Advance(899, geom.Down)
	assert.Equal(t, "wave", m.CurrentState())
	m.Advance(900, geom.Down)
	assert.Equal(t, "idle", m.CurrentState())

	// Event not mapped in the new state is a no-op.
	assert.False(t, m.TriggerEvent("greet2"))
}
