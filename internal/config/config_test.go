package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 50*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, "village", cfg.Simulation.StartMap)
	assert.Equal(t, 1.0, cfg.Movement.Speed)
	assert.Equal(t, 2.0, cfg.Movement.FollowDistance)
	assert.Equal(t, 1.2, cfg.Movement.FollowSpeedFactor)
	assert.Equal(t, int64(1000), cfg.Movement.MoveDurationMinMs)
	assert.Equal(t, int64(3000), cfg.Movement.MoveDurationMaxMs)
	assert.Equal(t, []string{"roaming", "walking"}, cfg.Movement.LocomotionStates)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twilight.toml")
	content := `
[simulation]
tick_rate = "25ms"
start_map = "forest"

[logging]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, "forest", cfg.Simulation.StartMap)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Sections not present in the file keep their defaults.
	assert.Equal(t, 1.0, cfg.Movement.Speed)
	assert.Equal(t, int64(4000), cfg.Movement.WaitDurationMaxMs)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[simulation\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
