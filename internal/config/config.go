package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Movement   MovementConfig   `toml:"movement"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	StartMap string        `toml:"start_map"`
}

type MovementConfig struct {
	Speed             float64 `toml:"speed"`               // tiles per second
	FollowDistance    float64 `toml:"follow_distance"`     // tiles
	FollowSpeedFactor float64 `toml:"follow_speed_factor"` // multiplier over base speed

	MoveDurationMinMs int64 `toml:"move_duration_min_ms"`
	MoveDurationMaxMs int64 `toml:"move_duration_max_ms"`
	WaitDurationMinMs int64 `toml:"wait_duration_min_ms"`
	WaitDurationMaxMs int64 `toml:"wait_duration_max_ms"`
	BlockedWaitMinMs  int64 `toml:"blocked_wait_min_ms"`
	BlockedWaitMaxMs  int64 `toml:"blocked_wait_max_ms"`

	LocomotionStates []string `toml:"locomotion_states"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the stock configuration used when no file is
// given or a section is omitted.
func Defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate: 50 * time.Millisecond,
			StartMap: "village",
		},
		Movement: MovementConfig{
			Speed:             1.0,
			FollowDistance:    2.0,
			FollowSpeedFactor: 1.2,
			MoveDurationMinMs: 1000,
			MoveDurationMaxMs: 3000,
			WaitDurationMinMs: 1000,
			WaitDurationMaxMs: 4000,
			BlockedWaitMinMs:  300,
			BlockedWaitMaxMs:  800,
			LocomotionStates:  []string{"roaming", "walking"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
