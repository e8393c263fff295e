package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/behavior"
	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/config"
	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/data"
	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/scripting"
	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/sim"
	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ──────────────────────────────────────────

func run() error {
	cfgPath := "config/twilight.toml"
	if p := os.Getenv("TWILIGHT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printSection("Content")

	maps, err := data.LoadMapTable("data/map_list.yaml", "data/maps", log)
	if err != nil {
		return fmt.Errorf("load map table: %w", err)
	}
	printStat("Maps", maps.Count())

	npcs, err := data.LoadNpcTable("data/npc_list.yaml")
	if err != nil {
		return fmt.Errorf("load npc table: %w", err)
	}
	printStat("NPCs", npcs.Count())

	scripts, err := scripting.NewEngine("scripts", log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer scripts.Close()

	// Assemble the simulation: explicit registry, no globals.
	reg := world.NewRegistry(log)
	for _, mapID := range npcs.Maps() {
		reg.RegisterNPCs(mapID, npcs.ByMap(mapID))
	}
	reg.SetCurrentMap(cfg.Simulation.StartMap)

	clock := newWorldClock()
	engine := behavior.NewEngine(
		movementConfig(cfg.Movement),
		sim.NewMapOracle(maps, reg),
		reg,
		nil, // production randomness
		scripts,
		log,
	)
	driver := sim.NewDriver(reg, clock, engine, log)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("Simulation ready")
	printReady(fmt.Sprintf("map %q, tick %s", cfg.Simulation.StartMap, cfg.Simulation.TickRate))
	fmt.Println()

	dt := cfg.Simulation.TickRate.Seconds()
	for {
		select {
		case <-ticker.C:
			clock.advance(cfg.Simulation.TickRate)
			if driver.Tick(dt) {
				// A renderer would redraw here; the demo just counts.
				log.Debug("tick changed",
					zap.String("season", string(clock.Season())),
					zap.String("time_of_day", string(clock.TimeOfDay())))
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return nil
		}
	}
}

// movementConfig maps the TOML section onto the engine's tuning.
func movementConfig(m config.MovementConfig) behavior.Config {
	return behavior.Config{
		Speed:             m.Speed,
		FollowDistance:    m.FollowDistance,
		FollowSpeedFactor: m.FollowSpeedFactor,
		MoveDurMinMs:      m.MoveDurationMinMs,
		MoveDurMaxMs:      m.MoveDurationMaxMs,
		WaitDurMinMs:      m.WaitDurationMinMs,
		WaitDurMaxMs:      m.WaitDurationMaxMs,
		BlockedMinMs:      m.BlockedWaitMinMs,
		BlockedMaxMs:      m.BlockedWaitMaxMs,
		LocomotionStates:  m.LocomotionStates,
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
