package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load resolves the effective configuration.
// Search order: customPath -> ./coinrush.yaml -> built-in defaults.
// Env overrides (COINRUSH_ADDR, COINRUSH_LATENCY_MS) are applied last.
func Load(customPath string) (Config, error) {
	cfg := Default()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", customPath, err)
		}
	} else if data, err := os.ReadFile("coinrush.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse coinrush.yaml: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if addr := os.Getenv("COINRUSH_ADDR"); addr != "" {
		cfg.Network.Addr = addr
	}
	if raw := os.Getenv("COINRUSH_LATENCY_MS"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms >= 0 {
			cfg.Network.Latency = Duration(time.Duration(ms) * time.Millisecond)
		}
	}
}

func (c Config) validate() error {
	if c.World.Width <= c.World.PlayerSize || c.World.Height <= c.World.PlayerSize {
		return fmt.Errorf("world %gx%g too small for player size %g", c.World.Width, c.World.Height, c.World.PlayerSize)
	}
	if c.Game.MinPlayers < 1 || c.Game.MaxPlayers < c.Game.MinPlayers {
		return fmt.Errorf("invalid player bounds: min %d max %d", c.Game.MinPlayers, c.Game.MaxPlayers)
	}
	if c.Game.TickRate <= 0 || c.Game.BroadcastRate <= 0 || c.Game.BroadcastRate > c.Game.TickRate {
		return fmt.Errorf("invalid rates: tick %d broadcast %d", c.Game.TickRate, c.Game.BroadcastRate)
	}
	return nil
}
