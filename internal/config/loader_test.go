package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Network.Latency.Std() != 200*time.Millisecond {
		t.Fatalf("expected 200ms default latency, got %v", cfg.Network.Latency)
	}
	if cfg.World.PickupRadius != (cfg.World.PlayerSize+cfg.World.CoinSize)/2 {
		t.Fatalf("pickup radius %g does not match footprints", cfg.World.PickupRadius)
	}
}

func TestLoadCustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coinrush.yaml")
	body := "network:\n  addr: \"0.0.0.0:9000\"\ngame:\n  min_players: 3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Network.Addr != "0.0.0.0:9000" {
		t.Fatalf("addr override not applied: %q", cfg.Network.Addr)
	}
	if cfg.Game.MinPlayers != 3 {
		t.Fatalf("min_players override not applied: %d", cfg.Game.MinPlayers)
	}
	// Untouched sections keep their defaults.
	if cfg.Game.MaxCoins != 10 {
		t.Fatalf("expected default max_coins, got %d", cfg.Game.MaxCoins)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("COINRUSH_ADDR", "example:1234")
	t.Setenv("COINRUSH_LATENCY_MS", "50")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Network.Addr != "example:1234" {
		t.Fatalf("env addr not applied: %q", cfg.Network.Addr)
	}
	if cfg.Network.Latency.Std() != 50*time.Millisecond {
		t.Fatalf("env latency not applied: %v", cfg.Network.Latency)
	}
}

func TestLoadRejectsBadRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coinrush.yaml")
	if err := os.WriteFile(path, []byte("game:\n  broadcast_rate: 90\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for broadcast rate above tick rate")
	}
}
