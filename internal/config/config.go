package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can carry "200ms" / "3s" style values.
type Duration time.Duration

// Std returns the wrapped standard-library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) { return time.Duration(d).String(), nil }

// Config carries every tunable for both endpoints. Server and client must
// agree on World and Game for prediction to track the authoritative
// simulation, so both load the same file.
type Config struct {
	Network NetworkConfig `yaml:"network"`
	World   WorldConfig   `yaml:"world"`
	Game    GameConfig    `yaml:"game"`
	Client  ClientConfig  `yaml:"client"`
}

// NetworkConfig holds the transport address and the injected latency.
//
// Latency is the ONE-WAY delay and is applied to both the inbound and the
// outbound leg on both endpoints. An input therefore observes a round trip
// of roughly 2x this value before its effect returns in a snapshot. The
// client snap threshold and extrapolation cap below are tuned against that
// doubled figure; changing Latency without revisiting them will make
// corrections either too eager or too loose.
type NetworkConfig struct {
	Addr    string   `yaml:"addr"`
	Latency Duration `yaml:"latency"`
}

// WorldConfig describes the playfield and entity footprints.
type WorldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	PlayerSize   float64 `yaml:"player_size"`
	PlayerSpeed  float64 `yaml:"player_speed"`
	CoinSize     float64 `yaml:"coin_size"`
	PickupRadius float64 `yaml:"pickup_radius"`
}

// GameConfig describes match pacing and lobby rules.
type GameConfig struct {
	Duration          Duration `yaml:"duration"`
	CoinSpawnInterval Duration `yaml:"coin_spawn_interval"`
	MaxCoins          int      `yaml:"max_coins"`
	InitialCoins      int      `yaml:"initial_coins"`
	MinPlayers        int      `yaml:"min_players"`
	MaxPlayers        int      `yaml:"max_players"`
	LobbyCountdown    int      `yaml:"lobby_countdown"`
	TickRate          int      `yaml:"tick_rate"`
	BroadcastRate     int      `yaml:"broadcast_rate"`
}

// ClientConfig describes client-side pacing and smoothing.
type ClientConfig struct {
	InputRate          int      `yaml:"input_rate"`
	InterpolationDelay Duration `yaml:"interpolation_delay"`
	ExtrapolationCap   Duration `yaml:"extrapolation_cap"`
	SnapThreshold      float64  `yaml:"snap_threshold"`
}

// Default returns the tuning the game was balanced against.
func Default() Config {
	return Config{
		Network: NetworkConfig{
			Addr:    "localhost:8765",
			Latency: Duration(200 * time.Millisecond),
		},
		World: WorldConfig{
			Width:        800,
			Height:       600,
			PlayerSize:   30,
			PlayerSpeed:  200,
			CoinSize:     20,
			PickupRadius: 25, // (player + coin) / 2
		},
		Game: GameConfig{
			Duration:          Duration(2 * time.Minute),
			CoinSpawnInterval: Duration(3 * time.Second),
			MaxCoins:          10,
			InitialCoins:      3,
			MinPlayers:        2,
			MaxPlayers:        4,
			LobbyCountdown:    3,
			TickRate:          60,
			BroadcastRate:     20,
		},
		Client: ClientConfig{
			InputRate:          30,
			InterpolationDelay: Duration(100 * time.Millisecond),
			ExtrapolationCap:   Duration(200 * time.Millisecond),
			SnapThreshold:      200,
		},
	}
}
