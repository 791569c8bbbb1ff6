package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"coin-rush/internal/client"
	"coin-rush/internal/client/ui"
	"coin-rush/internal/config"
)

var (
	flagServer string
	flagName   string
	flagDebug  string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Join a game from this terminal",
	Long: `Connect to a Coin Rush server and play. Move with WASD or the arrow
keys; q quits.

Examples:
  coinrush play                              # Connect to the configured server
  coinrush play --name Ada                   # Pick a display name
  coinrush play --server ws://host:8080/ws   # Connect elsewhere`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagServer, "server", "", "server websocket url (overrides config)")
	playCmd.Flags().StringVar(&flagName, "name", "", "display name (random if empty)")
	playCmd.Flags().StringVar(&flagDebug, "debug", "", "write client logs to this file")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	url := flagServer
	if url == "" {
		url = fmt.Sprintf("ws://localhost%s/ws", cfg.Network.Addr)
	}
	name := flagName
	if name == "" {
		name = randomName()
	}

	log := zerolog.Nop()
	if flagDebug != "" {
		f, err := os.OpenFile(flagDebug, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		log = zerolog.New(f).With().Timestamp().Logger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dialCtx, dialCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dialCancel()
	net, err := client.Dial(dialCtx, url, cfg.Network.Latency.Std(), nil, log)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", url, err)
	}
	go net.Run(ctx)

	reconnect := func() (*client.Game, *client.Network, error) {
		redialCtx, redialCancel := context.WithTimeout(ctx, 10*time.Second)
		defer redialCancel()
		fresh, err := client.Dial(redialCtx, url, cfg.Network.Latency.Std(), nil, log)
		if err != nil {
			return nil, nil, err
		}
		go fresh.Run(ctx)
		return client.NewGame(cfg, name), fresh, nil
	}

	game := client.NewGame(cfg, name)
	program := tea.NewProgram(ui.NewModel(game, net, reconnect), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

var (
	nameAdjectives = []string{"Swift", "Brave", "Sunny", "Lucky", "Rapid", "Quiet", "Bold", "Merry"}
	nameAnimals    = []string{"Fox", "Otter", "Hawk", "Lynx", "Wolf", "Crane", "Mole", "Ibex"}
)

func randomName() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return nameAdjectives[rng.Intn(len(nameAdjectives))] + nameAnimals[rng.Intn(len(nameAnimals))]
}
