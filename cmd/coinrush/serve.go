package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"coin-rush/internal/config"
	"coin-rush/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the authoritative game server",
	Long: `Run the game server. Clients connect over websockets at /ws; /health
and /diagnostics expose liveness and broadcast telemetry.

Examples:
  coinrush serve                     # Listen on the configured address
  coinrush serve --addr :9000        # Override the listen address`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Network.Addr = flagAddr
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	hub := server.NewHub(cfg, nil, log)
	stop := make(chan struct{})
	go hub.Run(stop)

	srv := &http.Server{
		Addr:    cfg.Network.Addr,
		Handler: hub.Routes(),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		close(stop)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", cfg.Network.Addr).
		Dur("latency", cfg.Network.Latency.Std()).
		Msg("server listening")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
