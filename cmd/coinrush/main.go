// coinrush is a multiplayer coin-grab arena played in the terminal.
//
// Usage:
//
//	coinrush serve    - Run the authoritative game server
//	coinrush play     - Connect to a server and play
//
// Both commands read coinrush.yaml from the working directory when
// present; --config points at an alternate file. A .env file can carry
// COINRUSH_* overrides.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "coinrush",
	Short: "Coin Rush - real-time multiplayer coin grab",
	Long: `Coin Rush is a small real-time multiplayer game: players race across
an arena collecting coins while the server injects artificial network
latency on every message, making its prediction and interpolation
visible at human timescales.

Commands:
  serve   - Run the authoritative server
  play    - Join a server from this terminal`,
}

func main() {
	// Optional; absence of a .env file is the normal case.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
}
