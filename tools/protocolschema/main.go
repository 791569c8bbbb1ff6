// protocolschema emits a JSON schema for every wire message, so other
// client implementations can validate their encoders against the server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"coin-rush/internal/protocol"
)

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write message schemas into")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	for name, payload := range messageShapes() {
		if err := writeSchema(outDir, name, payload); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s schema: %v\n", name, err)
			os.Exit(1)
		}
	}
}

func messageShapes() map[string]any {
	return map[string]any{
		string(protocol.TypeJoin):          new(protocol.Join),
		string(protocol.TypeInput):         new(protocol.Input),
		string(protocol.TypeLeave):         new(protocol.Leave),
		string(protocol.TypeWelcome):       new(protocol.Welcome),
		string(protocol.TypeLobbyUpdate):   new(protocol.LobbyUpdate),
		string(protocol.TypeGameStart):     new(protocol.GameStart),
		string(protocol.TypeGameState):     new(protocol.Snapshot),
		string(protocol.TypeCoinCollected): new(protocol.CoinCollected),
		string(protocol.TypeGameOver):      new(protocol.GameOver),
	}
}

func writeSchema(outDir, name string, payload any) error {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(payload)
	schema.Title = fmt.Sprintf("Coin Rush %q message", name)

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	outPath := filepath.Join(outDir, name+".schema.json")
	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	return os.Rename(tmpPath, outPath)
}
