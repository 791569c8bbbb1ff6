// Package protocol defines the wire contract shared by the server and the
// client: one flat {type, data} JSON envelope per frame, with a closed set
// of message types.
package protocol

// Type enumerates every message that may appear on the wire.
type Type string

const (
	// Client -> server.
	TypeJoin  Type = "join"
	TypeInput Type = "input"
	TypeLeave Type = "leave"

	// Server -> client.
	TypeWelcome       Type = "welcome"
	TypeLobbyUpdate   Type = "lobby_update"
	TypeGameStart     Type = "game_start"
	TypeGameState     Type = "game_state"
	TypeCoinCollected Type = "coin_collected"
	TypeGameOver      Type = "game_over"
)

// Vec2 is a 2D position in world coordinates.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlayerState is the network view of one player.
type PlayerState struct {
	ID         string `json:"id"`
	Position   Vec2   `json:"position"`
	Score      int    `json:"score"`
	ColorIndex int    `json:"color_index"`
	Name       string `json:"name"`
}

// CoinState is the network view of one coin.
type CoinState struct {
	ID       string `json:"id"`
	Position Vec2   `json:"position"`
}

// Payload is the closed sum of message bodies. Each concrete payload
// reports the envelope type it travels under.
type Payload interface {
	MessageType() Type
}

// Join asks the server for a seat in the lobby.
type Join struct {
	Name string `json:"name"`
}

// Input carries the client's currently held direction set. Sequence is
// strictly increasing per client; the server drops anything stale.
type Input struct {
	Directions []Direction `json:"directions"`
	Sequence   uint64      `json:"sequence"`
}

// Leave announces an orderly disconnect.
type Leave struct{}

// Welcome acknowledges a join.
type Welcome struct {
	PlayerID   string `json:"player_id"`
	ColorIndex int    `json:"color_index"`
}

// LobbyUpdate reports lobby membership while waiting for a match.
type LobbyUpdate struct {
	PlayerCount int      `json:"player_count"`
	Required    int      `json:"required"`
	PlayerNames []string `json:"player_names"`
}

// GameStart carries one step of the pre-game countdown.
type GameStart struct {
	Countdown int `json:"countdown"`
}

// Snapshot is the full authoritative state export, broadcast at the
// (lower) broadcast rate. Timestamps are Unix seconds.
type Snapshot struct {
	Timestamp         float64       `json:"timestamp"`
	ServerTime        float64       `json:"server_time"`
	Players           []PlayerState `json:"players"`
	Coins             []CoinState   `json:"coins"`
	GameTimeRemaining float64       `json:"game_time_remaining"`
	GameStarted       bool          `json:"game_started"`
	GameOver          bool          `json:"game_over"`
}

// CoinCollected confirms a single pickup. Sent at most once per coin.
type CoinCollected struct {
	CoinID      string `json:"coin_id"`
	CollectorID string `json:"collector_id"`
	NewScore    int    `json:"new_score"`
}

// GameOver announces the final result.
type GameOver struct {
	WinnerID    string         `json:"winner_id"`
	WinnerName  string         `json:"winner_name"`
	FinalScores map[string]int `json:"final_scores"`
}

func (Join) MessageType() Type          { return TypeJoin }
func (Input) MessageType() Type         { return TypeInput }
func (Leave) MessageType() Type         { return TypeLeave }
func (Welcome) MessageType() Type       { return TypeWelcome }
func (LobbyUpdate) MessageType() Type   { return TypeLobbyUpdate }
func (GameStart) MessageType() Type     { return TypeGameStart }
func (Snapshot) MessageType() Type      { return TypeGameState }
func (CoinCollected) MessageType() Type { return TypeCoinCollected }
func (GameOver) MessageType() Type      { return TypeGameOver }
