package sim

// EventType tags a discrete outcome of one Advance call.
type EventType string

const (
	EventCoinCollected EventType = "coin_collected"
	EventGameOver      EventType = "game_over"
)

// Event is emitted by Advance instead of the engine talking to the network
// itself. The hub translates events into broadcasts; tests consume them
// directly.
type Event struct {
	Type     EventType
	CoinID   string
	PlayerID string
	NewScore int
}
