// Package sim owns the authoritative game state: players, coins, scores and
// the match clock. It is a pure state machine: input goes in through
// SubmitInput, time goes in through Advance, and everything observable
// comes back out as events and snapshots. Nothing in here touches the
// network.
package sim

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"coin-rush/internal/config"
	"coin-rush/internal/protocol"
)

// colorPaletteSize is the number of distinct player colors the clients can
// render. Color slots are handed out round-robin.
const colorPaletteSize = 4

type playerEntry struct {
	id           string
	name         string
	pos          protocol.Vec2
	colorIndex   int
	score        int
	inputs       protocol.DirectionSet
	lastSequence uint64
}

type coinEntry struct {
	id        string
	pos       protocol.Vec2
	spawnedAt time.Time
}

// Engine is the authoritative simulation. It is not safe for concurrent
// use; the hub's run loop is its only caller in production.
type Engine struct {
	world config.WorldConfig
	game  config.GameConfig
	clock clockwork.Clock
	rng   *rand.Rand

	players map[string]*playerEntry
	// order preserves join order so per-coin pickup scans are deterministic.
	order []string

	coins     map[string]*coinEntry
	coinOrder []string

	started       bool
	over          bool
	startedAt     time.Time
	lastCoinSpawn time.Time
	colorCursor   int
}

// NewEngine constructs an empty engine. A nil rng is seeded from the clock,
// which is all the randomness production needs; tests pass a fixed seed.
func NewEngine(world config.WorldConfig, game config.GameConfig, clock clockwork.Clock, rng *rand.Rand) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(clock.Now().UnixNano()))
	}
	return &Engine{
		world:   world,
		game:    game,
		clock:   clock,
		rng:     rng,
		players: make(map[string]*playerEntry),
		coins:   make(map[string]*coinEntry),
	}
}

// spawnPoints returns the fixed rotation of spawn positions, spreading
// players toward the four quarters of the world.
func (e *Engine) spawnPoints() [4]protocol.Vec2 {
	w, h := e.world.Width, e.world.Height
	return [4]protocol.Vec2{
		{X: w * 0.25, Y: h * 0.25},
		{X: w * 0.75, Y: h * 0.25},
		{X: w * 0.25, Y: h * 0.75},
		{X: w * 0.75, Y: h * 0.75},
	}
}

// AddPlayer registers a player at the next spawn point with the next color
// slot. Callers guarantee id uniqueness; a duplicate id is a no-op that
// returns the existing state rather than an error.
func (e *Engine) AddPlayer(id, name string) protocol.PlayerState {
	if existing, ok := e.players[id]; ok {
		return playerStateOf(existing)
	}

	points := e.spawnPoints()
	entry := &playerEntry{
		id:         id,
		name:       name,
		pos:        points[len(e.players)%len(points)],
		colorIndex: e.colorCursor % colorPaletteSize,
	}
	e.colorCursor++
	e.players[id] = entry
	e.order = append(e.order, id)
	return playerStateOf(entry)
}

// RemovePlayer deletes a player. Other players and coins are untouched.
func (e *Engine) RemovePlayer(id string) {
	if _, ok := e.players[id]; !ok {
		return
	}
	delete(e.players, id)
	for i, other := range e.order {
		if other == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Player returns the network view of one player.
func (e *Engine) Player(id string) (protocol.PlayerState, bool) {
	entry, ok := e.players[id]
	if !ok {
		return protocol.PlayerState{}, false
	}
	return playerStateOf(entry), true
}

// PlayerCount reports how many players are registered.
func (e *Engine) PlayerCount() int { return len(e.players) }

// PlayerNames lists display names in join order, for lobby broadcasts.
func (e *Engine) PlayerNames() []string {
	names := make([]string, 0, len(e.order))
	for _, id := range e.order {
		names = append(names, e.players[id].name)
	}
	return names
}

// SubmitInput applies a client's held-direction report. Input is dropped
// silently unless the game is running, the player exists, and the sequence
// is strictly newer than the last accepted one; stale and duplicated
// frames are expected under injected latency, not errors.
func (e *Engine) SubmitInput(id string, set protocol.DirectionSet, sequence uint64) {
	if !e.started || e.over {
		return
	}
	entry, ok := e.players[id]
	if !ok {
		return
	}
	if sequence <= entry.lastSequence {
		return
	}
	entry.lastSequence = sequence
	entry.inputs = set
}

// CanStart reports whether the lobby holds enough players for a match.
func (e *Engine) CanStart() bool { return len(e.players) >= e.game.MinPlayers }

// Started reports whether the match is running or finished.
func (e *Engine) Started() bool { return e.started }

// Over reports whether the match has ended.
func (e *Engine) Over() bool { return e.over }

// StartGame stamps the match clock and seeds the field with coins.
func (e *Engine) StartGame() {
	if e.started {
		return
	}
	e.started = true
	now := e.clock.Now()
	e.startedAt = now
	e.lastCoinSpawn = now
	for i := 0; i < e.game.InitialCoins; i++ {
		e.spawnCoin()
	}
}

// Advance runs one simulation tick: integrate movement, resolve pickups,
// spawn coins, and check the match clock. Returned events are the only
// side channel; the engine never broadcasts.
func (e *Engine) Advance(dt float64) []Event {
	if !e.started || e.over {
		return nil
	}

	var events []Event
	now := e.clock.Now()

	for _, id := range e.order {
		entry := e.players[id]
		entry.pos = StepPosition(entry.pos, entry.inputs, dt, e.world)
	}

	// Per-tick collected set: a coin grabbed by one player this tick is
	// invisible to later scans, so two overlapping players cannot both be
	// credited.
	collected := make(map[string]bool)
	for _, coinID := range e.coinOrder {
		if collected[coinID] {
			continue
		}
		coin := e.coins[coinID]
		for _, playerID := range e.order {
			entry := e.players[playerID]
			if distance(entry.pos, coin.pos) < e.world.PickupRadius {
				entry.score++
				collected[coinID] = true
				events = append(events, Event{
					Type:     EventCoinCollected,
					CoinID:   coinID,
					PlayerID: playerID,
					NewScore: entry.score,
				})
				break
			}
		}
	}
	if len(collected) > 0 {
		e.removeCoins(collected)
	}

	if now.Sub(e.lastCoinSpawn) >= e.game.CoinSpawnInterval.Std() {
		if len(e.coins) < e.game.MaxCoins {
			e.spawnCoin()
		}
		e.lastCoinSpawn = now
	}

	if now.Sub(e.startedAt) >= e.game.Duration.Std() {
		e.over = true
		events = append(events, Event{Type: EventGameOver})
	}

	return events
}

func (e *Engine) removeCoins(ids map[string]bool) {
	for id := range ids {
		delete(e.coins, id)
	}
	kept := e.coinOrder[:0]
	for _, id := range e.coinOrder {
		if !ids[id] {
			kept = append(kept, id)
		}
	}
	e.coinOrder = kept
}

func (e *Engine) spawnCoin() {
	margin := e.world.CoinSize
	coin := &coinEntry{
		id: uuid.NewString()[:8],
		pos: protocol.Vec2{
			X: margin + e.rng.Float64()*(e.world.Width-2*margin),
			Y: margin + e.rng.Float64()*(e.world.Height-2*margin),
		},
		spawnedAt: e.clock.Now(),
	}
	e.coins[coin.id] = coin
	e.coinOrder = append(e.coinOrder, coin.id)
}

// TimeRemaining reports seconds left on the match clock.
func (e *Engine) TimeRemaining() float64 {
	if !e.started {
		return e.game.Duration.Std().Seconds()
	}
	remaining := e.game.Duration.Std() - e.clock.Now().Sub(e.startedAt)
	if remaining < 0 {
		remaining = 0
	}
	return remaining.Seconds()
}

// Snapshot exports a deep point-in-time copy of the visible state. The
// slices are freshly allocated value types, so no caller ever aliases the
// engine's mutable entries.
func (e *Engine) Snapshot() protocol.Snapshot {
	now := float64(e.clock.Now().UnixNano()) / float64(time.Second)

	players := make([]protocol.PlayerState, 0, len(e.order))
	for _, id := range e.order {
		players = append(players, playerStateOf(e.players[id]))
	}
	coins := make([]protocol.CoinState, 0, len(e.coinOrder))
	for _, id := range e.coinOrder {
		coin := e.coins[id]
		coins = append(coins, protocol.CoinState{ID: coin.id, Position: coin.pos})
	}

	return protocol.Snapshot{
		Timestamp:         now,
		ServerTime:        now,
		Players:           players,
		Coins:             coins,
		GameTimeRemaining: e.TimeRemaining(),
		GameStarted:       e.started,
		GameOver:          e.over,
	}
}

// Winner returns the highest-scoring surviving player, if any.
func (e *Engine) Winner() (protocol.PlayerState, bool) {
	var best *playerEntry
	for _, id := range e.order {
		entry := e.players[id]
		if best == nil || entry.score > best.score {
			best = entry
		}
	}
	if best == nil {
		return protocol.PlayerState{}, false
	}
	return playerStateOf(best), true
}

// FinalScores maps player id to score for the game-over report.
func (e *Engine) FinalScores() map[string]int {
	scores := make(map[string]int, len(e.players))
	for id, entry := range e.players {
		scores[id] = entry.score
	}
	return scores
}

// Reset clears everything back to the pre-lobby state.
func (e *Engine) Reset() {
	e.players = make(map[string]*playerEntry)
	e.order = nil
	e.coins = make(map[string]*coinEntry)
	e.coinOrder = nil
	e.started = false
	e.over = false
	e.startedAt = time.Time{}
	e.lastCoinSpawn = time.Time{}
	e.colorCursor = 0
}

func playerStateOf(entry *playerEntry) protocol.PlayerState {
	return protocol.PlayerState{
		ID:         entry.id,
		Position:   entry.pos,
		Score:      entry.score,
		ColorIndex: entry.colorIndex,
		Name:       entry.name,
	}
}
