package client

import (
	"time"

	"coin-rush/internal/config"
	"coin-rush/internal/protocol"
)

// Phase tracks where the client is in the match lifecycle.
type Phase int

const (
	PhaseConnecting Phase = iota
	PhaseLobby
	PhaseCountdown
	PhasePlaying
	PhaseGameOver
	PhaseDisconnected
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseLobby:
		return "lobby"
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game over"
	case PhaseDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// Game is the client-side match model: prediction for the local player,
// interpolation for everyone else, and the lobby/countdown bookkeeping.
// It is driven by one goroutine; HandleMessage and Tick must not race.
type Game struct {
	cfg config.Config

	phase      Phase
	playerID   string
	name       string
	colorIndex int

	lobby     protocol.LobbyUpdate
	countdown int

	predictor *predictor
	remotes   *interpolator

	snapshot      protocol.Snapshot
	haveSnapshot  bool
	serverTime    float64
	serverTimeAt  time.Time
	timeRemaining float64

	sequence    uint64
	lastInput   time.Time
	lastStep    time.Time
	latency     time.Duration
	pendingAt   time.Time
	havePending bool

	result protocol.GameOver
}

func NewGame(cfg config.Config, name string) *Game {
	return &Game{
		cfg:       cfg,
		phase:     PhaseConnecting,
		name:      name,
		predictor: newPredictor(cfg.World, cfg.Client),
		remotes:   newInterpolator(),
		// Both legs carry the injected delay, so seed the estimate at
		// twice the one-way value.
		latency: 2 * cfg.Network.Latency.Std(),
	}
}

func (g *Game) Phase() Phase     { return g.phase }
func (g *Game) PlayerID() string { return g.playerID }
func (g *Game) Name() string     { return g.name }

func (g *Game) JoinPayload() protocol.Payload {
	return protocol.Join{Name: g.name}
}

// HandleMessage folds one server payload into the model.
func (g *Game) HandleMessage(payload protocol.Payload, now time.Time) {
	switch msg := payload.(type) {
	case protocol.Welcome:
		g.playerID = msg.PlayerID
		g.colorIndex = msg.ColorIndex
		g.phase = PhaseLobby
	case protocol.LobbyUpdate:
		g.lobby = msg
		if g.phase == PhaseConnecting {
			g.phase = PhaseLobby
		}
	case protocol.GameStart:
		g.countdown = msg.Countdown
		g.phase = PhaseCountdown
	case protocol.Snapshot:
		g.applySnapshot(msg, now)
	case protocol.CoinCollected:
		g.predictor.ConfirmPickup(msg.CoinID)
		if msg.CollectorID == g.playerID {
			g.predictor.score = msg.NewScore
		}
	case protocol.GameOver:
		g.result = msg
		g.phase = PhaseGameOver
	}
}

func (g *Game) applySnapshot(snap protocol.Snapshot, now time.Time) {
	g.snapshot = snap
	g.haveSnapshot = true
	g.serverTime = snap.ServerTime
	g.serverTimeAt = now
	g.timeRemaining = snap.GameTimeRemaining

	if g.havePending {
		g.havePending = false
		sample := now.Sub(g.pendingAt)
		g.latency = time.Duration(0.7*float64(g.latency) + 0.3*float64(sample))
	}

	if snap.GameStarted && !snap.GameOver && g.phase != PhaseGameOver {
		if g.phase != PhasePlaying {
			g.phase = PhasePlaying
			g.lastStep = now
		}
	}

	present := make(map[string]bool, len(snap.Players))
	for _, player := range snap.Players {
		present[player.ID] = true
		if player.ID == g.playerID {
			g.predictor.Reconcile(player)
			continue
		}
		g.remotes.Observe(player.ID, snap.ServerTime, player.Position)
	}
	g.remotes.Prune(present)
}

// Disconnected flips the model into its terminal phase.
func (g *Game) Disconnected() { g.phase = PhaseDisconnected }

// SetDirections records the local player's held movement keys.
func (g *Game) SetDirections(set protocol.DirectionSet) {
	g.predictor.SetDirections(set)
}

// Tick advances prediction and returns any frames due on the wire. Inputs
// go out at a fixed cadence even when idle, so the server's sequence
// filter and the latency probe keep flowing.
func (g *Game) Tick(now time.Time) []protocol.Payload {
	if g.phase != PhasePlaying {
		return nil
	}
	if !g.lastStep.IsZero() {
		g.predictor.Step(now.Sub(g.lastStep).Seconds())
	}
	g.lastStep = now
	g.predictor.PredictPickups(g.snapshot.Coins)

	interval := time.Second / time.Duration(g.cfg.Client.InputRate)
	if now.Sub(g.lastInput) < interval {
		return nil
	}
	g.lastInput = now
	g.sequence++
	if !g.havePending {
		g.havePending = true
		g.pendingAt = now
	}
	return []protocol.Payload{protocol.Input{
		Directions: g.predictor.active.List(),
		Sequence:   g.sequence,
	}}
}

// RemotePlayer is a renderable remote entity.
type RemotePlayer struct {
	ID         string
	Name       string
	ColorIndex int
	Score      int
	Position   protocol.Vec2
}

// RenderState is everything the UI needs for one frame.
type RenderState struct {
	Phase         Phase
	PlayerID      string
	Name          string
	ColorIndex    int
	Position      protocol.Vec2
	Score         int
	Remotes       []RemotePlayer
	Coins         []protocol.CoinState
	TimeRemaining float64
	Latency       time.Duration
	Lobby         protocol.LobbyUpdate
	Countdown     int
	Result        protocol.GameOver
	World         config.WorldConfig
}

// Render resolves remote positions at the delayed render time and bundles
// the frame for the UI.
func (g *Game) Render(now time.Time) RenderState {
	state := RenderState{
		Phase:         g.phase,
		PlayerID:      g.playerID,
		Name:          g.name,
		ColorIndex:    g.colorIndex,
		Position:      g.predictor.pos,
		Score:         g.predictor.score,
		TimeRemaining: g.timeRemaining,
		Latency:       g.latency,
		Lobby:         g.lobby,
		Countdown:     g.countdown,
		Result:        g.result,
		World:         g.cfg.World,
	}
	if !g.haveSnapshot {
		return state
	}

	renderTime := g.estimatedServerTime(now) - g.cfg.Client.InterpolationDelay.Std().Seconds()
	capSeconds := g.cfg.Client.ExtrapolationCap.Std().Seconds()
	for _, player := range g.snapshot.Players {
		if player.ID == g.playerID {
			continue
		}
		pos, ok := g.remotes.PositionAt(player.ID, renderTime, capSeconds)
		if !ok {
			pos = player.Position
		}
		state.Remotes = append(state.Remotes, RemotePlayer{
			ID:         player.ID,
			Name:       player.Name,
			ColorIndex: player.ColorIndex,
			Score:      player.Score,
			Position:   pos,
		})
	}
	state.Coins = g.predictor.VisibleCoins(g.snapshot.Coins)
	return state
}

// estimatedServerTime projects the last snapshot's clock forward by the
// local time elapsed since it arrived.
func (g *Game) estimatedServerTime(now time.Time) float64 {
	return g.serverTime + now.Sub(g.serverTimeAt).Seconds()
}
