package server

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"coin-rush/internal/config"
	"coin-rush/internal/latency"
	"coin-rush/internal/protocol"
	"coin-rush/internal/sim"
)

const (
	schedulerInterval = 5 * time.Millisecond
	countdownStep     = time.Second
	writeTimeout      = 5 * time.Second
)

// inboundFrame is a raw client frame waiting out its delivery delay.
type inboundFrame struct {
	sub *subscriber
	raw []byte
}

// outboundFrame is an encoded server frame waiting out its delivery delay.
type outboundFrame struct {
	sub  *subscriber
	data []byte
}

// Hub owns the match lifecycle: lobby, countdown, simulation ticks and
// snapshot fan-out. All mutable state is touched only from the run loop;
// read pumps hand frames over through the delay queues and closedMu.
type Hub struct {
	cfg      config.Config
	clock    clockwork.Clock
	log      zerolog.Logger
	engine   *sim.Engine
	counters *telemetryCounters

	inbound  *latency.Queue[inboundFrame]
	outbound *latency.Queue[outboundFrame]

	closedMu sync.Mutex
	closed   []*subscriber

	subscribers map[string]*subscriber

	inLobby            bool
	countdownActive    bool
	countdownRemaining int
	countdownNext      time.Time

	lastTick      time.Time
	lastBroadcast time.Time
}

func NewHub(cfg config.Config, clock clockwork.Clock, log zerolog.Logger) *Hub {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	delay := cfg.Network.Latency.Std()
	return &Hub{
		cfg:         cfg,
		clock:       clock,
		log:         log,
		engine:      sim.NewEngine(cfg.World, cfg.Game, clock, rand.New(rand.NewSource(clock.Now().UnixNano()))),
		counters:    &telemetryCounters{},
		inbound:     latency.NewQueue[inboundFrame](clock, delay),
		outbound:    latency.NewQueue[outboundFrame](clock, delay),
		subscribers: make(map[string]*subscriber),
		inLobby:     true,
	}
}

// Connect wraps a fresh transport connection. The subscriber is not part
// of the match until its join frame clears the delivery delay.
func (h *Hub) Connect(conn subscriberConn) *subscriber {
	return newSubscriber(conn)
}

// Receive queues one raw client frame for delayed processing. Safe to
// call from read pumps.
func (h *Hub) Receive(sub *subscriber, raw []byte) {
	h.inbound.Enqueue(inboundFrame{sub: sub, raw: raw})
}

// NotifyClosed records a dead connection for the run loop to reap. Safe
// to call from read pumps.
func (h *Hub) NotifyClosed(sub *subscriber) {
	h.closedMu.Lock()
	h.closed = append(h.closed, sub)
	h.closedMu.Unlock()
}

// Run drives the hub until stop closes.
func (h *Hub) Run(stop <-chan struct{}) {
	ticker := h.clock.NewTicker(schedulerInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			h.step()
		}
	}
}

// step performs one scheduler pass. Split out so tests can drive the hub
// deterministically against a fake clock.
func (h *Hub) step() {
	h.reapClosed()
	h.inbound.Drain(h.deliverInbound)

	now := h.clock.Now()
	h.stepCountdown(now)

	if h.engine.Started() && !h.engine.Over() {
		tickInterval := time.Second / time.Duration(h.cfg.Game.TickRate)
		if now.Sub(h.lastTick) >= tickInterval {
			dt := now.Sub(h.lastTick).Seconds()
			if h.lastTick.IsZero() {
				dt = tickInterval.Seconds()
			}
			started := time.Now()
			events := h.engine.Advance(dt)
			h.counters.RecordTick(time.Since(started).Microseconds())
			h.lastTick = now
			h.handleEvents(events)
		}
		broadcastInterval := time.Second / time.Duration(h.cfg.Game.BroadcastRate)
		if now.Sub(h.lastBroadcast) >= broadcastInterval {
			h.broadcastSnapshot()
			h.lastBroadcast = now
		}
	}

	h.outbound.Drain(h.deliverOutbound)
}

func (h *Hub) reapClosed() {
	h.closedMu.Lock()
	pending := h.closed
	h.closed = nil
	h.closedMu.Unlock()
	for _, sub := range pending {
		h.dropSubscriber(sub)
	}
}

func (h *Hub) deliverInbound(frame inboundFrame) {
	payload, err := protocol.Decode(frame.raw)
	if err != nil {
		h.log.Warn().Err(err).Msg("discarding malformed frame")
		return
	}
	switch msg := payload.(type) {
	case protocol.Join:
		h.handleJoin(frame.sub, msg.Name)
	case protocol.Input:
		if frame.sub.playerID != "" {
			h.engine.SubmitInput(frame.sub.playerID, protocol.NewDirectionSet(msg.Directions), msg.Sequence)
		}
	case protocol.Leave:
		h.dropSubscriber(frame.sub)
	default:
		h.log.Debug().Str("type", string(payload.MessageType())).Msg("ignoring unexpected client frame")
	}
}

func (h *Hub) handleJoin(sub *subscriber, name string) {
	if sub.closed || sub.playerID != "" {
		return
	}
	if h.engine.Over() {
		h.log.Info().Msg("join after game over, resetting to lobby")
		h.resetToLobby()
	}
	if h.engine.PlayerCount() >= h.cfg.Game.MaxPlayers {
		h.log.Warn().Str("name", name).Msg("rejecting join, match full")
		sub.conn.Close()
		return
	}

	id := uuid.NewString()[:8]
	sub.playerID = id
	h.subscribers[id] = sub
	h.counters.SetConnectedPlayers(len(h.subscribers))
	state := h.engine.AddPlayer(id, name)

	h.log.Info().Str("player", id).Str("name", name).Int("players", h.engine.PlayerCount()).Msg("player joined")

	h.sendTo(sub, protocol.Welcome{PlayerID: id, ColorIndex: state.ColorIndex})
	h.broadcastLobbyUpdate()

	if h.inLobby && !h.countdownActive && h.engine.CanStart() {
		h.countdownActive = true
		h.countdownRemaining = h.cfg.Game.LobbyCountdown
		h.countdownNext = h.clock.Now()
		h.log.Info().Int("countdown", h.countdownRemaining).Msg("lobby full, starting countdown")
	}
}

func (h *Hub) stepCountdown(now time.Time) {
	if !h.countdownActive || now.Before(h.countdownNext) {
		return
	}
	if !h.engine.CanStart() {
		h.countdownActive = false
		h.log.Info().Msg("countdown abandoned, not enough players")
		return
	}
	if h.countdownRemaining > 0 {
		h.broadcast(protocol.GameStart{Countdown: h.countdownRemaining})
		h.countdownRemaining--
		h.countdownNext = now.Add(countdownStep)
		return
	}
	h.countdownActive = false
	h.inLobby = false
	h.engine.StartGame()
	h.lastTick = now
	h.lastBroadcast = now
	h.broadcastSnapshot()
	h.log.Info().Int("players", h.engine.PlayerCount()).Msg("game started")
}

func (h *Hub) handleEvents(events []sim.Event) {
	for _, ev := range events {
		switch ev.Type {
		case sim.EventCoinCollected:
			h.broadcast(protocol.CoinCollected{
				CoinID:      ev.CoinID,
				CollectorID: ev.PlayerID,
				NewScore:    ev.NewScore,
			})
		case sim.EventGameOver:
			h.announceGameOver()
		}
	}
}

func (h *Hub) announceGameOver() {
	msg := protocol.GameOver{FinalScores: h.engine.FinalScores()}
	if winner, ok := h.engine.Winner(); ok {
		msg.WinnerID = winner.ID
		msg.WinnerName = winner.Name
	}
	h.broadcastSnapshot()
	h.broadcast(msg)
	h.log.Info().Str("winner", msg.WinnerID).Msg("game over")
}

func (h *Hub) broadcastSnapshot() {
	snap := h.engine.Snapshot()
	data, err := protocol.Encode(snap)
	if err != nil {
		h.log.Error().Err(err).Msg("encoding snapshot")
		return
	}
	for _, sub := range h.subscribers {
		h.outbound.Enqueue(outboundFrame{sub: sub, data: data})
	}
	h.counters.RecordBroadcast(len(data), len(snap.Players)+len(snap.Coins), len(h.subscribers))
}

func (h *Hub) broadcastLobbyUpdate() {
	h.broadcast(protocol.LobbyUpdate{
		PlayerCount: h.engine.PlayerCount(),
		Required:    h.cfg.Game.MinPlayers,
		PlayerNames: h.engine.PlayerNames(),
	})
}

func (h *Hub) broadcast(payload protocol.Payload) {
	data, err := protocol.Encode(payload)
	if err != nil {
		h.log.Error().Err(err).Msg("encoding broadcast")
		return
	}
	for _, sub := range h.subscribers {
		h.outbound.Enqueue(outboundFrame{sub: sub, data: data})
	}
}

func (h *Hub) sendTo(sub *subscriber, payload protocol.Payload) {
	data, err := protocol.Encode(payload)
	if err != nil {
		h.log.Error().Err(err).Msg("encoding frame")
		return
	}
	h.outbound.Enqueue(outboundFrame{sub: sub, data: data})
}

func (h *Hub) deliverOutbound(frame outboundFrame) {
	if frame.sub.closed {
		return
	}
	if err := frame.sub.write(frame.data, h.clock.Now().Add(writeTimeout)); err != nil {
		h.counters.RecordDroppedWrite()
		h.dropSubscriber(frame.sub)
	}
}

func (h *Hub) dropSubscriber(sub *subscriber) {
	if sub.closed {
		return
	}
	sub.closed = true
	sub.conn.Close()

	id := sub.playerID
	if id == "" {
		return
	}
	delete(h.subscribers, id)
	h.counters.SetConnectedPlayers(len(h.subscribers))
	h.engine.RemovePlayer(id)
	h.log.Info().Str("player", id).Int("players", h.engine.PlayerCount()).Msg("player left")

	if len(h.subscribers) == 0 {
		h.log.Info().Msg("all players gone, resetting to lobby")
		h.resetToLobby()
		return
	}
	if h.inLobby {
		h.broadcastLobbyUpdate()
	}
}

// resetToLobby discards match state and any in-flight frames so a stale
// snapshot can never reach a fresh lobby.
func (h *Hub) resetToLobby() {
	for _, sub := range h.subscribers {
		sub.closed = true
		sub.conn.Close()
	}
	h.subscribers = make(map[string]*subscriber)
	h.counters.SetConnectedPlayers(0)
	h.engine.Reset()
	h.inbound.Clear()
	h.outbound.Clear()
	h.inLobby = true
	h.countdownActive = false
	h.lastTick = time.Time{}
	h.lastBroadcast = time.Time{}
}

// Telemetry exposes the counters for the diagnostics endpoint.
func (h *Hub) Telemetry() TelemetrySnapshot { return h.counters.Snapshot() }
