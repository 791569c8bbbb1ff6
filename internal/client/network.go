package client

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"coin-rush/internal/latency"
	"coin-rush/internal/protocol"
)

const drainInterval = 5 * time.Millisecond

// Network owns the websocket and the client's two delay queue legs. A
// reader goroutine stuffs raw frames into the inbound queue; the Run loop
// drains both queues on a short interval. Decoded server messages are
// handed to the game loop over the Messages channel.
type Network struct {
	conn  *websocket.Conn
	clock clockwork.Clock
	log   zerolog.Logger

	inbound  *latency.Queue[[]byte]
	outbound *latency.Queue[[]byte]

	messages chan protocol.Payload
	closed   chan struct{}
}

// Dial connects to the server and starts the reader. delay is the one-way
// injected latency; it applies to both legs, so the server sees it twice
// per round trip.
func Dial(ctx context.Context, url string, delay time.Duration, clock clockwork.Clock, log zerolog.Logger) (*Network, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	n := &Network{
		conn:     conn,
		clock:    clock,
		log:      log,
		inbound:  latency.NewQueue[[]byte](clock, delay),
		outbound: latency.NewQueue[[]byte](clock, delay),
		messages: make(chan protocol.Payload, 64),
		closed:   make(chan struct{}),
	}
	go n.readLoop()
	return n, nil
}

func (n *Network) readLoop() {
	defer close(n.closed)
	for {
		_, raw, err := n.conn.ReadMessage()
		if err != nil {
			return
		}
		n.inbound.Enqueue(raw)
	}
}

// Send queues a payload for delayed transmission. Safe from any goroutine.
func (n *Network) Send(payload protocol.Payload) {
	data, err := protocol.Encode(payload)
	if err != nil {
		n.log.Error().Err(err).Msg("encoding outbound frame")
		return
	}
	n.outbound.Enqueue(data)
}

// Run pumps both delay queues until the context is cancelled or the
// connection dies. Messages is closed on exit so the consumer observes
// the disconnect.
func (n *Network) Run(ctx context.Context) {
	defer close(n.messages)
	defer n.conn.Close()
	ticker := n.clock.NewTicker(drainInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-n.closed:
			n.flushInbound()
			return
		case <-ticker.Chan():
			n.outbound.Drain(n.writeFrame)
			n.flushInbound()
		}
	}
}

func (n *Network) flushInbound() {
	n.inbound.Drain(func(raw []byte) {
		payload, err := protocol.Decode(raw)
		if err != nil {
			n.log.Warn().Err(err).Msg("discarding malformed server frame")
			return
		}
		select {
		case n.messages <- payload:
		default:
			n.log.Warn().Msg("dropping server frame, consumer is behind")
		}
	})
}

func (n *Network) writeFrame(data []byte) {
	n.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := n.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		n.log.Warn().Err(err).Msg("write failed")
	}
}

// Messages delivers decoded server payloads in arrival order.
func (n *Network) Messages() <-chan protocol.Payload { return n.messages }

// Close tears the connection down; Run returns shortly after.
func (n *Network) Close() error { return n.conn.Close() }
