package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// subscriberConn is the narrow slice of a websocket connection the hub
// needs. Tests substitute recording implementations.
type subscriberConn interface {
	Write(data []byte) error
	SetWriteDeadline(deadline time.Time) error
	Close() error
}

// wsConn adapts a gorilla connection to subscriberConn.
type wsConn struct {
	conn *websocket.Conn
}

func (c wsConn) Write(data []byte) error {
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c wsConn) SetWriteDeadline(deadline time.Time) error {
	return c.conn.SetWriteDeadline(deadline)
}

func (c wsConn) Close() error { return c.conn.Close() }

// subscriber is one connected client. The read pump stops at Receive;
// playerID and closed belong to the run loop alone.
type subscriber struct {
	conn subscriberConn
	mu   sync.Mutex // serializes writes

	playerID string
	closed   bool
}

func newSubscriber(conn subscriberConn) *subscriber {
	return &subscriber{conn: conn}
}

func (s *subscriber) write(data []byte, deadline time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(deadline)
	return s.conn.Write(data)
}
