package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Routes wires the hub's endpoints onto a fresh mux.
func (h *Hub) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWebsocket)
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/diagnostics", h.handleDiagnostics)
	return mux
}

func (h *Hub) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	sub := h.Connect(wsConn{conn: conn})
	go h.readPump(conn, sub)
}

// readPump feeds raw frames into the delayed inbound queue until the
// connection dies, then flags the subscriber for the run loop to reap.
func (h *Hub) readPump(conn *websocket.Conn, sub *subscriber) {
	defer h.NotifyClosed(sub)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.Receive(sub, raw)
	}
}

func (h *Hub) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"players": h.counters.connectedPlayers.Load(),
	})
}

func (h *Hub) handleDiagnostics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Telemetry())
}
