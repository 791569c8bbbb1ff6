// Package ui renders the match in the terminal with Bubble Tea. It owns
// no game rules: every frame it asks the client model for a render state
// and draws it.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"coin-rush/internal/client"
	"coin-rush/internal/protocol"
)

// frameMsg drives the render/input loop.
type frameMsg time.Time

func frameCmd(fps int) tea.Cmd {
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// serverMsg carries one decoded server payload into Update. Messages are
// tagged with their connection so frames from a connection abandoned by a
// restart can be discarded.
type serverMsg struct {
	from    *client.Network
	payload protocol.Payload
}

// disconnectedMsg fires when a connection's server channel closes.
type disconnectedMsg struct {
	from *client.Network
}

func listenCmd(net *client.Network) tea.Cmd {
	return func() tea.Msg {
		payload, ok := <-net.Messages()
		if !ok {
			return disconnectedMsg{from: net}
		}
		return serverMsg{from: net, payload: payload}
	}
}
