package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"coin-rush/internal/client"
	"coin-rush/internal/protocol"
)

const frameRate = 30

// ReconnectFunc dials a fresh connection and game state so the player can
// go again after a match or a dropped link.
type ReconnectFunc func() (*client.Game, *client.Network, error)

// Model is the Bubble Tea model wrapping the client game state.
type Model struct {
	game      *client.Game
	net       *client.Network
	held      heldKeys
	reconnect ReconnectFunc

	width    int
	height   int
	quitting bool
}

func NewModel(game *client.Game, net *client.Network, reconnect ReconnectFunc) Model {
	return Model{
		game:      game,
		net:       net,
		held:      make(heldKeys),
		reconnect: reconnect,
	}
}

func (m Model) Init() tea.Cmd {
	m.net.Send(m.game.JoinPayload())
	return tea.Batch(listenCmd(m.net), frameCmd(frameRate))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.held.press(msg, time.Now()) {
			m.quitting = true
			m.net.Send(protocol.Leave{})
			return m, tea.Quit
		}
		if msg.String() == "r" && m.restartable() {
			return m.restart()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case serverMsg:
		if msg.from != m.net {
			return m, nil
		}
		m.game.HandleMessage(msg.payload, time.Now())
		return m, listenCmd(m.net)

	case disconnectedMsg:
		if msg.from == m.net {
			m.game.Disconnected()
		}
		return m, nil

	case frameMsg:
		now := time.Time(msg)
		m.game.SetDirections(m.held.active(now))
		for _, frame := range m.game.Tick(now) {
			m.net.Send(frame)
		}
		return m, frameCmd(frameRate)
	}

	return m, nil
}

func (m Model) restartable() bool {
	phase := m.game.Phase()
	return m.reconnect != nil &&
		(phase == client.PhaseGameOver || phase == client.PhaseDisconnected)
}

func (m Model) restart() (tea.Model, tea.Cmd) {
	m.net.Close()
	game, net, err := m.reconnect()
	if err != nil {
		m.game.Disconnected()
		return m, nil
	}
	m.game = game
	m.net = net
	m.held = make(heldKeys)
	m.net.Send(m.game.JoinPayload())
	return m, listenCmd(m.net)
}

func (m Model) View() string {
	if m.quitting {
		return "bye\n"
	}
	return renderFrame(m.game.Render(time.Now()), m.width)
}
