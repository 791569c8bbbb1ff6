package client

import (
	"math"
	"testing"
	"time"

	"coin-rush/internal/config"
	"coin-rush/internal/protocol"
)

func newTestGame() (*Game, time.Time) {
	return NewGame(config.Default(), "tester"), time.Unix(1_700_000_000, 0)
}

func startPlaying(g *Game, now time.Time) {
	g.HandleMessage(protocol.Welcome{PlayerID: "self", ColorIndex: 1}, now)
	g.HandleMessage(protocol.Snapshot{
		ServerTime:  1000,
		GameStarted: true,
		Players:     []protocol.PlayerState{{ID: "self", Position: protocol.Vec2{X: 200, Y: 150}}},
	}, now)
}

func TestPhaseFollowsServerMessages(t *testing.T) {
	g, now := newTestGame()
	if g.Phase() != PhaseConnecting {
		t.Fatalf("initial phase = %v", g.Phase())
	}
	g.HandleMessage(protocol.Welcome{PlayerID: "self"}, now)
	if g.Phase() != PhaseLobby {
		t.Fatalf("after welcome phase = %v", g.Phase())
	}
	g.HandleMessage(protocol.GameStart{Countdown: 3}, now)
	if g.Phase() != PhaseCountdown || g.countdown != 3 {
		t.Fatalf("after countdown phase = %v (%d)", g.Phase(), g.countdown)
	}
	g.HandleMessage(protocol.Snapshot{GameStarted: true}, now)
	if g.Phase() != PhasePlaying {
		t.Fatalf("after snapshot phase = %v", g.Phase())
	}
	g.HandleMessage(protocol.GameOver{WinnerID: "self"}, now)
	if g.Phase() != PhaseGameOver {
		t.Fatalf("after game over phase = %v", g.Phase())
	}
}

func TestInputCadenceAndSequences(t *testing.T) {
	g, now := newTestGame()
	startPlaying(g, now)

	g.SetDirections(protocol.DirectionSet{Right: true})
	first := g.Tick(now.Add(100 * time.Millisecond))
	if len(first) != 1 {
		t.Fatalf("expected an input frame, got %d", len(first))
	}
	input := first[0].(protocol.Input)
	if input.Sequence != 1 || len(input.Directions) != 1 {
		t.Fatalf("unexpected input %+v", input)
	}

	// Inside the send interval nothing further goes out.
	if frames := g.Tick(now.Add(110 * time.Millisecond)); len(frames) != 0 {
		t.Fatalf("unexpected frames inside the interval: %d", len(frames))
	}

	// Past the interval a fresh sequence goes out, even when idle.
	g.SetDirections(protocol.DirectionSet{})
	second := g.Tick(now.Add(140 * time.Millisecond))
	if len(second) != 1 {
		t.Fatalf("expected an idle input frame, got %d", len(second))
	}
	idle := second[0].(protocol.Input)
	if idle.Sequence != 2 || len(idle.Directions) != 0 {
		t.Fatalf("unexpected idle input %+v", idle)
	}
}

func TestPredictionMovesBetweenSnapshots(t *testing.T) {
	g, now := newTestGame()
	startPlaying(g, now)

	g.SetDirections(protocol.DirectionSet{Right: true})
	g.Tick(now.Add(50 * time.Millisecond))
	g.Tick(now.Add(150 * time.Millisecond))

	state := g.Render(now.Add(150 * time.Millisecond))
	want := 200.0 + 0.150*g.cfg.World.PlayerSpeed
	if math.Abs(state.Position.X-want) > 0.5 {
		t.Fatalf("predicted X = %v, want ~%v", state.Position.X, want)
	}
}

func TestLatencyEstimateBlendsMeasurements(t *testing.T) {
	g, now := newTestGame()
	startPlaying(g, now)

	seed := 2 * g.cfg.Network.Latency.Std()
	if g.latency != seed {
		t.Fatalf("seed latency = %v, want %v", g.latency, seed)
	}

	g.Tick(now.Add(100 * time.Millisecond)) // arms the probe
	g.HandleMessage(protocol.Snapshot{GameStarted: true, ServerTime: 1001}, now.Add(400*time.Millisecond))

	want := time.Duration(0.7*float64(seed) + 0.3*float64(300*time.Millisecond))
	if diff := g.latency - want; diff < -time.Millisecond || diff > time.Millisecond {
		t.Fatalf("latency = %v, want ~%v", g.latency, want)
	}

	// The probe is one-shot; an unarmed snapshot leaves the estimate alone.
	before := g.latency
	g.HandleMessage(protocol.Snapshot{GameStarted: true, ServerTime: 1002}, now.Add(900*time.Millisecond))
	if g.latency != before {
		t.Fatalf("latency changed without a pending probe: %v -> %v", before, g.latency)
	}
}

func TestRenderInterpolatesRemotePlayers(t *testing.T) {
	g, now := newTestGame()
	g.HandleMessage(protocol.Welcome{PlayerID: "self"}, now)

	remoteAt := func(ts float64, x float64, at time.Time) {
		g.HandleMessage(protocol.Snapshot{
			ServerTime:  ts,
			GameStarted: true,
			Players: []protocol.PlayerState{
				{ID: "self", Position: protocol.Vec2{X: 200, Y: 150}},
				{ID: "other", Position: protocol.Vec2{X: x, Y: 100}},
			},
		}, at)
	}
	remoteAt(1000.0, 0, now)
	remoteAt(1000.1, 10, now.Add(100*time.Millisecond))

	// renderTime = 1000.1 + 0.05 - 0.1 = 1000.05, halfway between samples.
	state := g.Render(now.Add(150 * time.Millisecond))
	if len(state.Remotes) != 1 {
		t.Fatalf("expected one remote, got %d", len(state.Remotes))
	}
	if math.Abs(state.Remotes[0].Position.X-5) > 1e-6 {
		t.Fatalf("remote X = %v, want 5", state.Remotes[0].Position.X)
	}
}

func TestRenderHidesPredictedCoins(t *testing.T) {
	g, now := newTestGame()
	g.HandleMessage(protocol.Welcome{PlayerID: "self"}, now)
	g.HandleMessage(protocol.Snapshot{
		ServerTime:  1000,
		GameStarted: true,
		Players:     []protocol.PlayerState{{ID: "self", Position: protocol.Vec2{X: 100, Y: 100}}},
		Coins: []protocol.CoinState{
			{ID: "near", Position: protocol.Vec2{X: 108, Y: 100}},
			{ID: "far", Position: protocol.Vec2{X: 600, Y: 400}},
		},
	}, now)

	g.Tick(now.Add(10 * time.Millisecond))
	state := g.Render(now.Add(10 * time.Millisecond))
	if len(state.Coins) != 1 || state.Coins[0].ID != "far" {
		t.Fatalf("coins = %v, want just far", state.Coins)
	}
}
