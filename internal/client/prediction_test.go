package client

import (
	"testing"

	"coin-rush/internal/config"
	"coin-rush/internal/protocol"
)

func newTestPredictor() *predictor {
	cfg := config.Default()
	return newPredictor(cfg.World, cfg.Client)
}

func TestReconcileSnapsOnlyBeyondThreshold(t *testing.T) {
	p := newTestPredictor()
	p.pos = protocol.Vec2{X: 100, Y: 100}

	// Within the threshold the predicted position wins.
	p.Reconcile(protocol.PlayerState{Position: protocol.Vec2{X: 150, Y: 100}, Score: 2})
	if p.pos.X != 100 {
		t.Fatalf("small error should not snap, pos=%+v", p.pos)
	}
	if p.score != 2 {
		t.Fatalf("score must always adopt the server value, got %d", p.score)
	}

	p.Reconcile(protocol.PlayerState{Position: protocol.Vec2{X: 400, Y: 100}, Score: 2})
	if p.pos.X != 400 {
		t.Fatalf("large error should snap, pos=%+v", p.pos)
	}
}

func TestPredictPickupsHidesCoinsInRange(t *testing.T) {
	p := newTestPredictor()
	p.pos = protocol.Vec2{X: 100, Y: 100}
	coins := []protocol.CoinState{
		{ID: "near", Position: protocol.Vec2{X: 110, Y: 100}},
		{ID: "far", Position: protocol.Vec2{X: 300, Y: 300}},
	}

	picked := p.PredictPickups(coins)
	if len(picked) != 1 || picked[0] != "near" {
		t.Fatalf("picked = %v, want [near]", picked)
	}
	// Re-running over the same snapshot must not re-pick.
	if again := p.PredictPickups(coins); len(again) != 0 {
		t.Fatalf("second pass picked %v", again)
	}

	visible := p.VisibleCoins(coins)
	if len(visible) != 1 || visible[0].ID != "far" {
		t.Fatalf("visible = %v, want just far", visible)
	}
}

func TestStaleSnapshotCannotResurrectCollectedCoin(t *testing.T) {
	p := newTestPredictor()
	p.pos = protocol.Vec2{X: 100, Y: 100}
	coins := []protocol.CoinState{{ID: "c1", Position: protocol.Vec2{X: 105, Y: 100}}}

	p.PredictPickups(coins)
	p.ConfirmPickup("c1")

	// A snapshot generated before the pickup still lists the coin.
	if visible := p.VisibleCoins(coins); len(visible) != 0 {
		t.Fatalf("stale snapshot resurrected coin: %v", visible)
	}

	// Once the server stops reporting it, the bookkeeping retires.
	if visible := p.VisibleCoins(nil); len(visible) != 0 {
		t.Fatalf("unexpected coins: %v", visible)
	}
	if len(p.confirmed) != 0 {
		t.Fatalf("confirmed set should be empty, has %d", len(p.confirmed))
	}
}

func TestConfirmPickupCoversOtherPlayers(t *testing.T) {
	p := newTestPredictor()
	coins := []protocol.CoinState{{ID: "c2", Position: protocol.Vec2{X: 700, Y: 500}}}

	// Someone else collected it; the coin must vanish even though we
	// never predicted it.
	p.ConfirmPickup("c2")
	if visible := p.VisibleCoins(coins); len(visible) != 0 {
		t.Fatalf("coin should be hidden after remote pickup: %v", visible)
	}
}

func TestResetClearsMatchState(t *testing.T) {
	p := newTestPredictor()
	p.pos = protocol.Vec2{X: 50, Y: 60}
	p.score = 4
	p.predicted["a"] = true
	p.confirmed["b"] = true

	p.Reset()
	if p.score != 0 || p.pos.X != 0 || len(p.predicted) != 0 || len(p.confirmed) != 0 {
		t.Fatalf("reset left state behind: %+v", p)
	}
}
