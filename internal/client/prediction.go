package client

import (
	"math"

	"coin-rush/internal/config"
	"coin-rush/internal/protocol"
	"coin-rush/internal/sim"
)

// predictor owns the local player's client-side state: the immediately
// responsive predicted position plus the optimistic coin bookkeeping that
// keeps stale snapshots from resurrecting picked-up coins.
type predictor struct {
	world  config.WorldConfig
	client config.ClientConfig

	pos    protocol.Vec2
	active protocol.DirectionSet
	score  int

	// predicted holds coins hidden optimistically before the server has
	// spoken; confirmed holds coins the server reported collected but
	// which stale snapshots may still carry.
	predicted map[string]bool
	confirmed map[string]bool
}

func newPredictor(world config.WorldConfig, client config.ClientConfig) *predictor {
	return &predictor{
		world:     world,
		client:    client,
		predicted: make(map[string]bool),
		confirmed: make(map[string]bool),
	}
}

func (p *predictor) SetDirections(set protocol.DirectionSet) { p.active = set }

// Step advances the predicted position using the shared movement rules,
// so the local simulation can never drift from the server's by formula.
func (p *predictor) Step(dt float64) {
	p.pos = sim.StepPosition(p.pos, p.active, dt, p.world)
}

// Reconcile folds an authoritative self state into the prediction. Small
// errors are left for prediction to absorb; beyond the snap threshold the
// position is adopted outright. The score is always adopted.
func (p *predictor) Reconcile(self protocol.PlayerState) {
	dx := self.Position.X - p.pos.X
	dy := self.Position.Y - p.pos.Y
	if math.Hypot(dx, dy) > p.client.SnapThreshold {
		p.pos = self.Position
	}
	p.score = self.Score
}

// PredictPickups hides any visible coin within pickup range of the
// predicted position and returns the newly hidden ids.
func (p *predictor) PredictPickups(coins []protocol.CoinState) []string {
	var picked []string
	for _, coin := range coins {
		if p.predicted[coin.ID] || p.confirmed[coin.ID] {
			continue
		}
		dx := coin.Position.X - p.pos.X
		dy := coin.Position.Y - p.pos.Y
		if math.Hypot(dx, dy) < p.world.PickupRadius {
			p.predicted[coin.ID] = true
			picked = append(picked, coin.ID)
		}
	}
	return picked
}

// ConfirmPickup records a server-confirmed collection. Applies to our own
// pickups and everyone else's alike: either way the coin must stay gone
// even if an older snapshot still lists it.
func (p *predictor) ConfirmPickup(coinID string) {
	delete(p.predicted, coinID)
	p.confirmed[coinID] = true
}

// VisibleCoins filters a snapshot's coin list down to what should render,
// and retires confirmed entries once the server stops reporting them.
func (p *predictor) VisibleCoins(coins []protocol.CoinState) []protocol.CoinState {
	present := make(map[string]bool, len(coins))
	visible := make([]protocol.CoinState, 0, len(coins))
	for _, coin := range coins {
		present[coin.ID] = true
		if p.predicted[coin.ID] || p.confirmed[coin.ID] {
			continue
		}
		visible = append(visible, coin)
	}
	for id := range p.confirmed {
		if !present[id] {
			delete(p.confirmed, id)
		}
	}
	return visible
}

// Reset clears all match state for a return to the lobby.
func (p *predictor) Reset() {
	p.pos = protocol.Vec2{}
	p.active = protocol.DirectionSet{}
	p.score = 0
	p.predicted = make(map[string]bool)
	p.confirmed = make(map[string]bool)
}
