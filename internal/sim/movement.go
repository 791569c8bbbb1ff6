package sim

import (
	"math"

	"coin-rush/internal/config"
	"coin-rush/internal/protocol"
)

// Velocity converts a held direction set into a world-space velocity.
// Opposite directions cancel, and diagonals are normalized to unit length
// before scaling so diagonal travel matches axis-aligned speed.
func Velocity(set protocol.DirectionSet, speed float64) protocol.Vec2 {
	var vx, vy float64
	if set.Up {
		vy--
	}
	if set.Down {
		vy++
	}
	if set.Left {
		vx--
	}
	if set.Right {
		vx++
	}
	if vx != 0 && vy != 0 {
		length := math.Hypot(vx, vy)
		vx /= length
		vy /= length
	}
	return protocol.Vec2{X: vx * speed, Y: vy * speed}
}

// StepPosition integrates a direction set over dt and clamps the result to
// the world bounds minus half the player footprint. The server tick and
// client prediction both call this; duplicating the algorithm on one side
// only would let the two trajectories drift apart.
func StepPosition(pos protocol.Vec2, set protocol.DirectionSet, dt float64, world config.WorldConfig) protocol.Vec2 {
	vel := Velocity(set, world.PlayerSpeed)
	half := world.PlayerSize / 2
	return protocol.Vec2{
		X: clamp(pos.X+vel.X*dt, half, world.Width-half),
		Y: clamp(pos.Y+vel.Y*dt, half, world.Height-half),
	}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func distance(a, b protocol.Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
