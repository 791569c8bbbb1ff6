package sim

import (
	"math"
	"testing"

	"coin-rush/internal/config"
	"coin-rush/internal/protocol"
)

const testSpeed = 200.0

func allDirectionSets() []protocol.DirectionSet {
	sets := make([]protocol.DirectionSet, 0, 16)
	for mask := 0; mask < 16; mask++ {
		sets = append(sets, protocol.DirectionSet{
			Up:    mask&1 != 0,
			Down:  mask&2 != 0,
			Left:  mask&4 != 0,
			Right: mask&8 != 0,
		})
	}
	return sets
}

func TestVelocityNeverExceedsSpeed(t *testing.T) {
	for _, set := range allDirectionSets() {
		vel := Velocity(set, testSpeed)
		magnitude := math.Hypot(vel.X, vel.Y)
		if magnitude > testSpeed+1e-9 {
			t.Fatalf("set %+v produced speed %.6f above cap %.1f", set, magnitude, testSpeed)
		}
	}
}

func TestVelocityDiagonalMatchesAxisSpeed(t *testing.T) {
	diagonal := Velocity(protocol.DirectionSet{Up: true, Right: true}, testSpeed)
	magnitude := math.Hypot(diagonal.X, diagonal.Y)
	if math.Abs(magnitude-testSpeed) > 1e-9 {
		t.Fatalf("diagonal speed %.6f, want %.1f", magnitude, testSpeed)
	}
}

func TestVelocityOppositesCancel(t *testing.T) {
	vel := Velocity(protocol.DirectionSet{Up: true, Down: true, Left: true, Right: true}, testSpeed)
	if vel.X != 0 || vel.Y != 0 {
		t.Fatalf("all four directions should cancel, got %+v", vel)
	}
	vel = Velocity(protocol.DirectionSet{Left: true, Right: true}, testSpeed)
	if vel.X != 0 || vel.Y != 0 {
		t.Fatalf("left+right should cancel, got %+v", vel)
	}
}

func TestStepPositionClampsToBounds(t *testing.T) {
	world := config.WorldConfig{Width: 800, Height: 600, PlayerSize: 30, PlayerSpeed: testSpeed}
	half := world.PlayerSize / 2

	pos := protocol.Vec2{X: 5, Y: 5}
	for _, set := range allDirectionSets() {
		next := StepPosition(pos, set, 10, world) // absurd dt to force the walls
		if next.X < half || next.X > world.Width-half || next.Y < half || next.Y > world.Height-half {
			t.Fatalf("set %+v escaped bounds: %+v", set, next)
		}
	}
}

func TestStepPositionIntegrates(t *testing.T) {
	world := config.WorldConfig{Width: 800, Height: 600, PlayerSize: 30, PlayerSpeed: 100}
	pos := protocol.Vec2{X: 400, Y: 300}
	next := StepPosition(pos, protocol.DirectionSet{Right: true}, 0.5, world)
	if math.Abs(next.X-450) > 1e-9 || next.Y != 300 {
		t.Fatalf("expected (450,300), got %+v", next)
	}
}
