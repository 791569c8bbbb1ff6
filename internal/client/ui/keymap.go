package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"coin-rush/internal/protocol"
)

// keyHold is how long a direction stays active after its last key event.
// Terminals report presses but never releases, so holding a key reads as
// an autorepeat stream; each repeat refreshes the direction before it
// expires.
const keyHold = 200 * time.Millisecond

// heldKeys tracks the last press time per direction.
type heldKeys map[protocol.Direction]time.Time

// press maps a key message to a direction and refreshes it. The second
// return reports a quit request.
func (h heldKeys) press(msg tea.KeyMsg, now time.Time) bool {
	switch msg.String() {
	case "ctrl+c", "q":
		return true
	case "w", "up":
		h[protocol.DirUp] = now
	case "s", "down":
		h[protocol.DirDown] = now
	case "a", "left":
		h[protocol.DirLeft] = now
	case "d", "right":
		h[protocol.DirRight] = now
	}
	return false
}

// active expires stale directions and returns the live set.
func (h heldKeys) active(now time.Time) protocol.DirectionSet {
	var set protocol.DirectionSet
	for dir, at := range h {
		if now.Sub(at) > keyHold {
			delete(h, dir)
			continue
		}
		switch dir {
		case protocol.DirUp:
			set.Up = true
		case protocol.DirDown:
			set.Down = true
		case protocol.DirLeft:
			set.Left = true
		case protocol.DirRight:
			set.Right = true
		}
	}
	return set
}
