package protocol

// Direction is one held movement key.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// DirectionSet is the decoded form of an input's direction list. Opposite
// members cancel when converted to a velocity, so the set itself stays
// faithful to what the client reported.
type DirectionSet struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// NewDirectionSet folds a wire direction list into a set. Unknown strings
// are ignored; duplicate entries are harmless.
func NewDirectionSet(dirs []Direction) DirectionSet {
	var set DirectionSet
	for _, d := range dirs {
		switch d {
		case DirUp:
			set.Up = true
		case DirDown:
			set.Down = true
		case DirLeft:
			set.Left = true
		case DirRight:
			set.Right = true
		}
	}
	return set
}

// List renders the set back to wire form in a stable order.
func (s DirectionSet) List() []Direction {
	dirs := make([]Direction, 0, 4)
	if s.Up {
		dirs = append(dirs, DirUp)
	}
	if s.Down {
		dirs = append(dirs, DirDown)
	}
	if s.Left {
		dirs = append(dirs, DirLeft)
	}
	if s.Right {
		dirs = append(dirs, DirRight)
	}
	return dirs
}

// Empty reports whether no direction is held.
func (s DirectionSet) Empty() bool {
	return !s.Up && !s.Down && !s.Left && !s.Right
}
