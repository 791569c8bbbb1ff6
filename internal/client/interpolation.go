package client

import "coin-rush/internal/protocol"

// trackCapacity bounds the per-player history. At the broadcast rate this
// covers roughly a second of motion, far more than the render delay needs.
const trackCapacity = 20

type sample struct {
	serverTime float64
	pos        protocol.Vec2
}

// remoteTrack holds recent authoritative positions for one remote player
// and answers position queries at a delayed render time.
type remoteTrack struct {
	samples []sample
}

// Observe appends an authoritative sample. Out-of-order or duplicate
// timestamps are dropped so the buffer stays strictly increasing.
func (t *remoteTrack) Observe(serverTime float64, pos protocol.Vec2) {
	if n := len(t.samples); n > 0 && serverTime <= t.samples[n-1].serverTime {
		return
	}
	t.samples = append(t.samples, sample{serverTime: serverTime, pos: pos})
	if len(t.samples) > trackCapacity {
		t.samples = t.samples[len(t.samples)-trackCapacity:]
	}
}

// PositionAt resolves the position at renderTime. Between two samples it
// interpolates linearly; past the newest sample it extrapolates along the
// last observed velocity for at most extrapolationCap seconds; before the
// oldest sample it returns that sample verbatim.
func (t *remoteTrack) PositionAt(renderTime, extrapolationCap float64) (protocol.Vec2, bool) {
	if len(t.samples) == 0 {
		return protocol.Vec2{}, false
	}
	oldest := t.samples[0]
	if renderTime <= oldest.serverTime {
		return oldest.pos, true
	}
	newest := t.samples[len(t.samples)-1]
	if renderTime >= newest.serverTime {
		return t.extrapolate(renderTime, extrapolationCap), true
	}
	for i := len(t.samples) - 1; i > 0; i-- {
		a, b := t.samples[i-1], t.samples[i]
		if renderTime >= a.serverTime && renderTime <= b.serverTime {
			span := b.serverTime - a.serverTime
			frac := 0.0
			if span > 0 {
				frac = (renderTime - a.serverTime) / span
			}
			if frac < 0 {
				frac = 0
			} else if frac > 1 {
				frac = 1
			}
			return protocol.Vec2{
				X: a.pos.X + (b.pos.X-a.pos.X)*frac,
				Y: a.pos.Y + (b.pos.Y-a.pos.Y)*frac,
			}, true
		}
	}
	return newest.pos, true
}

func (t *remoteTrack) extrapolate(renderTime, maxAhead float64) protocol.Vec2 {
	newest := t.samples[len(t.samples)-1]
	if len(t.samples) < 2 {
		return newest.pos
	}
	prev := t.samples[len(t.samples)-2]
	span := newest.serverTime - prev.serverTime
	if span <= 0 {
		return newest.pos
	}
	ahead := renderTime - newest.serverTime
	if ahead > maxAhead {
		ahead = maxAhead
	}
	return protocol.Vec2{
		X: newest.pos.X + (newest.pos.X-prev.pos.X)/span*ahead,
		Y: newest.pos.Y + (newest.pos.Y-prev.pos.Y)/span*ahead,
	}
}

// interpolator fans snapshot samples out to per-player tracks.
type interpolator struct {
	tracks map[string]*remoteTrack
}

func newInterpolator() *interpolator {
	return &interpolator{tracks: make(map[string]*remoteTrack)}
}

func (in *interpolator) Observe(playerID string, serverTime float64, pos protocol.Vec2) {
	track, ok := in.tracks[playerID]
	if !ok {
		track = &remoteTrack{}
		in.tracks[playerID] = track
	}
	track.Observe(serverTime, pos)
}

func (in *interpolator) PositionAt(playerID string, renderTime, extrapolationCap float64) (protocol.Vec2, bool) {
	track, ok := in.tracks[playerID]
	if !ok {
		return protocol.Vec2{}, false
	}
	return track.PositionAt(renderTime, extrapolationCap)
}

// Prune drops tracks for players no longer present in snapshots.
func (in *interpolator) Prune(present map[string]bool) {
	for id := range in.tracks {
		if !present[id] {
			delete(in.tracks, id)
		}
	}
}
