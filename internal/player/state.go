package player

// State is where the player is in a track's life: Stopped until Play,
// then Playing and Paused until Stop or the end of the track.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// IsActive reports whether a track is loaded, paused or not.
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

// withPause returns the state reached by pausing (or resuming when paused
// is false). ok is false when the transition does not apply.
func (s State) withPause(paused bool) (next State, ok bool) {
	switch {
	case paused && s == Playing:
		return Paused, true
	case !paused && s == Paused:
		return Playing, true
	}
	return s, false
}

// toggled returns the state Toggle moves to. Stopped stays stopped.
func (s State) toggled() (State, bool) {
	return s.withPause(s == Playing)
}
