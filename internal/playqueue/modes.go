package playqueue

import (
	"slices"
	"time"

	"github.com/llehouerou/jukebox/internal/events"
)

// Modes are the runtime playback settings that shape sequencing.
type Modes struct {
	Repeat   bool
	Shuffle  bool
	Continue bool
	Intro    bool

	// IntroBegin is the intro start, in percent of the track.
	IntroBegin int
	// IntroLength is how long an intro plays.
	IntroLength time.Duration

	// ResumePosition starts the first launch of the process at the saved position.
	ResumePosition bool

	CoverShuffle         bool
	CoverChangeEachTrack bool

	// VisiblePlanned bounds the planned buffer.
	VisiblePlanned int
}

// Modes returns the current modes.
func (q *Queue) Modes() Modes {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.modes
}

// SetRepeat toggles repeat mode and applies it to every queued item.
func (q *Queue) SetRepeat(on bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.modes.Repeat = on
	q.setRepeatAllLocked(on)
	if !on && q.index > 0 {
		// The loop goes on from the cursor once it stops repeating.
		q.items = slices.Concat(q.items[q.index:], q.items[:q.index])
		q.index = 0
		q.computePlannedLocked(true)
	}
	q.bus.Publish(events.RepeatModeChanged, events.Attrs{events.AttrEnabled: on})
	q.refreshedLocked()
}

// SetShuffle toggles shuffle mode. Enabling it shuffles the queue.
func (q *Queue) SetShuffle(on bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.modes.Shuffle = on
	if on {
		q.shuffleLocked()
		q.followPlayingLocked()
	}
	q.computePlannedLocked(true)
	q.refreshedLocked()
}

// SetContinue toggles continue mode.
func (q *Queue) SetContinue(on bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.modes.Continue = on
	q.computePlannedLocked(true)
	q.refreshedLocked()
}

// SetIntro toggles intro mode. It applies from the next launch.
func (q *Queue) SetIntro(on bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.modes.Intro = on
}

// SetVisiblePlanned changes the planned buffer bound.
func (q *Queue) SetVisiblePlanned(n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.modes.VisiblePlanned = max(0, n)
	q.computePlannedLocked(false)
	q.refreshedLocked()
}

// SetRepeatAll sets the repeat flag of every committed item.
func (q *Queue) SetRepeatAll(on bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.setRepeatAllLocked(on)
}

func (q *Queue) setRepeatAllLocked(on bool) {
	for _, it := range q.items {
		it.Repeat = on
	}
}

// ContainsRepeat returns true if any committed item is repeated.
func (q *Queue) ContainsRepeat() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.repeatRunLocked() > 0
}

// ContainsOnlyRepeat returns true if every committed item is repeated.
func (q *Queue) ContainsOnlyRepeat() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.repeatRunLocked() == len(q.items)
}

// repeatRunLocked returns the length of the leading run of repeated items.
func (q *Queue) repeatRunLocked() int {
	for i, it := range q.items {
		if !it.Repeat {
			return i
		}
	}
	return len(q.items)
}
