package playqueue

import (
	"fmt"
	"slices"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/events"
)

// PlayPrevious steps back one track. Inside a repeat run only the cursor
// moves; otherwise the previous file of the collection is inserted at the
// head. At the start of the collection the current track restarts.
func (q *Queue) PlayPrevious() {
	q.mu.Lock()
	defer q.mu.Unlock()
	defer q.refreshedLocked()

	q.stopPlayerLocked()
	if len(q.items) == 0 {
		q.replayLastLocked()
		return
	}
	q.addPreviousLocked()
	q.launchLocked()
}

// addPreviousLocked moves the cursor to the previous track, inserting it
// when needed. It returns false when there is no previous track.
func (q *Queue) addPreviousLocked() bool {
	if len(q.items) == 0 {
		return false
	}
	if q.index > 0 {
		q.index--
		return true
	}
	head := q.items[0]
	if head.Repeat {
		q.index = q.repeatRunLocked() - 1
		return true
	}
	prev := q.coll.PreviousFile(head.File)
	if prev == nil || !prev.IsAvailable() {
		return false
	}
	q.items = slices.Insert(q.items, 0, &Item{File: prev, Inserted: true})
	q.index = 0
	return true
}

// PlayPreviousAlbum goes back to the first track of the previous directory.
// Under repeat it behaves like PlayPrevious.
func (q *Queue) PlayPreviousAlbum() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	defer q.refreshedLocked()

	q.stopPlayerLocked()
	cur := q.currentItemLocked()
	if cur == nil {
		return nil
	}
	if q.items[0].Repeat {
		q.addPreviousLocked()
		q.launchLocked()
		return nil
	}

	dir := cur.File
	bound := q.coll.Len() + 1
	for step := 0; ; step++ {
		if step >= bound {
			q.launchLocked()
			return q.exhaustedLocked("previous album", bound)
		}
		if !q.addPreviousLocked() {
			break
		}
		f := q.items[q.index].File
		if f.SameDirectory(dir) {
			continue
		}
		if q.opensDirectory(f) {
			break
		}
	}
	q.launchLocked()
	return nil
}

// opensDirectory reports whether f is the first file of its directory.
func (q *Queue) opensDirectory(f *collection.File) bool {
	if q.coll.IsFirstFile(f) {
		return true
	}
	prev := q.coll.PreviousFile(f)
	return prev != nil && !prev.SameDirectory(f)
}

// PlayNext skips to the next track. With an empty queue it replays the last
// played track, or a random one.
func (q *Queue) PlayNext() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.playNextLocked()
}

// playNextLocked publishes exactly one queue refresh.
func (q *Queue) playNextLocked() {
	q.stopPlayerLocked()
	if q.currentItemLocked() != nil {
		q.finishedLocked()
		return
	}
	q.replayLastLocked()
	q.refreshedLocked()
}

// replayLastLocked restarts playback from the last played item, or from a
// shuffled file when nothing was played yet.
func (q *Queue) replayLastLocked() {
	if q.last != nil {
		q.pushLocked([]*Item{q.last.clone()}, false)
		return
	}
	f, err := q.coll.ShuffleFile()
	if err != nil {
		q.logger.Info().Err(err).Msg("nothing to play")
		return
	}
	q.pushLocked([]*Item{{File: f, Repeat: q.modes.Repeat}}, false)
}

// PlayNextAlbum skips to the first track of the next directory: queued
// tracks of the current directory are dropped, and with nothing else queued
// the collection is walked forward. Under repeat it behaves like PlayNext.
func (q *Queue) PlayNextAlbum() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.stopPlayerLocked()
	if len(q.items) > 0 && q.items[0].Repeat {
		q.playNextLocked()
		return nil
	}
	cur := q.currentItemLocked()
	if cur == nil {
		q.replayLastLocked()
		q.refreshedLocked()
		return nil
	}

	dir := cur.File
	for len(q.items) > 0 && q.items[0].File.SameDirectory(dir) {
		q.items = slices.Delete(q.items, 0, 1)
	}
	q.index = 0

	if len(q.items) > 0 {
		// A throwaway head lets finished consume it and launch the new album.
		q.items = slices.Insert(q.items, 0, q.items[0].clone())
		q.finishedLocked()
		return nil
	}
	defer q.refreshedLocked()

	from := dir
	if q.last != nil {
		from = q.last.File
	}
	bound := q.coll.Len() + 1
	for step := 0; step < bound; step++ {
		from = q.coll.NextFile(from)
		if from == nil {
			q.endLocked()
			q.computePlannedLocked(true)
			return nil
		}
		if !from.SameDirectory(dir) {
			q.pushLocked([]*Item{{File: from, Repeat: q.modes.Repeat}}, false)
			return nil
		}
	}
	q.endLocked()
	q.computePlannedLocked(true)
	return q.exhaustedLocked("next album", bound)
}

func (q *Queue) exhaustedLocked(op string, bound int) error {
	err := fmt.Errorf("%s: %w after %d steps", op, ErrCollectionExhausted, bound)
	q.logger.Warn().Err(err).Msg("album navigation stopped")
	return err
}

// GoTo jumps to row i of the queue followed by the planned buffer. Inside the
// repeat run only the cursor moves. Otherwise repeat is switched off, the
// rows before i are dropped and row i starts.
func (q *Queue) GoTo(i int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	defer q.refreshedLocked()

	if i < 0 || i >= len(q.items)+len(q.planned) {
		return fmt.Errorf("go to %d: %w", i, ErrOutOfRange)
	}

	if i < q.repeatRunLocked() {
		q.index = i
	} else {
		if q.repeatRunLocked() > 0 {
			q.setRepeatAllLocked(false)
			q.modes.Repeat = false
			q.bus.Publish(events.RepeatModeChanged, events.Attrs{events.AttrEnabled: false})
		}
		if i >= len(q.items) {
			n := i - len(q.items) + 1
			for _, it := range q.planned[:n] {
				it.Planned = false
				q.items = append(q.items, it)
			}
			q.planned = slices.Clone(q.planned[n:])
		}
		q.items = slices.Clone(q.items[i:])
		q.index = 0
		q.computePlannedLocked(false)
	}

	q.player.Stop(false)
	q.launchLocked()
	return nil
}
