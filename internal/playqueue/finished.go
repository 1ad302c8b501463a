package playqueue

import (
	"slices"

	"github.com/llehouerou/jukebox/internal/collection"
)

// Finished advances the queue after the current track ended.
func (q *Queue) Finished() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.finishedLocked()
}

// onPlayerFinished is the player's finish callback. A notification arriving
// after a newer track started is stale and dropped.
func (q *Queue) onPlayerFinished() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.player.IsPlaying() {
		q.logger.Debug().Msg("ignoring stale finish notification")
		return
	}
	if q.playingRadio {
		q.logger.Debug().Msg("radio stream ended")
		q.playingRadio = false
		return
	}
	q.finishedLocked()
}

func (q *Queue) finishedLocked() {
	defer func() {
		q.computePlannedLocked(false)
		q.refreshedLocked()
	}()

	cur := q.currentItemLocked()
	if cur == nil {
		return
	}
	q.playing = nil

	if cur.Repeat {
		if q.index+1 < len(q.items) && q.items[q.index+1].Repeat {
			q.index++
		} else {
			q.index = 0
		}
	} else {
		q.items = slices.Delete(q.items, q.index, q.index+1)
		// Items inserted ahead of a played track come next.
		q.index = min(q.index, q.repeatRunLocked())
	}
	q.advanceLocked()
}

// advanceLocked plays the item at the cursor, wrapping to the head, or
// continues from the collection once the queue ran dry.
func (q *Queue) advanceLocked() {
	if len(q.items) == 0 {
		q.index = 0
		if q.modes.Continue && q.last != nil && q.continueLocked() {
			return
		}
		q.endLocked()
		return
	}
	if q.index >= len(q.items) {
		q.index = 0
	}
	q.launchLocked()
}

// continueLocked refills an empty queue with the first planned item, or the
// file following the last played one. The rest of the planned buffer is kept.
func (q *Queue) continueLocked() bool {
	var next *collection.File
	var rest []*Item
	if len(q.planned) > 0 {
		next = q.planned[0].File
		rest = slices.Clone(q.planned[1:])
	} else {
		next = q.coll.NextFile(q.last.File)
	}
	if next == nil {
		q.logger.Info().Msg("end of collection reached")
		return false
	}
	if q.pushLocked([]*Item{NewItem(next)}, false) == 0 {
		return false
	}
	if len(rest) > 0 {
		q.planned = rest
	}
	return true
}
