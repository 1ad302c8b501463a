package playqueue

import (
	"fmt"
	"slices"
)

// Insert places items at pos in the committed queue. An item landing inside
// the repeat run is repeated; anywhere else it is not. Items inserted at or
// before the playing slot keep the cursor on the playing item.
func (q *Queue) Insert(items []*Item, pos int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	defer q.refreshedLocked()

	if pos < 0 || pos > len(q.items) {
		return fmt.Errorf("insert at %d: %w", pos, ErrOutOfRange)
	}
	q.insertLocked(items, pos)
	return nil
}

func (q *Queue) insertLocked(items []*Item, pos int) {
	repeated := pos < q.repeatRunLocked()
	added := make([]*Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.File == nil {
			continue
		}
		c := it.clone()
		c.Planned = false
		c.Inserted = true
		c.Repeat = repeated
		added = append(added, c)
	}
	if len(added) == 0 {
		return
	}
	if q.playing == nil && pos <= q.index && q.index > 0 {
		q.index += len(added)
	}
	tailChanged := pos == len(q.items)
	q.items = slices.Insert(q.items, pos, added...)
	q.followPlayingLocked()
	q.computePlannedLocked(tailChanged)
}

// Up moves row i one place up. The now-playing slot, the row below it, the
// first planned row and rows out of range do not move. Planned rows move
// within the planned buffer only.
func (q *Queue) Up(i int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	n, p := len(q.items), len(q.planned)
	if i <= 1 || i == n || i >= n+p {
		return false
	}
	if i < n {
		swapKeepRepeat(q.items, i-1, i)
		q.followPlayingLocked()
	} else {
		j := i - n
		q.planned[j-1], q.planned[j] = q.planned[j], q.planned[j-1]
	}
	q.refreshedLocked()
	return true
}

// Down moves row i one place down. The now-playing slot, the last committed
// row, the last planned row and rows out of range do not move.
func (q *Queue) Down(i int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	n, p := len(q.items), len(q.planned)
	if i <= 0 || i == n-1 || i >= n+p-1 {
		return false
	}
	if i < n {
		swapKeepRepeat(q.items, i, i+1)
		q.followPlayingLocked()
	} else {
		j := i - n
		q.planned[j], q.planned[j+1] = q.planned[j+1], q.planned[j]
	}
	q.refreshedLocked()
	return true
}

// swapKeepRepeat swaps two items while repeat flags stay with their slots,
// so the repeat run keeps its shape.
func swapKeepRepeat(items []*Item, a, b int) {
	ra, rb := items[a].Repeat, items[b].Repeat
	items[a], items[b] = items[b], items[a]
	items[a].Repeat, items[b].Repeat = ra, rb
}

// Remove deletes rows start..end inclusive across the queue and the planned
// buffer. The cursor keeps pointing at the same item when it survives.
// Removing the playing item starts the item that takes its place.
func (q *Queue) Remove(start, end int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	defer q.refreshedLocked()

	if start > end || start < 0 || end >= len(q.items)+len(q.planned) {
		return fmt.Errorf("remove %d..%d: %w", start, end, ErrOutOfRange)
	}
	q.removeLocked(start, end)
	return nil
}

func (q *Queue) removeLocked(start, end int) {
	for i := end; i >= start; i-- {
		if i >= len(q.items) {
			j := i - len(q.items)
			q.planned = slices.Delete(q.planned, j, j+1)
			q.computePlannedLocked(false)
			continue
		}
		q.items = slices.Delete(q.items, i, i+1)
		if i < q.index {
			q.index--
		}
		q.computePlannedLocked(true)
	}
	if q.playing != nil && !q.followPlayingLocked() {
		q.logger.Debug().Str("path", q.playing.File.Path).Msg("playing item removed")
		q.playing = nil
		q.stopPlayerLocked()
		q.advanceLocked()
		q.computePlannedLocked(false)
		return
	}
	if q.index >= len(q.items) {
		q.index = 0
	}
}

// Shuffle randomizes the committed items except the now-playing one.
func (q *Queue) Shuffle() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.shuffleLocked()
	q.followPlayingLocked()
	q.computePlannedLocked(true)
	q.refreshedLocked()
}

func (q *Queue) shuffleLocked() {
	q.planned = nil
	if len(q.items) <= 2 {
		return
	}
	flags := make([]bool, len(q.items))
	for i, it := range q.items {
		flags[i] = it.Repeat
	}
	rest := q.items[1:]
	q.rnd.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	for i, it := range q.items {
		it.Repeat = flags[i]
	}
}
