package playqueue

import (
	"context"

	"github.com/samber/lo"
)

// CleanDevice drops queued items stored on the device. The head item and
// the playing one are kept even when they match; check CanUnmount before
// unmounting.
func (q *Queue) CleanDevice(deviceID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	defer q.refreshedLocked()

	if len(q.items) <= 1 {
		q.computePlannedLocked(true)
		return
	}
	cur := q.currentItemLocked()
	kept := lo.Reject(q.items, func(it *Item, i int) bool {
		return i > 0 && it != q.playing && it.onDevice(deviceID)
	})
	removed := len(q.items) - len(kept)
	q.items = kept

	q.index = 0
	if i := lo.IndexOf(q.items, cur); i >= 0 {
		q.index = i
	}
	q.computePlannedLocked(true)
	if removed > 0 {
		q.logger.Info().Str("device", deviceID).Int("removed", removed).Msg("removed queued files of device")
	}
}

// CleanDeviceAsync runs CleanDevice on the worker pool.
func (q *Queue) CleanDeviceAsync(deviceID string) error {
	task := func(context.Context) { q.CleanDevice(deviceID) }
	if q.pool == nil {
		go task(context.Background())
		return nil
	}
	return q.pool.Submit(task)
}

// CanUnmount returns true if unmounting the device would not pull a file
// from under the player or the queue.
func (q *Queue) CanUnmount(deviceID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	cur := q.currentItemLocked()
	if !q.player.IsPlaying() || cur == nil {
		return true
	}
	if cur.onDevice(deviceID) {
		return false
	}
	return !lo.ContainsBy(q.items, func(it *Item) bool { return it.onDevice(deviceID) })
}
