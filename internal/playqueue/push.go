package playqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/llehouerou/jukebox/internal/events"
	"github.com/llehouerou/jukebox/internal/telemetry"
)

// Push adds items to the queue. Without appendMode the queue is replaced and
// the first item starts at once. Items on unmounted devices go through the
// prompter first; the push blocks on the prompt but never holds the queue
// lock while waiting. Pushes are serialized.
func (q *Queue) Push(ctx context.Context, items []*Item, appendMode bool) (err error) {
	q.pushMu.Lock()
	defer q.pushMu.Unlock()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error().Str("panic", fmt.Sprint(r)).Msg("push panicked")
			q.mu.Lock()
			q.endLocked()
			q.mu.Unlock()
			err = fmt.Errorf("%w: %v", ErrPushAborted, r)
		}
		telemetry.PushDuration.Observe(time.Since(start).Seconds())
		q.bus.Publish(events.QueueRefreshed, nil)
	}()

	q.mu.Lock()
	q.stopped = false
	q.mu.Unlock()

	if len(items) == 0 {
		q.bus.Publish(events.EmptySelection, nil)
		return nil
	}

	resolved, err := q.resolve(ctx, items)
	if err != nil {
		q.logger.Warn().Err(err).Int("items", len(items)).Msg("push cancelled")
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.pushLocked(resolved, appendMode)
	return nil
}

// PushAsync submits a push to the worker pool. Completion is signalled by a
// queue_refreshed event.
func (q *Queue) PushAsync(items []*Item, appendMode bool) error {
	task := func(ctx context.Context) {
		if err := q.Push(ctx, items, appendMode); err != nil {
			q.logger.Debug().Err(err).Msg("async push failed")
		}
	}
	if q.pool == nil {
		go task(context.Background())
		return nil
	}
	return q.pool.Submit(task)
}

// resolve settles device availability. The prompter is asked once per
// unmounted device until the user skips, which drops every remaining item on
// an unmounted device.
func (q *Queue) resolve(ctx context.Context, items []*Item) ([]*Item, error) {
	out := make([]*Item, 0, len(items))
	skipAll := false
	for _, it := range items {
		if it == nil || it.File == nil {
			continue
		}
		if it.available() {
			out = append(out, it)
			continue
		}
		d := it.File.Device()
		if skipAll {
			continue
		}
		if q.prompter == nil {
			q.logger.Info().Str("device", d.Name).Str("path", it.File.Path).Msg("skipping file on unmounted device")
			continue
		}

		choice, err := q.prompter.ConfirmMount(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("confirm mount of %s: %w", d.Name, err)
		}
		q.logger.Debug().Str("device", d.Name).Stringer("choice", choice).Msg("mount prompt answered")
		switch choice {
		case MountYes:
			if err := q.mount(ctx, it); err != nil {
				return nil, err
			}
			out = append(out, it)
		case MountSkip:
			skipAll = true
		case MountAbort:
			return nil, ErrPushAborted
		}
	}
	return out, nil
}

func (q *Queue) mount(ctx context.Context, it *Item) error {
	d := it.File.Device()
	if q.mounter == nil {
		return fmt.Errorf("%w: %s: no mounter", ErrDeviceUnavailable, d.Name)
	}
	if err := q.mounter.Mount(ctx, d); err != nil {
		telemetry.DeviceMounts.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: %s: %w", ErrDeviceUnavailable, d.Name, err)
	}
	telemetry.DeviceMounts.WithLabelValues("ok").Inc()
	return nil
}

// pushLocked commits items and returns how many were added. Items on
// unmounted devices are dropped since no prompt can run under the lock.
func (q *Queue) pushLocked(items []*Item, appendMode bool) int {
	q.stopped = false
	added := make([]*Item, 0, len(items))
	for _, it := range items {
		if !it.available() {
			if it != nil && it.File != nil {
				q.logger.Debug().Str("path", it.File.Path).Msg("dropping file on unmounted device")
			}
			continue
		}
		added = append(added, it)
	}
	if len(added) == 0 {
		return 0
	}

	if !appendMode {
		q.player.Stop(false)
		q.clearLocked()
	}
	for _, it := range added {
		c := it.clone()
		c.Planned = false
		tail := q.tailLocked()
		switch {
		case q.modes.Repeat:
			c.Repeat = tail == nil || tail.Repeat
		case tail != nil && !tail.Repeat:
			c.Repeat = false
		}
		q.items = append(q.items, c)
	}

	if !appendMode || !q.player.IsPlaying() {
		q.index = 0
		q.launchLocked()
	}
	q.computePlannedLocked(true)
	return len(added)
}
