package playqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/llehouerou/jukebox/internal/events"
	"github.com/llehouerou/jukebox/internal/telemetry"
)

// launchLocked plays the item at the cursor. Failures are logged and
// published; they never propagate.
func (q *Queue) launchLocked() (ok bool) {
	item := q.currentItemLocked()
	if item == nil {
		return false
	}
	f := item.File

	defer func() {
		if r := recover(); r != nil {
			q.logger.Error().Str("panic", fmt.Sprint(r)).Str("path", f.Path).Msg("launch panicked")
			q.playingRadio = false
			q.playing = nil
			q.stopped = true
			ok = false
		}
	}()

	q.bus.Publish(events.PlayerPlay, events.Attrs{events.AttrFileID: f.ID})
	q.record(func(ctx context.Context, r Recorder) error { return r.SetWasPlaying(ctx, true) })

	start, clip := q.playWindowLocked()
	if err := q.player.Play(f.Path, start, clip); err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrPlaybackStart, f.Path, err)
		q.logger.Error().Err(err).Msg("launch failed")
		q.bus.Publish(events.LaunchFailed, events.Attrs{
			events.AttrFileID: f.ID,
			events.AttrPath:   f.Path,
			events.AttrError:  err.Error(),
		})
		telemetry.LaunchFailures.Inc()
		q.playingRadio = false
		q.playing = nil
		return false
	}

	q.logger.Debug().Str("path", f.Path).Float64("start", start).Dur("clip", clip).Msg("now playing")
	q.bus.Publish(events.FileLaunched, events.Attrs{
		events.AttrFileID: f.ID,
		events.AttrPath:   f.Path,
		events.AttrDate:   q.now().UnixMilli(),
	})
	switch {
	case q.last == nil || !q.last.File.SameDirectory(f):
		q.bus.Publish(events.CoverRefresh, events.Attrs{events.AttrFileID: f.ID})
	case q.modes.CoverShuffle && q.modes.CoverChangeEachTrack:
		q.bus.Publish(events.CoverChange, events.Attrs{events.AttrFileID: f.ID})
	}

	q.playingRadio = false
	q.playing = item
	q.last = item.clone()
	q.firstFile = false
	f.IncHits()
	telemetry.TracksLaunched.Inc()
	q.record(func(ctx context.Context, r Recorder) error { return r.RecordLaunch(ctx, f) })
	return true
}

// playWindowLocked returns the start fraction and clip length for a launch.
func (q *Queue) playWindowLocked() (float64, time.Duration) {
	switch {
	case q.modes.Intro:
		return float64(q.modes.IntroBegin) / 100, q.modes.IntroLength
	case q.firstFile && q.modes.ResumePosition:
		return q.resumePos, 0
	default:
		return 0, 0
	}
}
