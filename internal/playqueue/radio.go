package playqueue

import (
	"fmt"

	"github.com/llehouerou/jukebox/internal/events"
)

// LaunchRadio streams a web radio in place of the queue.
func (q *Queue) LaunchRadio(r Radio) (err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			q.logger.Error().Str("panic", fmt.Sprint(rec)).Str("url", r.URL).Msg("radio launch panicked")
			q.playingRadio = false
			err = fmt.Errorf("%w: %v", ErrPlaybackStart, rec)
		}
	}()

	if err := q.player.PlayStream(r.URL); err != nil {
		q.playingRadio = false
		err = fmt.Errorf("%w: %s: %w", ErrPlaybackStart, r.Name, err)
		q.logger.Error().Err(err).Msg("radio launch failed")
		return err
	}
	q.logger.Debug().Str("radio", r.Name).Msg("now playing radio")
	q.playingRadio = true
	q.playing = nil
	q.currentRadio = &r
	q.bus.Publish(events.Reset, nil)
	q.bus.Publish(events.RadioLaunched, events.Attrs{events.AttrName: r.Name, events.AttrURL: r.URL})
	return nil
}
