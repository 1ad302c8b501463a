package cli

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/config"
	"github.com/llehouerou/jukebox/internal/playqueue"
	"github.com/llehouerou/jukebox/internal/state"
)

// startupItems returns what to queue when the program starts without
// paths. The last modes restore the last launched file followed by the
// committed queue, but only when the previous run ended while playing.
func startupItems(
	coll *collection.Collection,
	mode config.StartupMode,
	sess *state.Session,
	queueFile string,
	logger zerolog.Logger,
) ([]*playqueue.Item, error) {
	switch mode {
	case config.StartupNothing:
		return nil, nil
	case config.StartupShuffle:
		f, err := coll.ShuffleFile()
		if err != nil {
			return nil, err
		}
		return []*playqueue.Item{playqueue.NewItem(f)}, nil
	case config.StartupLast, config.StartupLastKeepPos:
	}

	if sess == nil || !sess.WasPlaying {
		return nil, nil
	}
	committed, err := playqueue.ReadCommitted(queueFile, coll.FileByID, logger)
	if err != nil {
		return nil, err
	}
	last, ok := coll.FileByID(sess.LastFileID)
	if !ok {
		return committed, nil
	}
	return append([]*playqueue.Item{playqueue.NewItem(last)}, committed...), nil
}

// resumePosition returns the position the first launch starts at, if any.
func resumePosition(mode config.StartupMode, sess *state.Session) (float64, bool) {
	if mode != config.StartupLastKeepPos || sess == nil || !sess.WasPlaying || sess.LastFileID == "" {
		return 0, false
	}
	return sess.LastPosition, true
}
