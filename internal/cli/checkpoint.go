package cli

import (
	"context"
	"time"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/player"
	"github.com/llehouerou/jukebox/internal/state"
)

// checkpointInterval is how often the playing position is saved while a
// file plays, so an unclean exit resumes close to where it stopped.
const checkpointInterval = 10 * time.Second

type currentFiler interface {
	CurrentFile() *collection.File
}

// checkpoint saves the session when a file is playing. Radios and a
// stopped player leave the saved session alone.
func checkpoint(q currentFiler, p player.Interface, st state.Interface) bool {
	f := q.CurrentFile()
	if f == nil || !p.IsPlaying() {
		return false
	}
	st.SaveSession(state.Session{
		WasPlaying:   true,
		LastPosition: p.Position(),
		LastFileID:   f.ID,
	})
	return true
}

func runCheckpoints(ctx context.Context, q currentFiler, p player.Interface, st state.Interface) {
	ticker := time.NewTicker(checkpointInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkpoint(q, p, st)
		}
	}
}
