package playqueue

import (
	"errors"

	"github.com/llehouerou/jukebox/internal/collection"
)

// computePlannedLocked refills the planned buffer up to the visible count.
// The buffer stays empty unless continue mode is on and the queue holds items.
func (q *Queue) computePlannedLocked(clear bool) {
	visible := q.modes.VisiblePlanned
	if !q.modes.Continue || len(q.items) == 0 || visible <= 0 {
		q.planned = nil
		return
	}
	if clear {
		q.planned = nil
	}
	if len(q.planned) > visible {
		q.planned = q.planned[:visible]
	}

	for len(q.planned) < visible {
		f, err := q.nextPlannedFileLocked()
		if err != nil {
			if !errors.Is(err, ErrCollectionExhausted) {
				q.logger.Warn().Err(err).Msg("planned tracks incomplete")
			}
			break
		}
		q.planned = append(q.planned, &Item{File: f, Planned: true})
	}
}

func (q *Queue) nextPlannedFileLocked() (*collection.File, error) {
	if q.modes.Shuffle {
		f, err := q.coll.ShuffleFile()
		if err != nil {
			return nil, errors.Join(ErrCollectionExhausted, err)
		}
		return f, nil
	}
	tail := q.tailLocked()
	if len(q.planned) > 0 {
		tail = q.planned[len(q.planned)-1]
	}
	if f := q.coll.NextFile(tail.File); f != nil {
		return f, nil
	}
	return nil, ErrCollectionExhausted
}
