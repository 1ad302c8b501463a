package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/events"
)

const nowPlayingExpire = 5 * time.Second

// Resolver finds a collection file by ID.
type Resolver func(id string) (*collection.File, bool)

// Watcher turns queue events into desktop notifications. Each launch
// replaces the previous now-playing notification.
type Watcher struct {
	notifier Notifier
	resolve  Resolver
	logger   zerolog.Logger
	lastID   uint32
}

// NewWatcher creates a watcher sending through n.
func NewWatcher(n Notifier, resolve Resolver, logger zerolog.Logger) *Watcher {
	return &Watcher{notifier: n, resolve: resolve, logger: logger}
}

// Kinds lists the events the watcher consumes.
func (w *Watcher) Kinds() []events.Kind {
	return []events.Kind{events.FileLaunched, events.CoverChange, events.LaunchFailed}
}

// Run handles events from sub until ctx is done or sub is closed.
func (w *Watcher) Run(ctx context.Context, sub *events.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.Events:
			w.handle(e)
		}
	}
}

func (w *Watcher) handle(e events.Event) {
	var n Notification
	switch e.Kind {
	case events.FileLaunched, events.CoverChange:
		f, ok := w.resolve(e.String(events.AttrFileID))
		if !ok {
			return
		}
		n = nowPlaying(f)
	case events.LaunchFailed:
		n = Notification{
			Summary: "Cannot play",
			Body:    e.String(events.AttrPath),
			Expire:  nowPlayingExpire,
			Urgency: UrgencyCritical,
		}
	default:
		return
	}

	n.Replaces = w.lastID
	id, err := w.notifier.Notify(n)
	if err != nil {
		w.logger.Debug().Err(err).Msg("notification failed")
		return
	}
	w.lastID = id
}

func nowPlaying(f *collection.File) Notification {
	var parts []string
	if f.Artist != "" {
		parts = append(parts, f.Artist)
	}
	if f.Album != "" {
		parts = append(parts, f.Album)
	}
	n := Notification{
		Summary: f.DisplayTitle(),
		Body:    strings.Join(parts, " - "),
		Expire:  nowPlayingExpire,
		Urgency: UrgencyLow,
	}
	if f.TrackNumber > 0 && n.Body != "" {
		n.Body = fmt.Sprintf("%s (track %d)", n.Body, f.TrackNumber)
	}
	if f.Dir != nil {
		n.Icon = f.Dir.Cover()
	}
	return n
}
