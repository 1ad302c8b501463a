package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/events"
)

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []Notification
	next  uint32
	fails bool
}

func (f *fakeNotifier) Notify(n Notification) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails {
		return 0, errors.New("no server")
	}
	f.sent = append(f.sent, n)
	if n.Replaces != 0 {
		return n.Replaces, nil
	}
	f.next++
	return f.next, nil
}

func (f *fakeNotifier) Dismiss(uint32) error { return nil }

func (f *fakeNotifier) notifications() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notification(nil), f.sent...)
}

func runWatcher(t *testing.T, n Notifier, files map[string]*collection.File, publish func(b *events.Bus)) {
	t.Helper()
	synctest.Test(t, func(t *testing.T) {
		bus := events.NewBus()
		resolve := func(id string) (*collection.File, bool) {
			f, ok := files[id]
			return f, ok
		}
		w := NewWatcher(n, resolve, zerolog.Nop())
		sub := bus.Subscribe(w.Kinds()...)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx, sub)

		publish(bus)
		synctest.Wait()
	})
}

func TestWatcher_NowPlayingReplacesPrevious(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "cover.jpg")
	require.NoError(t, os.WriteFile(cover, []byte{0xFF, 0xD8}, 0o600))
	album := &collection.Directory{ID: "d", Path: dir}
	files := map[string]*collection.File{
		"1": {ID: "1", Name: "one.mp3", Title: "One", Artist: "Band", Album: "Record", TrackNumber: 1, Dir: album},
		"2": {ID: "2", Name: "two.mp3", Dir: album},
	}
	n := &fakeNotifier{}

	runWatcher(t, n, files, func(b *events.Bus) {
		b.Publish(events.FileLaunched, events.Attrs{events.AttrFileID: "1"})
		b.Publish(events.QueueRefreshed, nil)
		b.Publish(events.FileLaunched, events.Attrs{events.AttrFileID: "2"})
	})

	sent := n.notifications()
	require.Len(t, sent, 2)
	assert.Equal(t, "One", sent[0].Summary)
	assert.Equal(t, "Band - Record (track 1)", sent[0].Body)
	assert.Equal(t, cover, sent[0].Icon)
	assert.Zero(t, sent[0].Replaces)
	assert.Equal(t, "two.mp3", sent[1].Summary)
	assert.Empty(t, sent[1].Body)
	assert.Equal(t, uint32(1), sent[1].Replaces)
}

func TestWatcher_LaunchFailure(t *testing.T) {
	n := &fakeNotifier{}

	runWatcher(t, n, nil, func(b *events.Bus) {
		b.Publish(events.LaunchFailed, events.Attrs{events.AttrPath: "/music/broken.mp3"})
	})

	sent := n.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, UrgencyCritical, sent[0].Urgency)
	assert.Equal(t, "/music/broken.mp3", sent[0].Body)
}

func TestWatcher_UnknownFileAndErrors(t *testing.T) {
	n := &fakeNotifier{fails: true}

	runWatcher(t, n, map[string]*collection.File{"1": {ID: "1", Name: "x.mp3"}}, func(b *events.Bus) {
		b.Publish(events.FileLaunched, events.Attrs{events.AttrFileID: "missing"})
		b.Publish(events.FileLaunched, events.Attrs{events.AttrFileID: "1"})
	})

	assert.Empty(t, n.notifications())
}
