package playqueue

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/device"
	"github.com/llehouerou/jukebox/internal/events"
	"github.com/llehouerou/jukebox/internal/player"
)

var launchTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// library holds albums a (a1..a3), b (b1, b2) and c (c1) on a mounted local
// device, and album u (u1, u2) on an unmounted usb device.
type library struct {
	coll  *collection.Collection
	files map[string]*collection.File
	local *device.Device
	usb   *device.Device
}

func newLibrary(opts ...collection.Option) *library {
	lib := &library{
		files: make(map[string]*collection.File),
		local: device.New("local", "/music"),
		usb:   device.New("usb", "/usb"),
	}
	lib.local.SetMounted(true)

	var all []*collection.File
	add := func(dev *device.Device, album string, names ...string) {
		dirPath := filepath.Join(dev.MountPoint, album)
		dir := &collection.Directory{ID: album, Path: dirPath, Device: dev}
		for _, name := range names {
			f := &collection.File{
				ID:   name,
				Path: filepath.Join(dirPath, name+".mp3"),
				Name: name + ".mp3",
				Dir:  dir,
			}
			lib.files[name] = f
			all = append(all, f)
		}
	}
	add(lib.local, "a", "a1", "a2", "a3")
	add(lib.local, "b", "b1", "b2")
	add(lib.local, "c", "c1")
	add(lib.usb, "u", "u1", "u2")
	lib.coll = collection.New(all, opts...)
	return lib
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(kind events.Kind, attrs events.Attrs) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events.Event{Kind: kind, Attrs: attrs})
}

func (b *recordingBus) count(kind events.Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (b *recordingBus) last(kind events.Kind) (events.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.events) - 1; i >= 0; i-- {
		if b.events[i].Kind == kind {
			return b.events[i], true
		}
	}
	return events.Event{}, false
}

type fakeRecorder struct {
	mu         sync.Mutex
	launches   []string
	wasPlaying []bool
}

func (r *fakeRecorder) RecordLaunch(_ context.Context, f *collection.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.launches = append(r.launches, f.ID)
	return nil
}

func (r *fakeRecorder) SetWasPlaying(_ context.Context, playing bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wasPlaying = append(r.wasPlaying, playing)
	return nil
}

type fakePrompter struct {
	mu      sync.Mutex
	choice  MountChoice
	err     error
	devices []string
}

func (p *fakePrompter) ConfirmMount(_ context.Context, d *device.Device) (MountChoice, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.devices = append(p.devices, d.Name)
	return p.choice, p.err
}

type fakeMounter struct {
	err error
}

func (m *fakeMounter) Mount(_ context.Context, d *device.Device) error {
	if m.err != nil {
		return m.err
	}
	d.SetMounted(true)
	return nil
}

var errBoom = errors.New("boom")

type fixture struct {
	q      *Queue
	player *player.Mock
	bus    *recordingBus
	rec    *fakeRecorder
	lib    *library
}

func newFixture(t *testing.T, modes Modes, opts ...Option) *fixture {
	t.Helper()
	return newFixtureWith(t, newLibrary(), modes, opts...)
}

func newFixtureWith(t *testing.T, lib *library, modes Modes, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		player: player.NewMock(),
		bus:    &recordingBus{},
		rec:    &fakeRecorder{},
		lib:    lib,
	}
	base := []Option{
		WithRecorder(f.rec),
		WithClock(func() time.Time { return launchTime }),
		WithRand(rand.New(rand.NewPCG(7, 11))), //nolint:gosec // test
	}
	f.q = New(lib.coll, f.player, f.bus, modes, append(base, opts...)...)
	return f
}

func (f *fixture) items(names ...string) []*Item {
	items := make([]*Item, 0, len(names))
	for _, name := range names {
		repeat := strings.HasSuffix(name, "*")
		file, ok := f.lib.files[strings.TrimSuffix(name, "*")]
		if !ok {
			panic("unknown test file " + name)
		}
		items = append(items, &Item{File: file, Repeat: repeat})
	}
	return items
}

// push pushes files by name; a trailing * marks an item repeated.
func (f *fixture) push(t *testing.T, appendMode bool, names ...string) {
	t.Helper()
	require.NoError(t, f.q.Push(context.Background(), f.items(names...), appendMode))
}

func (f *fixture) path(name string) string {
	return f.lib.files[name].Path
}

func (f *fixture) played() []string {
	var out []string
	for _, p := range f.player.PlayedPaths() {
		out = append(out, strings.TrimSuffix(filepath.Base(p), ".mp3"))
	}
	return out
}

func itemNames(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		name := it.File.ID
		if it.Repeat {
			name += "*"
		}
		out = append(out, name)
	}
	return out
}

func (f *fixture) queueNames() []string   { return itemNames(f.q.Queue()) }
func (f *fixture) plannedNames() []string { return itemNames(f.q.Planned()) }

// checkInvariants asserts the structural properties every operation keeps.
func checkInvariants(t *testing.T, q *Queue) {
	t.Helper()
	q.mu.Lock()
	defer q.mu.Unlock()

	assert.GreaterOrEqual(t, q.index, 0, "cursor below zero")
	assert.LessOrEqual(t, q.index, len(q.items), "cursor past the end")

	run := q.repeatRunLocked()
	for i := run; i < len(q.items); i++ {
		assert.False(t, q.items[i].Repeat, "repeated item %d after a non-repeated one", i)
	}

	assert.LessOrEqual(t, len(q.planned), max(0, q.modes.VisiblePlanned), "planned buffer too long")
	if !q.modes.Continue || len(q.items) == 0 {
		assert.Empty(t, q.planned, "planned buffer should be empty")
	}
	for _, it := range q.planned {
		assert.True(t, it.Planned)
	}
	for _, it := range q.items {
		assert.False(t, it.Planned)
	}
}
