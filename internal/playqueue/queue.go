// Package playqueue is the sequencing engine: it owns the ordered queue of
// committed items, the look-ahead planned buffer and the cursor, decides what
// plays next, and reacts to tracks finishing while users edit the queue.
//
// Every method takes the queue lock. Methods ending in Locked expect it held;
// they are the only way internal paths (finish handling, navigation) re-enter
// queue logic.
package playqueue

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/device"
	"github.com/llehouerou/jukebox/internal/events"
	"github.com/llehouerou/jukebox/internal/telemetry"
	"github.com/llehouerou/jukebox/internal/worker"
)

// Collection answers sequencing questions about the file collection.
type Collection interface {
	NextFile(f *collection.File) *collection.File
	PreviousFile(f *collection.File) *collection.File
	ShuffleFile() (*collection.File, error)
	IsFirstFile(f *collection.File) bool
	Len() int
}

// Player starts and stops audio. OnFinished callbacks must not run while the
// player holds locks the callback could need.
type Player interface {
	Play(path string, start float64, clip time.Duration) error
	PlayStream(url string) error
	Stop(immediate bool)
	IsPlaying() bool
	OnFinished(fn func())
}

// Publisher receives queue notifications. Publish must not block.
type Publisher interface {
	Publish(kind events.Kind, attrs events.Attrs)
}

// MountChoice is the answer to a mount prompt.
type MountChoice int

const (
	// MountYes mounts the device and keeps its items.
	MountYes MountChoice = iota
	// MountSkip drops every remaining item on an unmounted device.
	MountSkip
	// MountAbort cancels the whole push.
	MountAbort
)

func (c MountChoice) String() string {
	switch c {
	case MountYes:
		return "mount"
	case MountSkip:
		return "skip"
	case MountAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Prompter asks the user what to do about an unmounted device.
type Prompter interface {
	ConfirmMount(ctx context.Context, d *device.Device) (MountChoice, error)
}

// Mounter mounts a device.
type Mounter interface {
	Mount(ctx context.Context, d *device.Device) error
}

// Recorder persists playback session facts.
type Recorder interface {
	RecordLaunch(ctx context.Context, f *collection.File) error
	SetWasPlaying(ctx context.Context, playing bool) error
}

// Radio is a web radio stream.
type Radio struct {
	Name string
	URL  string
}

// Queue is the play queue. Create it with New.
type Queue struct {
	mu sync.Mutex
	// pushMu serializes whole pushes, prompts included, without holding mu.
	pushMu sync.Mutex

	items   []*Item
	planned []*Item
	index   int
	last    *Item
	// playing is the committed item the player was last started on. While
	// set, the cursor points at it.
	playing *Item

	firstFile    bool
	stopped      bool
	playingRadio bool
	currentRadio *Radio
	playlist     string
	modes        Modes
	resumePos    float64

	coll     Collection
	player   Player
	bus      Publisher
	prompter Prompter
	mounter  Mounter
	recorder Recorder
	pool     *worker.Pool
	logger   zerolog.Logger
	rnd      *rand.Rand
	now      func() time.Time
}

// Option configures a Queue.
type Option func(*Queue)

// WithPrompter sets the mount prompter. Without one, items on unmounted
// devices are skipped.
func WithPrompter(p Prompter) Option {
	return func(q *Queue) { q.prompter = p }
}

// WithMounter sets the device mounter used after a mount prompt.
func WithMounter(m Mounter) Option {
	return func(q *Queue) { q.mounter = m }
}

// WithRecorder sets the session recorder.
func WithRecorder(r Recorder) Option {
	return func(q *Queue) { q.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(q *Queue) { q.logger = l }
}

// WithPool runs asynchronous pushes on p.
func WithPool(p *worker.Pool) Option {
	return func(q *Queue) { q.pool = p }
}

// WithRand sets the random source used by Shuffle.
func WithRand(r *rand.Rand) Option {
	return func(q *Queue) { q.rnd = r }
}

// WithResumePosition sets the position, as a fraction of the track, the
// first launch starts at when resume mode is on.
func WithResumePosition(pos float64) Option {
	return func(q *Queue) { q.resumePos = pos }
}

// WithClock replaces time.Now for launch timestamps.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// New creates a queue and registers it for the player's finish notifications.
func New(coll Collection, player Player, bus Publisher, modes Modes, opts ...Option) *Queue {
	q := &Queue{
		coll:      coll,
		player:    player,
		bus:       bus,
		modes:     modes,
		firstFile: true,
		logger:    zerolog.Nop(),
		rnd:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // shuffle, not crypto
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	player.OnFinished(q.onPlayerFinished)
	return q
}

// CurrentItem returns a copy of the item at the cursor.
func (q *Queue) CurrentItem() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	it := q.currentItemLocked()
	if it == nil {
		return Item{}, false
	}
	return *it, true
}

// CurrentFile returns the file at the cursor, or nil.
func (q *Queue) CurrentFile() *collection.File {
	q.mu.Lock()
	defer q.mu.Unlock()
	if it := q.currentItemLocked(); it != nil {
		return it.File
	}
	return nil
}

func (q *Queue) currentItemLocked() *Item {
	if q.index < len(q.items) {
		return q.items[q.index]
	}
	return nil
}

// Item returns a copy of the committed item at i.
func (q *Queue) Item(i int) (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i < 0 || i >= len(q.items) {
		return Item{}, false
	}
	return *q.items[i], true
}

// Last returns a copy of the queue tail.
func (q *Queue) Last() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if tail := q.tailLocked(); tail != nil {
		return *tail, true
	}
	return Item{}, false
}

func (q *Queue) tailLocked() *Item {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[len(q.items)-1]
}

// Queue returns a snapshot of the committed items.
func (q *Queue) Queue() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	return snapshot(q.items)
}

// Planned returns a snapshot of the planned buffer.
func (q *Queue) Planned() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	return snapshot(q.planned)
}

// Len returns the number of committed items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Index returns the cursor.
func (q *Queue) Index() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.index
}

// IsStopped returns true after a stop request or the end of the collection.
func (q *Queue) IsStopped() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stopped
}

// LastPlayed returns a copy of the most recently launched item.
func (q *Queue) LastPlayed() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.last == nil {
		return Item{}, false
	}
	return *q.last, true
}

// IsPlayingRadio returns true while a web radio is playing.
func (q *Queue) IsPlayingRadio() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.playingRadio
}

// CurrentRadio returns the last launched radio.
func (q *Queue) CurrentRadio() (Radio, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.currentRadio == nil {
		return Radio{}, false
	}
	return *q.currentRadio, true
}

// SetFirstFile marks the next launch as the first of the session.
func (q *Queue) SetFirstFile(first bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.firstFile = first
}

// SetPlaylist records the playlist the queue was filled from.
func (q *Queue) SetPlaylist(name string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.playlist = name
}

// Playlist returns the playlist the queue was filled from.
func (q *Queue) Playlist() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.playlist
}

// StopRequest halts playback and forgets the queue.
func (q *Queue) StopRequest() {
	q.stop(true)
}

// Shutdown halts playback like StopRequest but keeps the was-playing flag so
// the next run can resume.
func (q *Queue) Shutdown() {
	q.stop(false)
}

func (q *Queue) stop(clearWasPlaying bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopped = true
	if clearWasPlaying {
		q.record(func(ctx context.Context, r Recorder) error { return r.SetWasPlaying(ctx, false) })
	}
	q.resetLocked()
	q.player.Stop(true)
	q.bus.Publish(events.PlayerStop, nil)
	q.bus.Publish(events.Reset, nil)
	q.refreshedLocked()
}

func (q *Queue) resetLocked() {
	q.clearLocked()
	q.playlist = ""
	q.last = nil
}

func (q *Queue) clearLocked() {
	q.items = nil
	q.planned = nil
	q.index = 0
	q.playing = nil
}

// endLocked stops sequencing once nothing is left to play.
func (q *Queue) endLocked() {
	q.stopped = true
	q.index = 0
	q.playing = nil
	q.bus.Publish(events.Reset, nil)
}

// followPlayingLocked points the cursor back at the playing item after an
// edit moved it. It returns false when that item left the queue.
func (q *Queue) followPlayingLocked() bool {
	if q.playing == nil {
		return true
	}
	i := slices.Index(q.items, q.playing)
	if i < 0 {
		return false
	}
	q.index = i
	return true
}

func (q *Queue) stopPlayerLocked() {
	if q.player.IsPlaying() {
		q.player.Stop(false)
	}
}

// refreshedLocked publishes the queue state to observers.
func (q *Queue) refreshedLocked() {
	telemetry.QueueLength.Set(float64(len(q.items)))
	telemetry.PlannedLength.Set(float64(len(q.planned)))
	q.bus.Publish(events.QueueRefreshed, nil)
}

func (q *Queue) record(fn func(ctx context.Context, r Recorder) error) {
	if q.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := fn(ctx, q.recorder); err != nil {
		q.logger.Warn().Err(err).Msg("failed to record session state")
	}
}
