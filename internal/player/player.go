package player

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extOGG  = ".ogg"
	extWAV  = ".wav"
	extM4A  = ".m4a"

	fadeSteps    = 10
	fadeDuration = 200 * time.Millisecond
)

// ErrUnsupportedFormat is returned for files the player cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported format")

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// Player plays one file or stream at a time through the system speaker.
type Player struct {
	mu         sync.Mutex
	state      State
	gen        uint64
	ctrl       *beep.Ctrl
	volume     *effects.Volume
	streamer   beep.StreamSeekCloser
	format     beep.Format
	closer     func() error
	duration   time.Duration
	onFinished func()

	volumeLevel float64
	muted       bool
	client      *http.Client
}

// New creates a stopped player.
func New() *Player {
	return &Player{
		state:       Stopped,
		volumeLevel: 1,
		client:      &http.Client{},
	}
}

// Play starts playback of the file at path.
func (p *Player) Play(path string, start float64, clip time.Duration) error {
	p.Stop(true)

	ext := strings.ToLower(filepath.Ext(path))
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case extMP3:
		streamer, format, err = mp3.Decode(f)
	case extFLAC:
		streamer, format, err = flac.Decode(f)
	case extOGG:
		streamer, format, err = vorbis.Decode(f)
	case extWAV:
		streamer, format, err = wav.Decode(f)
	case extM4A:
		streamer, format, err = decodeM4A(f)
	default:
		f.Close()
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", path, err)
	}

	if start > 0 && start < 1 && streamer.Len() > 0 {
		if err := streamer.Seek(int(start * float64(streamer.Len()))); err != nil {
			streamer.Close()
			return fmt.Errorf("seek %s: %w", path, err)
		}
	}

	var source beep.Streamer = streamer
	if clip > 0 {
		source = beep.Take(format.SampleRate.N(clip), streamer)
	}
	return p.start(streamer, source, format, streamer.Close)
}

// PlayStream starts playback of an MP3 web radio stream.
func (p *Player) PlayStream(url string) error {
	p.Stop(true)

	resp, err := p.client.Get(url) //nolint:noctx // stream lives until Stop
	if err != nil {
		return fmt.Errorf("open stream %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("open stream %s: status %s", url, resp.Status)
	}
	streamer, format, err := mp3.Decode(resp.Body)
	if err != nil {
		resp.Body.Close()
		return fmt.Errorf("decode stream %s: %w", url, err)
	}
	return p.start(streamer, streamer, format, streamer.Close)
}

func (p *Player) start(streamer beep.StreamSeekCloser, source beep.Streamer, format beep.Format, closer func() error) error {
	sampleRate, err := initSpeaker(format.SampleRate)
	if err != nil {
		_ = closer()
		return err
	}
	if format.SampleRate != sampleRate {
		source = beep.Resample(4, format.SampleRate, sampleRate, source)
	}

	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.streamer = streamer
	p.format = format
	p.closer = closer
	p.duration = 0
	if streamer.Len() > 0 {
		p.duration = format.SampleRate.D(streamer.Len())
	}
	p.ctrl = &beep.Ctrl{Streamer: source}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   levelToVolume(p.volumeLevel),
		Silent:   p.muted,
	}
	p.state = Playing
	vol := p.volume
	p.mu.Unlock()

	// The callback runs under the speaker lock; hand off so the finish
	// handler can call back into the player.
	speaker.Play(beep.Seq(vol, beep.Callback(func() {
		go p.finished(gen)
	})))
	return nil
}

func initSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if !speakerInitialized {
		if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
			return 0, fmt.Errorf("init speaker: %w", err)
		}
		speakerSampleRate = rate
		speakerInitialized = true
	}
	return speakerSampleRate, nil
}

func (p *Player) finished(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || p.state == Stopped {
		p.mu.Unlock()
		return
	}
	p.releaseLocked()
	fn := p.onFinished
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (p *Player) releaseLocked() {
	if p.closer != nil {
		_ = p.closer()
	}
	p.closer = nil
	p.streamer = nil
	p.ctrl = nil
	p.volume = nil
	p.duration = 0
	p.state = Stopped
}

// Stop stops playback. Without immediate the output fades out first.
// Stopping never triggers the finish callback.
func (p *Player) Stop(immediate bool) {
	p.mu.Lock()
	if p.state == Stopped {
		p.mu.Unlock()
		return
	}
	p.gen++
	vol := p.volume
	p.mu.Unlock()

	if !immediate && vol != nil {
		fadeOut(vol)
	}
	speaker.Clear()

	p.mu.Lock()
	p.releaseLocked()
	p.mu.Unlock()
}

func fadeOut(vol *effects.Volume) {
	speaker.Lock()
	startVol := vol.Volume
	speaker.Unlock()
	step := (silentVolume - startVol) / fadeSteps
	for i := 1; i <= fadeSteps; i++ {
		speaker.Lock()
		vol.Volume = startVol + step*float64(i)
		speaker.Unlock()
		time.Sleep(fadeDuration / fadeSteps)
	}
}

// Pause pauses playback.
func (p *Player) Pause() { p.setPaused(true) }

// Resume resumes paused playback.
func (p *Player) Resume() { p.setPaused(false) }

// Toggle switches between playing and paused.
func (p *Player) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if next, ok := p.state.toggled(); ok {
		p.applyPauseLocked(next)
	}
}

func (p *Player) setPaused(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if next, ok := p.state.withPause(paused); ok {
		p.applyPauseLocked(next)
	}
}

func (p *Player) applyPauseLocked(next State) {
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = next == Paused
	speaker.Unlock()
	p.state = next
}

// State returns the current playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// IsPlaying returns true while a track is loaded, paused or not.
func (p *Player) IsPlaying() bool {
	return p.State().IsActive()
}

// Position returns the playback position as a fraction of the track length.
// Streams report 0.
func (p *Player) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil || p.streamer.Len() <= 0 {
		return 0
	}
	speaker.Lock()
	pos := float64(p.streamer.Position()) / float64(p.streamer.Len())
	speaker.Unlock()
	return pos
}

// Elapsed returns the playback position as a duration.
func (p *Player) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.format.SampleRate.D(p.streamer.Position())
	speaker.Unlock()
	return pos
}

// Duration returns the length of the current track, or 0 for streams.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// OnFinished sets the callback invoked when a track plays to its end.
func (p *Player) OnFinished(fn func()) {
	p.mu.Lock()
	p.onFinished = fn
	p.mu.Unlock()
}
