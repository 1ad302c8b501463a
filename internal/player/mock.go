// internal/player/mock.go
package player

import (
	"sync"
	"time"
)

// PlayCall records one Play or PlayStream invocation.
type PlayCall struct {
	Path  string
	Start float64
	Clip  time.Duration
}

// Mock is a test double for Player. It is safe for concurrent use.
type Mock struct {
	mu         sync.Mutex
	state      State
	position   float64
	duration   time.Duration
	volume     float64
	playErr    error
	streamErr  error
	playCalls  []PlayCall
	streamURLs []string
	stopCalls  []bool
	onFinished func()
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{state: Stopped, volume: 1}
}

func (m *Mock) Play(path string, start float64, clip time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls = append(m.playCalls, PlayCall{Path: path, Start: start, Clip: clip})
	if m.playErr != nil {
		m.state = Stopped
		return m.playErr
	}
	m.state = Playing
	m.position = start
	return nil
}

func (m *Mock) PlayStream(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamURLs = append(m.streamURLs, url)
	if m.streamErr != nil {
		return m.streamErr
	}
	m.state = Playing
	return nil
}

func (m *Mock) Stop(immediate bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls = append(m.stopCalls, immediate)
	m.state = Stopped
}

func (m *Mock) Pause() { m.setPaused(true) }

func (m *Mock) Resume() { m.setPaused(false) }

func (m *Mock) Toggle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state, _ = m.state.toggled()
}

func (m *Mock) setPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state, _ = m.state.withPause(paused)
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) IsPlaying() bool { return m.State().IsActive() }

func (m *Mock) Position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Duration(m.position * float64(m.duration))
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) OnFinished(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFinished = fn
}

// Test helpers

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetStreamError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamErr = err
}

func (m *Mock) SetPosition(fraction float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = fraction
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *Mock) PlayCalls() []PlayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PlayCall(nil), m.playCalls...)
}

// PlayedPaths returns the paths of every Play call, in order.
func (m *Mock) PlayedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, len(m.playCalls))
	for i, c := range m.playCalls {
		paths[i] = c.Path
	}
	return paths
}

func (m *Mock) StreamURLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.streamURLs...)
}

func (m *Mock) StopCalls() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.stopCalls...)
}

// SimulateFinished simulates a track playing to its end: the player stops,
// then the finish callback runs on the caller's goroutine.
func (m *Mock) SimulateFinished() {
	m.mu.Lock()
	m.state = Stopped
	fn := m.onFinished
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// FireStaleFinished runs the finish callback without stopping the player,
// as a late notification from a previous track would.
func (m *Mock) FireStaleFinished() {
	m.mu.Lock()
	fn := m.onFinished
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
