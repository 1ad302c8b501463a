// internal/player/interface.go
package player

import "time"

// Interface defines the player contract for dependency injection and testing.
//
// Play starts a file at start, a fraction of its length in [0,1]. A positive
// clip stops playback after that duration (intro mode). Stop with immediate
// set cuts the sound at once; otherwise the output fades out first.
// The finish callback runs on its own goroutine, never under the audio lock.
type Interface interface {
	Play(path string, start float64, clip time.Duration) error
	PlayStream(url string) error
	Stop(immediate bool)
	Pause()
	Resume()
	Toggle()
	State() State
	IsPlaying() bool
	Position() float64
	Elapsed() time.Duration
	Duration() time.Duration
	SetVolume(level float64)
	Volume() float64
	OnFinished(fn func())
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
