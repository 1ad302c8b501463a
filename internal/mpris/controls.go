// Package mpris exposes the play queue as an MPRIS media player over D-Bus.
package mpris

import (
	"time"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/player"
	"github.com/llehouerou/jukebox/internal/playqueue"
)

// Queue is the part of the play queue MPRIS drives.
type Queue interface {
	PlayNext()
	PlayPrevious()
	StopRequest()
	CurrentFile() *collection.File
	Len() int
	Modes() playqueue.Modes
	SetRepeat(on bool)
	SetShuffle(on bool)
}

// Player is the part of the audio player MPRIS drives.
type Player interface {
	Pause()
	Resume()
	Toggle()
	State() player.State
	Elapsed() time.Duration
	Duration() time.Duration
	Volume() float64
	SetVolume(level float64)
}

var (
	_ Queue  = (*playqueue.Queue)(nil)
	_ Player = (player.Interface)(nil)
)
