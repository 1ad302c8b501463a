package player

import (
	"math"

	"github.com/gopxl/beep/v2/speaker"
)

// silentVolume is the beep gain, in powers of two, used for level 0.
const silentVolume = -10

// levelToVolume maps a linear level in [0,1] to beep's base 2 gain, so
// halving the level lowers the gain by one step.
func levelToVolume(level float64) float64 {
	switch {
	case level <= 0:
		return silentVolume
	case level >= 1:
		return 0
	}
	return math.Log2(level)
}

// SetVolume sets the output level, clamped to [0,1]. The level is kept
// while muted and applies on unmute.
func (p *Player) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volumeLevel = max(0, min(1, level))
	p.applyVolumeLocked()
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volumeLevel
}

// SetMuted silences the output without losing the level.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
	p.applyVolumeLocked()
}

func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *Player) applyVolumeLocked() {
	if p.volume == nil {
		return
	}
	speaker.Lock()
	p.volume.Volume = levelToVolume(p.volumeLevel)
	p.volume.Silent = p.muted
	speaker.Unlock()
}
