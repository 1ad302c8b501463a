package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt16Frames(t *testing.T) {
	stereo := int16Frames([]int16{16384, -16384, 0, 32767}, 2)
	assert.Equal(t, [][2]float64{{0.5, -0.5}, {0, 32767.0 / 32768}}, stereo)

	mono := int16Frames([]int16{-32768, 16384}, 1)
	assert.Equal(t, [][2]float64{{-1, -1}, {0.5, 0.5}}, mono)

	assert.Nil(t, int16Frames([]int16{1}, 0))
}

func TestPCMFrames(t *testing.T) {
	t.Run("16 bit stereo", func(t *testing.T) {
		// 0x4000 left, 0xC000 right
		frames := pcmFrames([]byte{0x00, 0x40, 0x00, 0xC0}, 16, 2)
		assert.Equal(t, [][2]float64{{0.5, -0.5}}, frames)
	})
	t.Run("24 bit mono sign extends", func(t *testing.T) {
		// 0x400000 then 0xC00000
		frames := pcmFrames([]byte{0x00, 0x00, 0x40, 0x00, 0x00, 0xC0}, 24, 1)
		assert.Equal(t, [][2]float64{{0.5, 0.5}, {-0.5, -0.5}}, frames)
	})
	t.Run("partial frame dropped", func(t *testing.T) {
		frames := pcmFrames([]byte{0x00, 0x40, 0x00}, 16, 2)
		assert.Empty(t, frames)
	})
	t.Run("unsupported width", func(t *testing.T) {
		assert.Nil(t, pcmFrames([]byte{1, 2, 3, 4}, 8, 1))
	})
}
