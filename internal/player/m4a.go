package player

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

const alacFrameSize = 4096

// m4aStream plays the samples of an MP4 container through a per-codec
// frame decoder.
type m4aStream struct {
	container *m4a.Reader
	file      io.Closer
	decode    func(frame []byte) ([][2]float64, error)
	release   func()

	next     int
	length   int
	rate     float64
	pending  [][2]float64
	consumed int
	err      error
}

// decodeM4A opens an AAC or ALAC track held in an M4A file.
func decodeM4A(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	container, err := m4a.Open(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	rate := float64(container.SampleRate())
	channels := int(container.Channels())
	format := beep.Format{
		SampleRate:  beep.SampleRate(container.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	s := &m4aStream{
		container: container,
		file:      rc,
		release:   func() {},
		length:    int(container.Duration().Seconds() * rate),
		rate:      rate,
	}

	switch container.Codec() {
	case m4a.CodecAAC:
		ctx := context.Background()
		dec, err := faad2.NewDecoder(ctx)
		if err != nil {
			return nil, beep.Format{}, err
		}
		if err := dec.Init(ctx, container.CodecConfig()); err != nil {
			dec.Close(ctx)
			return nil, beep.Format{}, err
		}
		s.decode = func(frame []byte) ([][2]float64, error) {
			pcm, err := dec.Decode(ctx, frame)
			if err != nil {
				return nil, err
			}
			return int16Frames(pcm, channels), nil
		}
		s.release = func() { dec.Close(ctx) }

	case m4a.CodecALAC:
		bits := int(container.SampleSize())
		dec, err := alac.NewWithConfig(alac.Config{
			SampleRate:  int(container.SampleRate()),
			SampleSize:  bits,
			NumChannels: channels,
			FrameSize:   alacFrameSize,
		})
		if err != nil {
			return nil, beep.Format{}, err
		}
		if bits == 24 {
			format.Precision = 3
		}
		s.decode = func(frame []byte) ([][2]float64, error) {
			return pcmFrames(dec.Decode(frame), bits, channels), nil
		}

	default:
		return nil, beep.Format{}, fmt.Errorf("%w: m4a codec %s", ErrUnsupportedFormat, container.Codec())
	}

	return s, format, nil
}

func (s *m4aStream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	n := 0
	for n < len(samples) {
		if s.consumed < len(s.pending) {
			c := copy(samples[n:], s.pending[s.consumed:])
			s.consumed += c
			n += c
			continue
		}
		if s.next >= s.container.SampleCount() {
			return n, n > 0
		}
		frame, err := s.container.ReadSample(s.next)
		if err == nil {
			s.pending, err = s.decode(frame)
		}
		if err != nil {
			s.err = err
			return n, n > 0
		}
		s.next++
		s.consumed = 0
	}
	return n, true
}

func (s *m4aStream) Err() error { return s.err }

func (s *m4aStream) Len() int { return s.length }

func (s *m4aStream) Position() int {
	return int(s.container.SampleTime(s.next).Seconds() * s.rate)
}

func (s *m4aStream) Seek(p int) error {
	p = max(0, min(p, s.length))
	s.next = s.container.SeekToTime(time.Duration(float64(p) / s.rate * float64(time.Second)))
	s.pending = nil
	s.consumed = 0
	s.err = nil
	return nil
}

func (s *m4aStream) Close() error {
	s.release()
	return s.file.Close()
}

// int16Frames converts interleaved 16-bit samples to stereo frames. Mono
// input is copied to both channels.
func int16Frames(pcm []int16, channels int) [][2]float64 {
	if channels < 1 {
		return nil
	}
	frames := make([][2]float64, len(pcm)/channels)
	for i := range frames {
		left := float64(pcm[i*channels]) / 32768
		right := left
		if channels > 1 {
			right = float64(pcm[i*channels+1]) / 32768
		}
		frames[i] = [2]float64{left, right}
	}
	return frames
}

// pcmFrames converts little-endian 16 or 24-bit PCM bytes to stereo frames.
func pcmFrames(data []byte, bits, channels int) [][2]float64 {
	width := bits / 8
	if channels < 1 || (width != 2 && width != 3) {
		return nil
	}
	sample := func(off int) float64 {
		if width == 2 {
			return float64(int16(uint16(data[off])|uint16(data[off+1])<<8)) / 32768
		}
		v := int32(data[off]) | int32(data[off+1])<<8 | int32(data[off+2])<<16
		if v&0x800000 != 0 {
			v |= ^0xFFFFFF
		}
		return float64(v) / 8388608
	}

	stride := width * channels
	frames := make([][2]float64, len(data)/stride)
	for i := range frames {
		off := i * stride
		left := sample(off)
		right := left
		if channels > 1 {
			right = sample(off + width)
		}
		frames[i] = [2]float64{left, right}
	}
	return frames
}
